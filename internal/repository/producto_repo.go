package repository

import (
	"context"

	"facturapp/internal/dto"
	"facturapp/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductoRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, usuarioID, id uuid.UUID) (*model.Producto, error)
	List(ctx context.Context, usuarioID uuid.UUID, filter dto.ProductoFilter) ([]model.Producto, int64, error)
	Update(ctx context.Context, p *model.Producto) error
	Delete(ctx context.Context, usuarioID, id uuid.UUID) error
	Count(ctx context.Context, usuarioID uuid.UUID) (int64, error)
	CountBajoStock(ctx context.Context, usuarioID uuid.UUID) (int64, error)

	// Used inside transactions. A nil tx falls back to the repository handle.
	FindByIDTx(ctx context.Context, tx *gorm.DB, usuarioID, id uuid.UUID) (*model.Producto, error)
	UpdateStockTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, delta int) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) DB() *gorm.DB { return r.db }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, usuarioID, id uuid.UUID) (*model.Producto, error) {
	return r.FindByIDTx(ctx, nil, usuarioID, id)
}

func (r *productoRepo) FindByIDTx(ctx context.Context, tx *gorm.DB, usuarioID, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	q := forUpdate(conn(ctx, r.db, tx), tx)
	err := q.Where("id = ? AND usuario_id = ?", id, usuarioID).First(&p).Error
	return &p, err
}

func (r *productoRepo) List(ctx context.Context, usuarioID uuid.UUID, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	var productos []model.Producto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Producto{}).Where("usuario_id = ?", usuarioID)
	if filter.Buscar != "" {
		like := "%" + filter.Buscar + "%"
		q = q.Where("nombre ILIKE ? OR sku ILIKE ?", like, like)
	}
	if filter.Categoria != "" {
		q = q.Where("categoria = ?", filter.Categoria)
	}
	if filter.BajoStock {
		q = q.Where("controlar_inventario = true AND stock_actual <= stock_minimo")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("nombre ASC").
		Offset(offset(filter.Page, filter.Limit)).Limit(filter.Limit).
		Find(&productos).Error
	return productos, total, err
}

// Update saves the editable columns. stock_actual only moves through UpdateStockTx.
func (r *productoRepo) Update(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Model(p).
		Where("usuario_id = ?", p.UsuarioID).
		Select("nombre", "descripcion", "sku", "categoria", "precio", "costo",
			"controlar_inventario", "stock_minimo", "updated_at").
		Updates(p).Error
}

func (r *productoRepo) Delete(ctx context.Context, usuarioID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ? AND usuario_id = ?", id, usuarioID).Delete(&model.Producto{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productoRepo) Count(ctx context.Context, usuarioID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Producto{}).Where("usuario_id = ?", usuarioID).Count(&n).Error
	return n, err
}

func (r *productoRepo) CountBajoStock(ctx context.Context, usuarioID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Producto{}).
		Where("usuario_id = ? AND controlar_inventario = true AND stock_actual <= stock_minimo", usuarioID).
		Count(&n).Error
	return n, err
}

func (r *productoRepo) UpdateStockTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, delta int) error {
	return conn(ctx, r.db, tx).Model(&model.Producto{}).Where("id = ?", id).
		Update("stock_actual", gorm.Expr("stock_actual + ?", delta)).Error
}
