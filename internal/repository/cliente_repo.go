package repository

import (
	"context"

	"facturapp/internal/dto"
	"facturapp/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ClienteRepository interface {
	Create(ctx context.Context, c *model.Cliente) error
	FindByID(ctx context.Context, usuarioID, id uuid.UUID) (*model.Cliente, error)
	List(ctx context.Context, usuarioID uuid.UUID, filter dto.ClienteFilter) ([]model.Cliente, int64, error)
	Update(ctx context.Context, c *model.Cliente) error
	Delete(ctx context.Context, usuarioID, id uuid.UUID) error
	Count(ctx context.Context, usuarioID uuid.UUID) (int64, error)
	SumFinanciamientoUsado(ctx context.Context, usuarioID uuid.UUID) (decimal.Decimal, error)

	// Used inside transactions. A nil tx falls back to the repository handle.
	FindByIDTx(ctx context.Context, tx *gorm.DB, usuarioID, id uuid.UUID) (*model.Cliente, error)
	UpdateFinanciamientoUsadoTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, usado decimal.Decimal) error

	DB() *gorm.DB
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

func (r *clienteRepo) DB() *gorm.DB { return r.db }

func (r *clienteRepo) Create(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clienteRepo) FindByID(ctx context.Context, usuarioID, id uuid.UUID) (*model.Cliente, error) {
	return r.FindByIDTx(ctx, nil, usuarioID, id)
}

func (r *clienteRepo) FindByIDTx(ctx context.Context, tx *gorm.DB, usuarioID, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	q := forUpdate(conn(ctx, r.db, tx), tx)
	err := q.Where("id = ? AND usuario_id = ?", id, usuarioID).First(&c).Error
	return &c, err
}

func (r *clienteRepo) List(ctx context.Context, usuarioID uuid.UUID, filter dto.ClienteFilter) ([]model.Cliente, int64, error) {
	var clientes []model.Cliente
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Cliente{}).Where("usuario_id = ?", usuarioID)
	if filter.Buscar != "" {
		like := "%" + filter.Buscar + "%"
		q = q.Where("nombre ILIKE ? OR email ILIKE ? OR rnc ILIKE ?", like, like, like)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("nombre ASC").
		Offset(offset(filter.Page, filter.Limit)).Limit(filter.Limit).
		Find(&clientes).Error
	return clientes, total, err
}

// Update saves the editable columns. financiamiento_usado is left alone on
// purpose: only UpdateFinanciamientoUsadoTx moves it.
func (r *clienteRepo) Update(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Model(c).
		Where("usuario_id = ?", c.UsuarioID).
		Select("nombre", "email", "telefono", "rnc", "direccion", "notas",
			"financiamiento_disponible", "limite_financiamiento", "tasa_interes", "updated_at").
		Updates(c).Error
}

func (r *clienteRepo) Delete(ctx context.Context, usuarioID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ? AND usuario_id = ?", id, usuarioID).Delete(&model.Cliente{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *clienteRepo) Count(ctx context.Context, usuarioID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Cliente{}).Where("usuario_id = ?", usuarioID).Count(&n).Error
	return n, err
}

func (r *clienteRepo) SumFinanciamientoUsado(ctx context.Context, usuarioID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Cliente{}).
		Select("COALESCE(SUM(financiamiento_usado), 0)").
		Where("usuario_id = ? AND financiamiento_disponible = true", usuarioID).
		Row().Scan(&total)
	return total, err
}

func (r *clienteRepo) UpdateFinanciamientoUsadoTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, usado decimal.Decimal) error {
	return conn(ctx, r.db, tx).Model(&model.Cliente{}).Where("id = ?", id).
		Update("financiamiento_usado", usado).Error
}
