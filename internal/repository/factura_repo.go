package repository

import (
	"context"
	"time"

	"facturapp/internal/dto"
	"facturapp/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FacturaRepository interface {
	FindByID(ctx context.Context, usuarioID, id uuid.UUID) (*model.Factura, error)
	List(ctx context.Context, usuarioID uuid.UUID, filter dto.FacturaFilter) ([]model.Factura, int64, error)
	// ListAll returns every invoice header of the tenant, without items.
	ListAll(ctx context.Context, usuarioID uuid.UUID) ([]model.Factura, error)
	// ListVencibles returns sent invoices of every tenant whose due date is before hoy.
	ListVencibles(ctx context.Context, hoy time.Time) ([]model.Factura, error)
	Count(ctx context.Context, usuarioID uuid.UUID) (int64, error)

	// Used inside transactions. A nil tx falls back to the repository handle.
	NextNumeroTx(ctx context.Context, tx *gorm.DB, usuarioID uuid.UUID) (int64, error)
	FindByIDTx(ctx context.Context, tx *gorm.DB, usuarioID, id uuid.UUID) (*model.Factura, error)
	CreateTx(ctx context.Context, tx *gorm.DB, f *model.Factura) error
	UpdateTx(ctx context.Context, tx *gorm.DB, f *model.Factura) error
	ReplaceItemsTx(ctx context.Context, tx *gorm.DB, facturaID uuid.UUID, items []model.FacturaItem) error
	UpdateEstadoTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, estado model.EstadoFactura) error
	DeleteTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) error

	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type facturaRepo struct{ db *gorm.DB }

func NewFacturaRepository(db *gorm.DB) FacturaRepository { return &facturaRepo{db: db} }

func (r *facturaRepo) DB() *gorm.DB { return r.db }

// NextNumeroTx bumps the per-tenant counter and returns the new value.
// The upsert takes a row lock, so two concurrent invoices never share a number.
func (r *facturaRepo) NextNumeroTx(ctx context.Context, tx *gorm.DB, usuarioID uuid.UUID) (int64, error) {
	var n int64
	err := conn(ctx, r.db, tx).Raw(`
		INSERT INTO secuencias_factura (usuario_id, ultimo_valor) VALUES (?, 1)
		ON CONFLICT (usuario_id) DO UPDATE SET ultimo_valor = secuencias_factura.ultimo_valor + 1
		RETURNING ultimo_valor`, usuarioID).Scan(&n).Error
	return n, err
}

func (r *facturaRepo) FindByID(ctx context.Context, usuarioID, id uuid.UUID) (*model.Factura, error) {
	return r.FindByIDTx(ctx, nil, usuarioID, id)
}

func (r *facturaRepo) FindByIDTx(ctx context.Context, tx *gorm.DB, usuarioID, id uuid.UUID) (*model.Factura, error) {
	var f model.Factura
	q := forUpdate(conn(ctx, r.db, tx), tx)
	err := q.Preload("Items").
		Where("id = ? AND usuario_id = ?", id, usuarioID).
		First(&f).Error
	return &f, err
}

func (r *facturaRepo) List(ctx context.Context, usuarioID uuid.UUID, filter dto.FacturaFilter) ([]model.Factura, int64, error) {
	var facturas []model.Factura
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Factura{}).Where("usuario_id = ?", usuarioID)
	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.ClienteID != "" {
		q = q.Where("cliente_id = ?", filter.ClienteID)
	}
	if filter.Buscar != "" {
		like := "%" + filter.Buscar + "%"
		q = q.Where("numero ILIKE ? OR nombre_cliente ILIKE ?", like, like)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Items").
		Order("fecha_emision DESC, numero DESC").
		Offset(offset(filter.Page, filter.Limit)).Limit(filter.Limit).
		Find(&facturas).Error
	return facturas, total, err
}

func (r *facturaRepo) ListAll(ctx context.Context, usuarioID uuid.UUID) ([]model.Factura, error) {
	var facturas []model.Factura
	err := r.db.WithContext(ctx).Where("usuario_id = ?", usuarioID).
		Order("fecha_emision ASC").Find(&facturas).Error
	return facturas, err
}

func (r *facturaRepo) ListVencibles(ctx context.Context, hoy time.Time) ([]model.Factura, error) {
	var facturas []model.Factura
	err := r.db.WithContext(ctx).
		Where("estado = ? AND fecha_vencimiento IS NOT NULL AND fecha_vencimiento < ?",
			model.EstadoEnviada, hoy.Format("2006-01-02")).
		Find(&facturas).Error
	return facturas, err
}

func (r *facturaRepo) Count(ctx context.Context, usuarioID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Factura{}).Where("usuario_id = ?", usuarioID).Count(&n).Error
	return n, err
}

// CreateTx inserts the header and its items in one call.
func (r *facturaRepo) CreateTx(ctx context.Context, tx *gorm.DB, f *model.Factura) error {
	return conn(ctx, r.db, tx).Create(f).Error
}

// UpdateTx saves the header columns only; items go through ReplaceItemsTx.
func (r *facturaRepo) UpdateTx(ctx context.Context, tx *gorm.DB, f *model.Factura) error {
	return conn(ctx, r.db, tx).Model(f).
		Select("cliente_id", "nombre_cliente", "fecha_emision", "fecha_vencimiento", "estado",
			"aplicar_itbis", "subtotal", "descuento", "itbis", "total", "notas", "updated_at").
		Updates(f).Error
}

func (r *facturaRepo) ReplaceItemsTx(ctx context.Context, tx *gorm.DB, facturaID uuid.UUID, items []model.FacturaItem) error {
	db := conn(ctx, r.db, tx)
	if err := db.Where("factura_id = ?", facturaID).Delete(&model.FacturaItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].FacturaID = facturaID
	}
	return db.Create(&items).Error
}

func (r *facturaRepo) UpdateEstadoTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, estado model.EstadoFactura) error {
	return conn(ctx, r.db, tx).Model(&model.Factura{}).Where("id = ?", id).
		Update("estado", estado).Error
}

func (r *facturaRepo) DeleteTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	db := conn(ctx, r.db, tx)
	if err := db.Where("factura_id = ?", id).Delete(&model.FacturaItem{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&model.Factura{}).Error
}
