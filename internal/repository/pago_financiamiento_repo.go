package repository

import (
	"context"

	"facturapp/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PagoFinanciamientoRepository interface {
	ListByCliente(ctx context.Context, clienteID uuid.UUID) ([]model.PagoFinanciamiento, error)

	// Used inside transactions. A nil tx falls back to the repository handle.
	CreateTx(ctx context.Context, tx *gorm.DB, p *model.PagoFinanciamiento) error
	FindByIDTx(ctx context.Context, tx *gorm.DB, clienteID, id uuid.UUID) (*model.PagoFinanciamiento, error)
	// SumByFacturaTx totals the abonos a customer received from payments on one invoice.
	SumByFacturaTx(ctx context.Context, tx *gorm.DB, clienteID, facturaID uuid.UUID) (decimal.Decimal, error)
	DeleteTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type pagoFinanciamientoRepo struct{ db *gorm.DB }

func NewPagoFinanciamientoRepository(db *gorm.DB) PagoFinanciamientoRepository {
	return &pagoFinanciamientoRepo{db: db}
}

func (r *pagoFinanciamientoRepo) ListByCliente(ctx context.Context, clienteID uuid.UUID) ([]model.PagoFinanciamiento, error) {
	var pagos []model.PagoFinanciamiento
	err := r.db.WithContext(ctx).Where("cliente_id = ?", clienteID).
		Order("fecha DESC, created_at DESC").Find(&pagos).Error
	return pagos, err
}

func (r *pagoFinanciamientoRepo) CreateTx(ctx context.Context, tx *gorm.DB, p *model.PagoFinanciamiento) error {
	return conn(ctx, r.db, tx).Create(p).Error
}

func (r *pagoFinanciamientoRepo) FindByIDTx(ctx context.Context, tx *gorm.DB, clienteID, id uuid.UUID) (*model.PagoFinanciamiento, error) {
	var p model.PagoFinanciamiento
	err := conn(ctx, r.db, tx).Where("id = ? AND cliente_id = ?", id, clienteID).First(&p).Error
	return &p, err
}

func (r *pagoFinanciamientoRepo) SumByFacturaTx(ctx context.Context, tx *gorm.DB, clienteID, facturaID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := conn(ctx, r.db, tx).Model(&model.PagoFinanciamiento{}).
		Select("COALESCE(SUM(monto), 0)").
		Where("cliente_id = ? AND factura_id = ?", clienteID, facturaID).
		Row().Scan(&total)
	return total, err
}

func (r *pagoFinanciamientoRepo) DeleteTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return conn(ctx, r.db, tx).Where("id = ?", id).Delete(&model.PagoFinanciamiento{}).Error
}
