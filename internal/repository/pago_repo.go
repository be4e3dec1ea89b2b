package repository

import (
	"context"

	"facturapp/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PagoRepository interface {
	// FindByID resolves the payment through its invoice so only the owner sees it.
	FindByID(ctx context.Context, usuarioID, id uuid.UUID) (*model.Pago, error)
	ListByFactura(ctx context.Context, facturaID uuid.UUID) ([]model.Pago, error)

	// Used inside transactions. A nil tx falls back to the repository handle.
	CreateTx(ctx context.Context, tx *gorm.DB, p *model.Pago) error
	SumByFacturaTx(ctx context.Context, tx *gorm.DB, facturaID uuid.UUID) (decimal.Decimal, error)
	DeleteTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	DeleteByFacturaTx(ctx context.Context, tx *gorm.DB, facturaID uuid.UUID) error
}

type pagoRepo struct{ db *gorm.DB }

func NewPagoRepository(db *gorm.DB) PagoRepository { return &pagoRepo{db: db} }

func (r *pagoRepo) FindByID(ctx context.Context, usuarioID, id uuid.UUID) (*model.Pago, error) {
	var p model.Pago
	err := r.db.WithContext(ctx).
		Joins("JOIN facturas ON facturas.id = pagos.factura_id").
		Where("pagos.id = ? AND facturas.usuario_id = ?", id, usuarioID).
		First(&p).Error
	return &p, err
}

func (r *pagoRepo) ListByFactura(ctx context.Context, facturaID uuid.UUID) ([]model.Pago, error) {
	var pagos []model.Pago
	err := r.db.WithContext(ctx).Where("factura_id = ?", facturaID).
		Order("fecha ASC, created_at ASC").Find(&pagos).Error
	return pagos, err
}

func (r *pagoRepo) CreateTx(ctx context.Context, tx *gorm.DB, p *model.Pago) error {
	return conn(ctx, r.db, tx).Create(p).Error
}

func (r *pagoRepo) SumByFacturaTx(ctx context.Context, tx *gorm.DB, facturaID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := conn(ctx, r.db, tx).Model(&model.Pago{}).
		Select("COALESCE(SUM(monto), 0)").
		Where("factura_id = ?", facturaID).
		Row().Scan(&total)
	return total, err
}

func (r *pagoRepo) DeleteTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return conn(ctx, r.db, tx).Where("id = ?", id).Delete(&model.Pago{}).Error
}

func (r *pagoRepo) DeleteByFacturaTx(ctx context.Context, tx *gorm.DB, facturaID uuid.UUID) error {
	return conn(ctx, r.db, tx).Where("factura_id = ?", facturaID).Delete(&model.Pago{}).Error
}
