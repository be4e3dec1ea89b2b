package repository

import (
	"context"

	"facturapp/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovimientoStockRepository persists the stock audit trail. Rows are never updated.
type MovimientoStockRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, m *model.MovimientoStock) error
	ListByProducto(ctx context.Context, usuarioID, productoID uuid.UUID, page, limit int) ([]model.MovimientoStock, int64, error)
}

type movimientoStockRepo struct{ db *gorm.DB }

func NewMovimientoStockRepository(db *gorm.DB) MovimientoStockRepository {
	return &movimientoStockRepo{db: db}
}

func (r *movimientoStockRepo) CreateTx(ctx context.Context, tx *gorm.DB, m *model.MovimientoStock) error {
	return conn(ctx, r.db, tx).Create(m).Error
}

func (r *movimientoStockRepo) ListByProducto(ctx context.Context, usuarioID, productoID uuid.UUID, page, limit int) ([]model.MovimientoStock, int64, error) {
	var movs []model.MovimientoStock
	var total int64

	q := r.db.WithContext(ctx).Model(&model.MovimientoStock{}).
		Where("usuario_id = ? AND producto_id = ?", usuarioID, productoID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Offset(offset(page, limit)).Limit(limit).Find(&movs).Error
	return movs, total, err
}
