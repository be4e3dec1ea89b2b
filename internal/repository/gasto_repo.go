package repository

import (
	"context"

	"facturapp/internal/dto"
	"facturapp/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GastoRepository interface {
	Create(ctx context.Context, g *model.Gasto) error
	FindByID(ctx context.Context, usuarioID, id uuid.UUID) (*model.Gasto, error)
	List(ctx context.Context, usuarioID uuid.UUID, filter dto.GastoFilter) ([]model.Gasto, int64, error)
	ListAll(ctx context.Context, usuarioID uuid.UUID) ([]model.Gasto, error)
	Update(ctx context.Context, g *model.Gasto) error
	Delete(ctx context.Context, usuarioID, id uuid.UUID) error
}

type gastoRepo struct{ db *gorm.DB }

func NewGastoRepository(db *gorm.DB) GastoRepository { return &gastoRepo{db: db} }

func (r *gastoRepo) Create(ctx context.Context, g *model.Gasto) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *gastoRepo) FindByID(ctx context.Context, usuarioID, id uuid.UUID) (*model.Gasto, error) {
	var g model.Gasto
	err := r.db.WithContext(ctx).Where("id = ? AND usuario_id = ?", id, usuarioID).First(&g).Error
	return &g, err
}

func (r *gastoRepo) List(ctx context.Context, usuarioID uuid.UUID, filter dto.GastoFilter) ([]model.Gasto, int64, error) {
	var gastos []model.Gasto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Gasto{}).Where("usuario_id = ?", usuarioID)
	if filter.Categoria != "" {
		q = q.Where("categoria = ?", filter.Categoria)
	}
	if filter.Desde != "" {
		q = q.Where("fecha >= ?", filter.Desde)
	}
	if filter.Hasta != "" {
		q = q.Where("fecha <= ?", filter.Hasta)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("fecha DESC, created_at DESC").
		Offset(offset(filter.Page, filter.Limit)).Limit(filter.Limit).
		Find(&gastos).Error
	return gastos, total, err
}

func (r *gastoRepo) ListAll(ctx context.Context, usuarioID uuid.UUID) ([]model.Gasto, error) {
	var gastos []model.Gasto
	err := r.db.WithContext(ctx).Where("usuario_id = ?", usuarioID).Order("fecha ASC").Find(&gastos).Error
	return gastos, err
}

func (r *gastoRepo) Update(ctx context.Context, g *model.Gasto) error {
	return r.db.WithContext(ctx).Model(g).
		Where("usuario_id = ?", g.UsuarioID).
		Select("categoria", "descripcion", "monto", "fecha", "metodo_pago", "recibo_url", "notas", "updated_at").
		Updates(g).Error
}

func (r *gastoRepo) Delete(ctx context.Context, usuarioID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ? AND usuario_id = ?", id, usuarioID).Delete(&model.Gasto{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
