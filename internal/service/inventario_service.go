package service

import (
	"context"
	"errors"
	"fmt"

	"facturapp/internal/dto"
	"facturapp/internal/infra"
	"facturapp/internal/model"
	"facturapp/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventarioService owns every stock mutation and its audit trail.
type InventarioService interface {
	// AjustarStockTx adds delta to the product's stock inside tx. Unknown
	// products and products without inventory control are a silent no-op.
	AjustarStockTx(ctx context.Context, tx *gorm.DB, usuarioID, productoID uuid.UUID, delta int, tipo, motivo string, referenciaID *uuid.UUID) error
	AjusteManual(ctx context.Context, usuarioID, productoID uuid.UUID, req dto.AjusteStockRequest) (*dto.ProductoResponse, error)
	ListarMovimientos(ctx context.Context, usuarioID, productoID uuid.UUID, filter dto.MovimientoFilter) (*dto.MovimientoStockListResponse, error)
}

type inventarioService struct {
	productoRepo   repository.ProductoRepository
	movimientoRepo repository.MovimientoStockRepository
	refresher      Refresher
}

func NewInventarioService(
	productoRepo repository.ProductoRepository,
	movimientoRepo repository.MovimientoStockRepository,
	refresher Refresher,
) InventarioService {
	return &inventarioService{
		productoRepo:   productoRepo,
		movimientoRepo: movimientoRepo,
		refresher:      refresherOrNoop(refresher),
	}
}

// cantidadStock converts an invoice quantity to stock units. Stock is
// integral, so fractional quantities round half away from zero; the same
// conversion is used when reversing, so apply+reverse is always net zero.
func cantidadStock(q decimal.Decimal) int {
	return int(q.Round(0).IntPart())
}

func (s *inventarioService) AjustarStockTx(ctx context.Context, tx *gorm.DB, usuarioID, productoID uuid.UUID, delta int, tipo, motivo string, referenciaID *uuid.UUID) error {
	if delta == 0 {
		return nil
	}
	p, err := s.productoRepo.FindByIDTx(ctx, tx, usuarioID, productoID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Debug().Str("producto_id", productoID.String()).Msg("inventario: producto inexistente, ajuste omitido")
		return nil
	}
	if err != nil {
		return err
	}
	if !p.ControlarInventario {
		return nil
	}

	if err := s.productoRepo.UpdateStockTx(ctx, tx, productoID, delta); err != nil {
		return fmt.Errorf("actualizando stock de %s: %w", p.Nombre, err)
	}
	mov := &model.MovimientoStock{
		UsuarioID:     usuarioID,
		ProductoID:    productoID,
		Tipo:          tipo,
		Cantidad:      delta,
		StockAnterior: p.StockActual,
		StockNuevo:    p.StockActual + delta,
		Motivo:        motivo,
		ReferenciaID:  referenciaID,
	}
	return s.movimientoRepo.CreateTx(ctx, tx, mov)
}

func (s *inventarioService) AjusteManual(ctx context.Context, usuarioID, productoID uuid.UUID, req dto.AjusteStockRequest) (*dto.ProductoResponse, error) {
	p, err := s.productoRepo.FindByID(ctx, usuarioID, productoID)
	if err != nil {
		return nil, notFound(err, ErrProductoNoEncontrado)
	}
	if !p.ControlarInventario {
		return nil, ErrSinControlInventario
	}

	err = runTx(ctx, s.productoRepo.DB(), func(tx *gorm.DB) error {
		return s.AjustarStockTx(ctx, tx, usuarioID, productoID, req.Delta, model.MovimientoAjusteManual, req.Motivo, nil)
	})
	if err != nil {
		return nil, err
	}
	s.refresher.Invalidar(ctx, usuarioID, infra.VistaProductos, infra.VistaDashboard)

	actualizado, err := s.productoRepo.FindByID(ctx, usuarioID, productoID)
	if err != nil {
		return nil, err
	}
	return productoToResponse(actualizado), nil
}

func (s *inventarioService) ListarMovimientos(ctx context.Context, usuarioID, productoID uuid.UUID, filter dto.MovimientoFilter) (*dto.MovimientoStockListResponse, error) {
	if _, err := s.productoRepo.FindByID(ctx, usuarioID, productoID); err != nil {
		return nil, notFound(err, ErrProductoNoEncontrado)
	}
	movs, total, err := s.movimientoRepo.ListByProducto(ctx, usuarioID, productoID, filter.Page, filter.Limit)
	if err != nil {
		return nil, err
	}
	resp := &dto.MovimientoStockListResponse{
		Data:  make([]dto.MovimientoStockResponse, 0, len(movs)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for _, m := range movs {
		resp.Data = append(resp.Data, dto.MovimientoStockResponse{
			ID:            m.ID.String(),
			ProductoID:    m.ProductoID.String(),
			Tipo:          m.Tipo,
			Cantidad:      m.Cantidad,
			StockAnterior: m.StockAnterior,
			StockNuevo:    m.StockNuevo,
			Motivo:        m.Motivo,
			ReferenciaID:  uuidPtrString(m.ReferenciaID),
			CreatedAt:     m.CreatedAt.Format(timeLayout),
		})
	}
	return resp, nil
}
