package service

import (
	"context"
	"errors"

	"facturapp/internal/dto"
	"facturapp/internal/infra"
	"facturapp/internal/model"
	"facturapp/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FinanciamientoService keeps Cliente.FinanciamientoUsado in sync with the
// invoices and financing payments of the customer.
type FinanciamientoService interface {
	// AjustarFinanciamientoTx moves the used balance by delta.
	//   - unknown customer or financing disabled: no-op
	//   - delta > 0 beyond the limit: ErrLimiteFinanciamiento
	//   - delta < 0 below zero: clamped at zero
	AjustarFinanciamientoTx(ctx context.Context, tx *gorm.DB, usuarioID, clienteID uuid.UUID, delta decimal.Decimal) error
	// AbonarDesdePagoTx reduces the used balance after an invoice payment and
	// records the applied amount as a financing payment linked to the invoice.
	AbonarDesdePagoTx(ctx context.Context, tx *gorm.DB, usuarioID, clienteID, facturaID uuid.UUID, pago *model.Pago) error
	// AporteFacturaTx is what an invoice of the given total still adds to the
	// customer's used balance: the total minus the abonos already recorded
	// against it, never below zero.
	AporteFacturaTx(ctx context.Context, tx *gorm.DB, clienteID, facturaID uuid.UUID, total decimal.Decimal) (decimal.Decimal, error)

	RegistrarPago(ctx context.Context, usuarioID, clienteID uuid.UUID, req dto.PagoFinanciamientoRequest) (*dto.PagoFinanciamientoResponse, error)
	EliminarPago(ctx context.Context, usuarioID, clienteID, pagoID uuid.UUID) error
	ListarPagos(ctx context.Context, usuarioID, clienteID uuid.UUID) ([]dto.PagoFinanciamientoResponse, error)
}

type financiamientoService struct {
	clienteRepo repository.ClienteRepository
	pagoRepo    repository.PagoFinanciamientoRepository
	refresher   Refresher
}

func NewFinanciamientoService(
	clienteRepo repository.ClienteRepository,
	pagoRepo repository.PagoFinanciamientoRepository,
	refresher Refresher,
) FinanciamientoService {
	return &financiamientoService{
		clienteRepo: clienteRepo,
		pagoRepo:    pagoRepo,
		refresher:   refresherOrNoop(refresher),
	}
}

func (s *financiamientoService) AjustarFinanciamientoTx(ctx context.Context, tx *gorm.DB, usuarioID, clienteID uuid.UUID, delta decimal.Decimal) error {
	if delta.IsZero() {
		return nil
	}
	c, err := s.clienteRepo.FindByIDTx(ctx, tx, usuarioID, clienteID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Debug().Str("cliente_id", clienteID.String()).Msg("financiamiento: cliente inexistente, ajuste omitido")
		return nil
	}
	if err != nil {
		return err
	}
	if !c.FinanciamientoDisponible {
		return nil
	}

	nuevo := c.FinanciamientoUsado.Add(delta)
	if delta.IsPositive() && nuevo.GreaterThan(c.LimiteFinanciamiento) {
		return ErrLimiteFinanciamiento
	}
	if nuevo.IsNegative() {
		log.Warn().Str("cliente_id", clienteID.String()).
			Str("usado", c.FinanciamientoUsado.String()).Str("delta", delta.String()).
			Msg("financiamiento: saldo negativo ajustado a cero")
		nuevo = decimal.Zero
	}
	return s.clienteRepo.UpdateFinanciamientoUsadoTx(ctx, tx, clienteID, nuevo)
}

func (s *financiamientoService) AbonarDesdePagoTx(ctx context.Context, tx *gorm.DB, usuarioID, clienteID, facturaID uuid.UUID, pago *model.Pago) error {
	c, err := s.clienteRepo.FindByIDTx(ctx, tx, usuarioID, clienteID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !c.FinanciamientoDisponible || !c.FinanciamientoUsado.IsPositive() {
		return nil
	}

	aplicado := decimal.Min(pago.Monto, c.FinanciamientoUsado)
	if err := s.clienteRepo.UpdateFinanciamientoUsadoTx(ctx, tx, clienteID, c.FinanciamientoUsado.Sub(aplicado)); err != nil {
		return err
	}
	fid := facturaID
	return s.pagoRepo.CreateTx(ctx, tx, &model.PagoFinanciamiento{
		ClienteID:  clienteID,
		FacturaID:  &fid,
		Monto:      aplicado,
		Fecha:      pago.Fecha,
		Metodo:     pago.Metodo,
		Referencia: pago.Referencia,
		Notas:      pago.Notas,
	})
}

func (s *financiamientoService) AporteFacturaTx(ctx context.Context, tx *gorm.DB, clienteID, facturaID uuid.UUID, total decimal.Decimal) (decimal.Decimal, error) {
	abonado, err := s.pagoRepo.SumByFacturaTx(ctx, tx, clienteID, facturaID)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.Max(decimal.Zero, total.Sub(abonado)), nil
}

func (s *financiamientoService) RegistrarPago(ctx context.Context, usuarioID, clienteID uuid.UUID, req dto.PagoFinanciamientoRequest) (*dto.PagoFinanciamientoResponse, error) {
	if !req.Monto.IsPositive() {
		return nil, ErrPagoFinInvalido
	}
	fecha, err := parseFecha(req.Fecha)
	if err != nil {
		return nil, err
	}

	pago := &model.PagoFinanciamiento{
		ClienteID:  clienteID,
		Monto:      req.Monto,
		Fecha:      fecha,
		Metodo:     req.Metodo,
		Referencia: req.Referencia,
		Notas:      req.Notas,
	}
	err = runTx(ctx, s.clienteRepo.DB(), func(tx *gorm.DB) error {
		c, err := s.clienteRepo.FindByIDTx(ctx, tx, usuarioID, clienteID)
		if err != nil {
			return notFound(err, ErrClienteNoEncontrado)
		}
		if !c.FinanciamientoDisponible {
			return ErrSinFinanciamiento
		}
		if err := s.pagoRepo.CreateTx(ctx, tx, pago); err != nil {
			return err
		}
		nuevo := decimal.Max(decimal.Zero, c.FinanciamientoUsado.Sub(req.Monto))
		return s.clienteRepo.UpdateFinanciamientoUsadoTx(ctx, tx, clienteID, nuevo)
	})
	if err != nil {
		return nil, err
	}
	s.refresher.Invalidar(ctx, usuarioID, infra.VistaClientes, infra.VistaDashboard)
	resp := pagoFinToResponse(pago)
	return &resp, nil
}

// EliminarPago removes a financing payment and gives its amount back to the
// used balance. The limit is not enforced here: undoing a payment restores
// the debt that existed before it.
func (s *financiamientoService) EliminarPago(ctx context.Context, usuarioID, clienteID, pagoID uuid.UUID) error {
	err := runTx(ctx, s.clienteRepo.DB(), func(tx *gorm.DB) error {
		c, err := s.clienteRepo.FindByIDTx(ctx, tx, usuarioID, clienteID)
		if err != nil {
			return notFound(err, ErrClienteNoEncontrado)
		}
		p, err := s.pagoRepo.FindByIDTx(ctx, tx, clienteID, pagoID)
		if err != nil {
			return notFound(err, ErrPagoNoEncontrado)
		}
		if err := s.pagoRepo.DeleteTx(ctx, tx, p.ID); err != nil {
			return err
		}
		return s.clienteRepo.UpdateFinanciamientoUsadoTx(ctx, tx, clienteID, c.FinanciamientoUsado.Add(p.Monto))
	})
	if err != nil {
		return err
	}
	s.refresher.Invalidar(ctx, usuarioID, infra.VistaClientes, infra.VistaDashboard)
	return nil
}

func (s *financiamientoService) ListarPagos(ctx context.Context, usuarioID, clienteID uuid.UUID) ([]dto.PagoFinanciamientoResponse, error) {
	if _, err := s.clienteRepo.FindByID(ctx, usuarioID, clienteID); err != nil {
		return nil, notFound(err, ErrClienteNoEncontrado)
	}
	pagos, err := s.pagoRepo.ListByCliente(ctx, clienteID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PagoFinanciamientoResponse, 0, len(pagos))
	for i := range pagos {
		out = append(out, pagoFinToResponse(&pagos[i]))
	}
	return out, nil
}

func pagoFinToResponse(p *model.PagoFinanciamiento) dto.PagoFinanciamientoResponse {
	return dto.PagoFinanciamientoResponse{
		ID:         p.ID.String(),
		ClienteID:  p.ClienteID.String(),
		FacturaID:  uuidPtrString(p.FacturaID),
		Monto:      p.Monto,
		Fecha:      p.Fecha.Format(fechaLayout),
		Metodo:     p.Metodo,
		Referencia: p.Referencia,
		Notas:      p.Notas,
		CreatedAt:  p.CreatedAt.Format(timeLayout),
	}
}
