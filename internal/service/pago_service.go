package service

import (
	"context"

	"facturapp/internal/dto"
	"facturapp/internal/infra"
	"facturapp/internal/model"
	"facturapp/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ToleranciaPago absorbs rounding differences when deciding whether an
// invoice is fully paid.
var ToleranciaPago = decimal.NewFromFloat(0.1)

// Pagada reports whether totalPagado settles an invoice of the given total.
func Pagada(totalPagado, total decimal.Decimal) bool {
	return totalPagado.GreaterThanOrEqual(total.Sub(ToleranciaPago))
}

type PagoService interface {
	RegistrarPago(ctx context.Context, usuarioID, facturaID uuid.UUID, req dto.RegistrarPagoRequest) (*dto.PagoResponse, error)
	ListarPagos(ctx context.Context, usuarioID, facturaID uuid.UUID) (*dto.PagosFacturaResponse, error)
	EliminarPago(ctx context.Context, usuarioID, facturaID, pagoID uuid.UUID) error
}

type pagoService struct {
	facturaRepo    repository.FacturaRepository
	pagoRepo       repository.PagoRepository
	financiamiento FinanciamientoService
	refresher      Refresher
}

func NewPagoService(
	facturaRepo repository.FacturaRepository,
	pagoRepo repository.PagoRepository,
	financiamiento FinanciamientoService,
	refresher Refresher,
) PagoService {
	return &pagoService{
		facturaRepo:    facturaRepo,
		pagoRepo:       pagoRepo,
		financiamiento: financiamiento,
		refresher:      refresherOrNoop(refresher),
	}
}

// ── RegistrarPago ─────────────────────────────────────────────────────────────
// One transaction:
//   1. Persist the payment
//   2. If the customer carries financing, abonar min(monto, usado)
//   3. Mark the invoice paid once Σ pagos ≥ total − ToleranciaPago

func (s *pagoService) RegistrarPago(ctx context.Context, usuarioID, facturaID uuid.UUID, req dto.RegistrarPagoRequest) (*dto.PagoResponse, error) {
	if !req.Monto.IsPositive() {
		return nil, ErrMontoInvalido
	}
	fecha, err := parseFecha(req.Fecha)
	if err != nil {
		return nil, err
	}

	var pago model.Pago
	var estado model.EstadoFactura
	err = runTx(ctx, s.facturaRepo.DB(), func(tx *gorm.DB) error {
		f, err := s.facturaRepo.FindByIDTx(ctx, tx, usuarioID, facturaID)
		if err != nil {
			return notFound(err, ErrFacturaNoEncontrada)
		}
		if f.Estado == model.EstadoBorrador || f.Estado == model.EstadoCancelada {
			return ErrFacturaNoCobrable
		}

		pago = model.Pago{
			FacturaID:  f.ID,
			Monto:      req.Monto,
			Fecha:      fecha,
			Metodo:     req.Metodo,
			Referencia: req.Referencia,
			Notas:      req.Notas,
		}
		if err := s.pagoRepo.CreateTx(ctx, tx, &pago); err != nil {
			return err
		}

		if f.ClienteID != nil {
			if err := s.financiamiento.AbonarDesdePagoTx(ctx, tx, usuarioID, *f.ClienteID, f.ID, &pago); err != nil {
				return err
			}
		}

		pagado, err := s.pagoRepo.SumByFacturaTx(ctx, tx, f.ID)
		if err != nil {
			return err
		}
		estado = f.Estado
		if estado != model.EstadoPagada && Pagada(pagado, f.Total) {
			// sent/overdue → paid keeps the invoice debt-bearing, so no financing delta.
			if err := s.facturaRepo.UpdateEstadoTx(ctx, tx, f.ID, model.EstadoPagada); err != nil {
				return err
			}
			estado = model.EstadoPagada
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.refresher.Invalidar(ctx, usuarioID,
		infra.VistaFacturas, infra.VistaDashboard, infra.VistaReportes, infra.VistaClientes)

	resp := pagoToResponse(&pago)
	resp.EstadoFactura = string(estado)
	return &resp, nil
}

func (s *pagoService) ListarPagos(ctx context.Context, usuarioID, facturaID uuid.UUID) (*dto.PagosFacturaResponse, error) {
	f, err := s.facturaRepo.FindByID(ctx, usuarioID, facturaID)
	if err != nil {
		return nil, notFound(err, ErrFacturaNoEncontrada)
	}
	pagos, err := s.pagoRepo.ListByFactura(ctx, facturaID)
	if err != nil {
		return nil, err
	}
	resp := &dto.PagosFacturaResponse{
		Data:        make([]dto.PagoResponse, 0, len(pagos)),
		Total:       f.Total,
		TotalPagado: decimal.Zero,
	}
	for i := range pagos {
		resp.Data = append(resp.Data, pagoToResponse(&pagos[i]))
		resp.TotalPagado = resp.TotalPagado.Add(pagos[i].Monto)
	}
	resp.Saldo = decimal.Max(decimal.Zero, f.Total.Sub(resp.TotalPagado))
	return resp, nil
}

// EliminarPago deletes one payment. A paid invoice whose remaining payments
// no longer cover it goes back to sent. Financing abonos already recorded
// for the payment stay; they are managed from the customer.
func (s *pagoService) EliminarPago(ctx context.Context, usuarioID, facturaID, pagoID uuid.UUID) error {
	err := runTx(ctx, s.facturaRepo.DB(), func(tx *gorm.DB) error {
		f, err := s.facturaRepo.FindByIDTx(ctx, tx, usuarioID, facturaID)
		if err != nil {
			return notFound(err, ErrFacturaNoEncontrada)
		}
		p, err := s.pagoRepo.FindByID(ctx, usuarioID, pagoID)
		if err != nil {
			return notFound(err, ErrPagoNoEncontrado)
		}
		if p.FacturaID != f.ID {
			return ErrPagoNoEncontrado
		}
		if err := s.pagoRepo.DeleteTx(ctx, tx, p.ID); err != nil {
			return err
		}
		if f.Estado != model.EstadoPagada {
			return nil
		}
		pagado, err := s.pagoRepo.SumByFacturaTx(ctx, tx, f.ID)
		if err != nil {
			return err
		}
		if !Pagada(pagado, f.Total) {
			return s.facturaRepo.UpdateEstadoTx(ctx, tx, f.ID, model.EstadoEnviada)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.refresher.Invalidar(ctx, usuarioID, infra.VistaFacturas, infra.VistaDashboard, infra.VistaReportes)
	return nil
}

func pagoToResponse(p *model.Pago) dto.PagoResponse {
	return dto.PagoResponse{
		ID:         p.ID.String(),
		FacturaID:  p.FacturaID.String(),
		Monto:      p.Monto,
		Fecha:      p.Fecha.Format(fechaLayout),
		Metodo:     p.Metodo,
		Referencia: p.Referencia,
		Notas:      p.Notas,
		CreatedAt:  p.CreatedAt.Format(timeLayout),
	}
}
