package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"facturapp/internal/dto"
	"facturapp/internal/infra"
	"facturapp/internal/model"
	"facturapp/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FacturaService manages the invoice lifecycle. Every write runs in a single
// transaction that also reconciles stock and customer financing:
//
//	stock:          each linked item moves stock by −cantidad while the invoice exists
//	financiamiento: the customer owes +total while the invoice is not a draft
//
// Update and delete reverse the stored effects before applying new ones, so
// create→delete and update-without-changes are both net zero.
type FacturaService interface {
	Crear(ctx context.Context, usuarioID uuid.UUID, req dto.FacturaRequest) (*dto.FacturaResponse, error)
	Actualizar(ctx context.Context, usuarioID, id uuid.UUID, req dto.FacturaRequest) (*dto.FacturaResponse, error)
	Eliminar(ctx context.Context, usuarioID, id uuid.UUID) error
	ActualizarEstado(ctx context.Context, usuarioID, id uuid.UUID, estado model.EstadoFactura) (*dto.FacturaResponse, error)
	Obtener(ctx context.Context, usuarioID, id uuid.UUID) (*dto.FacturaResponse, error)
	Listar(ctx context.Context, usuarioID uuid.UUID, filter dto.FacturaFilter) (*dto.FacturaListResponse, error)
	// MarcarVencidas moves every sent invoice due before hoy to overdue.
	MarcarVencidas(ctx context.Context, hoy time.Time) (int, error)
}

type facturaService struct {
	repo           repository.FacturaRepository
	pagoRepo       repository.PagoRepository
	clienteRepo    repository.ClienteRepository
	inventario     InventarioService
	financiamiento FinanciamientoService
	refresher      Refresher
}

func NewFacturaService(
	repo repository.FacturaRepository,
	pagoRepo repository.PagoRepository,
	clienteRepo repository.ClienteRepository,
	inventario InventarioService,
	financiamiento FinanciamientoService,
	refresher Refresher,
) FacturaService {
	return &facturaService{
		repo:           repo,
		pagoRepo:       pagoRepo,
		clienteRepo:    clienteRepo,
		inventario:     inventario,
		financiamiento: financiamiento,
		refresher:      refresherOrNoop(refresher),
	}
}

var vistasFactura = []string{
	infra.VistaDashboard, infra.VistaFacturas, infra.VistaReportes, infra.VistaProductos, infra.VistaClientes,
}

// ── Crear ─────────────────────────────────────────────────────────────────────
//   1. Validate and compute totals (outside TX)
//   2. BEGIN TX: next number, insert header+items, apply stock and financing
//   3. COMMIT, then signal the views

func (s *facturaService) Crear(ctx context.Context, usuarioID uuid.UUID, req dto.FacturaRequest) (*dto.FacturaResponse, error) {
	f, err := s.construir(ctx, usuarioID, req)
	if err != nil {
		return nil, err
	}
	f.ID = uuid.New()
	f.UsuarioID = usuarioID

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		n, err := s.repo.NextNumeroTx(ctx, tx, usuarioID)
		if err != nil {
			return fmt.Errorf("asignando número de factura: %w", err)
		}
		f.Numero = model.FormatearNumero(n)
		for i := range f.Items {
			f.Items[i].FacturaID = f.ID
		}
		if err := s.repo.CreateTx(ctx, tx, f); err != nil {
			return err
		}
		return s.efectos(ctx, tx, f, aplicar)
	})
	if err != nil {
		return nil, err
	}

	s.refresher.Invalidar(ctx, usuarioID, vistasFactura...)
	log.Info().Str("factura", f.Numero).Str("usuario_id", usuarioID.String()).
		Str("total", f.Total.String()).Msg("factura creada")
	return facturaToResponse(f, nil), nil
}

// ── Actualizar ────────────────────────────────────────────────────────────────
// Reverse the stored effects, rewrite header and items, apply the new effects.

func (s *facturaService) Actualizar(ctx context.Context, usuarioID, id uuid.UUID, req dto.FacturaRequest) (*dto.FacturaResponse, error) {
	nueva, err := s.construir(ctx, usuarioID, req)
	if err != nil {
		return nil, err
	}

	var actualizada model.Factura
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		prev, err := s.repo.FindByIDTx(ctx, tx, usuarioID, id)
		if err != nil {
			return notFound(err, ErrFacturaNoEncontrada)
		}
		if err := s.efectos(ctx, tx, prev, revertir); err != nil {
			return err
		}

		actualizada = *prev
		actualizada.ClienteID = nueva.ClienteID
		actualizada.NombreCliente = nueva.NombreCliente
		actualizada.FechaEmision = nueva.FechaEmision
		actualizada.FechaVencimiento = nueva.FechaVencimiento
		actualizada.Estado = nueva.Estado
		actualizada.AplicarITBIS = nueva.AplicarITBIS
		actualizada.Subtotal = nueva.Subtotal
		actualizada.Descuento = nueva.Descuento
		actualizada.ITBIS = nueva.ITBIS
		actualizada.Total = nueva.Total
		actualizada.Notas = nueva.Notas
		actualizada.Items = nueva.Items

		if err := s.repo.UpdateTx(ctx, tx, &actualizada); err != nil {
			return err
		}
		if err := s.repo.ReplaceItemsTx(ctx, tx, actualizada.ID, actualizada.Items); err != nil {
			return err
		}
		return s.efectos(ctx, tx, &actualizada, aplicar)
	})
	if err != nil {
		return nil, err
	}

	s.refresher.Invalidar(ctx, usuarioID, vistasFactura...)
	return facturaToResponse(&actualizada, nil), nil
}

// ── Eliminar ──────────────────────────────────────────────────────────────────

func (s *facturaService) Eliminar(ctx context.Context, usuarioID, id uuid.UUID) error {
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		f, err := s.repo.FindByIDTx(ctx, tx, usuarioID, id)
		if err != nil {
			return notFound(err, ErrFacturaNoEncontrada)
		}
		if err := s.efectos(ctx, tx, f, revertir); err != nil {
			return err
		}
		if err := s.pagoRepo.DeleteByFacturaTx(ctx, tx, f.ID); err != nil {
			return err
		}
		return s.repo.DeleteTx(ctx, tx, f.ID)
	})
	if err != nil {
		return err
	}
	s.refresher.Invalidar(ctx, usuarioID, vistasFactura...)
	return nil
}

// ── ActualizarEstado ──────────────────────────────────────────────────────────
// Stock does not depend on status, so only financing is reconciled: crossing
// the draft boundary moves the invoice's unpaid contribution.

func (s *facturaService) ActualizarEstado(ctx context.Context, usuarioID, id uuid.UUID, estado model.EstadoFactura) (*dto.FacturaResponse, error) {
	if !estado.Valido() {
		return nil, ErrEstadoInvalido
	}

	var f *model.Factura
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		f, err = s.repo.FindByIDTx(ctx, tx, usuarioID, id)
		if err != nil {
			return notFound(err, ErrFacturaNoEncontrada)
		}
		if f.Estado == estado {
			return nil
		}

		antes, despues := f.Estado.GeneraDeuda(), estado.GeneraDeuda()
		if f.ClienteID != nil && antes != despues {
			delta, err := s.financiamiento.AporteFacturaTx(ctx, tx, *f.ClienteID, f.ID, f.Total)
			if err != nil {
				return err
			}
			if antes {
				delta = delta.Neg()
			}
			if err := s.financiamiento.AjustarFinanciamientoTx(ctx, tx, usuarioID, *f.ClienteID, delta); err != nil {
				return err
			}
		}
		if err := s.repo.UpdateEstadoTx(ctx, tx, f.ID, estado); err != nil {
			return err
		}
		f.Estado = estado
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.refresher.Invalidar(ctx, usuarioID, infra.VistaDashboard, infra.VistaFacturas, infra.VistaReportes, infra.VistaClientes)
	return facturaToResponse(f, nil), nil
}

func (s *facturaService) Obtener(ctx context.Context, usuarioID, id uuid.UUID) (*dto.FacturaResponse, error) {
	f, err := s.repo.FindByID(ctx, usuarioID, id)
	if err != nil {
		return nil, notFound(err, ErrFacturaNoEncontrada)
	}
	pagado, err := s.pagoRepo.SumByFacturaTx(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	return facturaToResponse(f, &pagado), nil
}

func (s *facturaService) Listar(ctx context.Context, usuarioID uuid.UUID, filter dto.FacturaFilter) (*dto.FacturaListResponse, error) {
	facturas, total, err := s.repo.List(ctx, usuarioID, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.FacturaListResponse{
		Data:  make([]dto.FacturaResponse, 0, len(facturas)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range facturas {
		resp.Data = append(resp.Data, *facturaToResponse(&facturas[i], nil))
	}
	return resp, nil
}

func (s *facturaService) MarcarVencidas(ctx context.Context, hoy time.Time) (int, error) {
	facturas, err := s.repo.ListVencibles(ctx, hoy)
	if err != nil {
		return 0, err
	}
	var errs []error
	marcadas := 0
	for _, f := range facturas {
		if _, err := s.ActualizarEstado(ctx, f.UsuarioID, f.ID, model.EstadoVencida); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", f.Numero, err))
			continue
		}
		marcadas++
	}
	return marcadas, errors.Join(errs...)
}

// ── Helpers ───────────────────────────────────────────────────────────────────

type sentidoEfecto int

const (
	aplicar  sentidoEfecto = 1
	revertir sentidoEfecto = -1
)

// efectos applies (or reverses) the stock and financing footprint of f. The
// financing part is the invoice's unpaid contribution, so abonos from earlier
// payments are neither reversed twice nor charged again.
func (s *facturaService) efectos(ctx context.Context, tx *gorm.DB, f *model.Factura, sentido sentidoEfecto) error {
	tipo, motivo := model.MovimientoFactura, "Factura "+f.Numero
	if sentido == revertir {
		tipo, motivo = model.MovimientoReversoFactura, "Reverso factura "+f.Numero
	}
	facturaID := f.ID
	for _, it := range f.Items {
		if it.ProductoID == nil {
			continue
		}
		delta := -int(sentido) * cantidadStock(it.Cantidad)
		if err := s.inventario.AjustarStockTx(ctx, tx, f.UsuarioID, *it.ProductoID, delta, tipo, motivo, &facturaID); err != nil {
			return err
		}
	}

	if f.ClienteID != nil && f.Estado.GeneraDeuda() {
		aporte, err := s.financiamiento.AporteFacturaTx(ctx, tx, *f.ClienteID, f.ID, f.Total)
		if err != nil {
			return err
		}
		delta := aporte.Mul(decimal.NewFromInt(int64(sentido)))
		if err := s.financiamiento.AjustarFinanciamientoTx(ctx, tx, f.UsuarioID, *f.ClienteID, delta); err != nil {
			return err
		}
	}
	return nil
}

// construir validates req and returns an unsaved invoice with computed totals.
func (s *facturaService) construir(ctx context.Context, usuarioID uuid.UUID, req dto.FacturaRequest) (*model.Factura, error) {
	clienteID, err := parseUUIDOpt(req.ClienteID)
	if err != nil {
		return nil, fmt.Errorf("%w: cliente_id %q", ErrSolicitudInvalida, *req.ClienteID)
	}
	nombre := strings.TrimSpace(req.NombreCliente)
	if clienteID != nil {
		c, err := s.clienteRepo.FindByID(ctx, usuarioID, *clienteID)
		if err != nil {
			return nil, notFound(err, ErrClienteNoEncontrado)
		}
		if nombre == "" {
			nombre = c.Nombre
		}
	}
	if nombre == "" || len(req.Items) == 0 {
		return nil, ErrFacturaInvalida
	}

	emision, err := parseFecha(req.FechaEmision)
	if err != nil {
		return nil, err
	}
	vencimiento, err := parseFechaOpt(req.FechaVencimiento)
	if err != nil {
		return nil, err
	}

	estado := model.EstadoBorrador
	if req.Estado != "" {
		estado = model.EstadoFactura(req.Estado)
		if !estado.Valido() {
			return nil, ErrEstadoInvalido
		}
	}
	aplicarITBIS := true
	if req.AplicarITBIS != nil {
		aplicarITBIS = *req.AplicarITBIS
	}

	items := make([]model.FacturaItem, 0, len(req.Items))
	lineas := make([]Linea, 0, len(req.Items))
	for _, it := range req.Items {
		if !it.Cantidad.IsPositive() || it.PrecioUnitario.IsNegative() || strings.TrimSpace(it.Descripcion) == "" {
			return nil, fmt.Errorf("%w: item %q requiere cantidad > 0, precio ≥ 0 y descripción", ErrSolicitudInvalida, it.Descripcion)
		}
		productoID, err := parseUUIDOpt(it.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("%w: producto_id %q", ErrSolicitudInvalida, *it.ProductoID)
		}
		items = append(items, model.FacturaItem{
			ProductoID:     productoID,
			Descripcion:    strings.TrimSpace(it.Descripcion),
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
			Total:          TotalLinea(it.Cantidad, it.PrecioUnitario),
		})
		lineas = append(lineas, Linea{Cantidad: it.Cantidad, PrecioUnitario: it.PrecioUnitario})
	}

	t := CalcularTotales(lineas, req.Descuento, aplicarITBIS)
	return &model.Factura{
		ClienteID:        clienteID,
		NombreCliente:    nombre,
		FechaEmision:     emision,
		FechaVencimiento: vencimiento,
		Estado:           estado,
		AplicarITBIS:     aplicarITBIS,
		Subtotal:         t.Subtotal,
		Descuento:        t.Descuento,
		ITBIS:            t.ITBIS,
		Total:            t.Total,
		Notas:            req.Notas,
		Items:            items,
	}, nil
}

func facturaToResponse(f *model.Factura, pagado *decimal.Decimal) *dto.FacturaResponse {
	resp := &dto.FacturaResponse{
		ID:               f.ID.String(),
		Numero:           f.Numero,
		ClienteID:        uuidPtrString(f.ClienteID),
		NombreCliente:    f.NombreCliente,
		FechaEmision:     f.FechaEmision.Format(fechaLayout),
		FechaVencimiento: fechaPtrString(f.FechaVencimiento),
		Estado:           string(f.Estado),
		AplicarITBIS:     f.AplicarITBIS,
		Subtotal:         f.Subtotal,
		Descuento:        f.Descuento,
		ITBIS:            f.ITBIS,
		Total:            f.Total,
		Notas:            f.Notas,
		Items:            make([]dto.ItemFacturaResponse, 0, len(f.Items)),
		CreatedAt:        f.CreatedAt.Format(timeLayout),
	}
	if pagado != nil {
		saldo := decimal.Max(decimal.Zero, f.Total.Sub(*pagado))
		resp.TotalPagado = pagado
		resp.Saldo = &saldo
	}
	for _, it := range f.Items {
		resp.Items = append(resp.Items, dto.ItemFacturaResponse{
			ID:             it.ID.String(),
			ProductoID:     uuidPtrString(it.ProductoID),
			Descripcion:    it.Descripcion,
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
			Total:          it.Total,
		})
	}
	return resp
}
