package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── Errores de dominio ────────────────────────────────────────────────────────
// Handlers map these with errors.Is; messages are shown to the user as-is.

var (
	ErrFacturaInvalida      = errors.New("Cliente y al menos un item son requeridos")
	ErrFacturaNoEncontrada  = errors.New("factura no encontrada")
	ErrEstadoInvalido       = errors.New("estado de factura inválido")
	ErrFacturaNoCobrable    = errors.New("no se pueden registrar pagos en facturas en borrador o canceladas")
	ErrPagoNoEncontrado     = errors.New("pago no encontrado")
	ErrMontoInvalido        = errors.New("el monto debe ser mayor que cero")
	ErrClienteNoEncontrado  = errors.New("cliente no encontrado")
	ErrClienteInvalido      = errors.New("el nombre del cliente es requerido")
	ErrLimiteFinanciamiento = errors.New("el monto excede el límite de financiamiento disponible del cliente")
	ErrLimiteMenorQueUsado  = errors.New("el límite de financiamiento no puede ser menor que el monto usado")
	ErrSinFinanciamiento    = errors.New("el cliente no tiene financiamiento habilitado")
	ErrPagoFinInvalido      = errors.New("Cliente y monto válido son requeridos")
	ErrProductoNoEncontrado = errors.New("producto no encontrado")
	ErrGastoNoEncontrado    = errors.New("gasto no encontrado")
	ErrGastoInvalido        = errors.New("Categoría, descripción, monto y fecha son requeridos")
	ErrFechaInvalida        = errors.New("fecha inválida, use el formato AAAA-MM-DD")
	ErrSinEmail             = errors.New("la factura no tiene un correo de destino")
	ErrCredenciales         = errors.New("credenciales invalidas")
	ErrEmailRegistrado      = errors.New("ya existe una cuenta con ese correo")
	ErrTokenInvalido        = errors.New("refresh token invalido o expirado")
	ErrProductoInvalido     = errors.New("nombre y precio válido son requeridos")
	ErrSinControlInventario = errors.New("el producto no controla inventario")
	// ErrSolicitudInvalida prefixes input errors that carry their own detail.
	ErrSolicitudInvalida = errors.New("solicitud inválida")
)

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// notFound converts gorm.ErrRecordNotFound into the domain error target.
func notFound(err, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}

// Refresher is satisfied by *infra.Refresher.
type Refresher interface {
	Invalidar(ctx context.Context, usuarioID uuid.UUID, vistas ...string)
}

type noopRefresher struct{}

func (noopRefresher) Invalidar(context.Context, uuid.UUID, ...string) {}

func refresherOrNoop(r Refresher) Refresher {
	if r == nil {
		return noopRefresher{}
	}
	return r
}

const (
	fechaLayout = "2006-01-02"
	timeLayout  = time.RFC3339
)

func parseFecha(s string) (time.Time, error) {
	t, err := time.Parse(fechaLayout, s)
	if err != nil {
		return time.Time{}, ErrFechaInvalida
	}
	return t, nil
}

func parseFechaOpt(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := parseFecha(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseUUIDOpt(s *string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func uuidPtrString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func fechaPtrString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(fechaLayout)
	return &s
}
