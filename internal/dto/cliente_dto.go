package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ClienteRequest is used for both create and full update.
// FinanciamientoUsado is not accepted here: it only moves through invoices
// and financing payments.
type ClienteRequest struct {
	Nombre    string  `json:"nombre"    validate:"required,min=1,max=150"`
	Email     *string `json:"email"     validate:"omitempty,email"`
	Telefono  *string `json:"telefono"`
	RNC       *string `json:"rnc"       validate:"omitempty,max=20"`
	Direccion *string `json:"direccion"`
	Notas     *string `json:"notas"`

	FinanciamientoDisponible bool            `json:"financiamiento_disponible"`
	LimiteFinanciamiento     decimal.Decimal `json:"limite_financiamiento" validate:"min=0"`
	TasaInteres              decimal.Decimal `json:"tasa_interes"          validate:"min=0,max=100"`
}

type ClienteFilter struct {
	Buscar string `form:"buscar"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type PagoFinanciamientoRequest struct {
	Monto      decimal.Decimal `json:"monto"      validate:"gt=0"`
	Fecha      string          `json:"fecha"      validate:"required,datetime=2006-01-02"`
	Metodo     string          `json:"metodo"     validate:"required,oneof=efectivo transferencia tarjeta cheque otro"`
	Referencia *string         `json:"referencia"`
	Notas      *string         `json:"notas"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ClienteResponse struct {
	ID        string  `json:"id"`
	Nombre    string  `json:"nombre"`
	Email     *string `json:"email"`
	Telefono  *string `json:"telefono"`
	RNC       *string `json:"rnc"`
	Direccion *string `json:"direccion"`
	Notas     *string `json:"notas"`

	FinanciamientoDisponible bool            `json:"financiamiento_disponible"`
	LimiteFinanciamiento     decimal.Decimal `json:"limite_financiamiento"`
	FinanciamientoUsado      decimal.Decimal `json:"financiamiento_usado"`
	FinanciamientoRestante   decimal.Decimal `json:"financiamiento_restante"`
	TasaInteres              decimal.Decimal `json:"tasa_interes"`
	CreatedAt                string          `json:"created_at"`
}

type ClienteListResponse struct {
	Data  []ClienteResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

type PagoFinanciamientoResponse struct {
	ID         string          `json:"id"`
	ClienteID  string          `json:"cliente_id"`
	FacturaID  *string         `json:"factura_id"`
	Monto      decimal.Decimal `json:"monto"`
	Fecha      string          `json:"fecha"`
	Metodo     string          `json:"metodo"`
	Referencia *string         `json:"referencia"`
	Notas      *string         `json:"notas"`
	CreatedAt  string          `json:"created_at"`
}
