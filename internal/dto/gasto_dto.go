package dto

import "github.com/shopspring/decimal"

type GastoRequest struct {
	Categoria   string          `json:"categoria"   validate:"required"`
	Descripcion string          `json:"descripcion" validate:"required,min=1,max=300"`
	Monto       decimal.Decimal `json:"monto"       validate:"gt=0"`
	Fecha       string          `json:"fecha"       validate:"required,datetime=2006-01-02"`
	MetodoPago  *string         `json:"metodo_pago" validate:"omitempty,oneof=efectivo transferencia tarjeta cheque otro"`
	ReciboURL   *string         `json:"recibo_url"  validate:"omitempty,url"`
	Notas       *string         `json:"notas"`
}

type GastoFilter struct {
	Categoria string `form:"categoria"`
	Desde     string `form:"desde" validate:"omitempty,datetime=2006-01-02"`
	Hasta     string `form:"hasta" validate:"omitempty,datetime=2006-01-02"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type GastoResponse struct {
	ID          string          `json:"id"`
	Categoria   string          `json:"categoria"`
	Descripcion string          `json:"descripcion"`
	Monto       decimal.Decimal `json:"monto"`
	Fecha       string          `json:"fecha"`
	MetodoPago  *string         `json:"metodo_pago"`
	ReciboURL   *string         `json:"recibo_url"`
	Notas       *string         `json:"notas"`
	CreatedAt   string          `json:"created_at"`
}

type GastoListResponse struct {
	Data  []GastoResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
