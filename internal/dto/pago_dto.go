package dto

import "github.com/shopspring/decimal"

type RegistrarPagoRequest struct {
	Monto      decimal.Decimal `json:"monto"      validate:"gt=0"`
	Fecha      string          `json:"fecha"      validate:"required,datetime=2006-01-02"`
	Metodo     string          `json:"metodo"     validate:"required,oneof=efectivo transferencia tarjeta cheque otro"`
	Referencia *string         `json:"referencia"`
	Notas      *string         `json:"notas"`
}

type PagoResponse struct {
	ID         string          `json:"id"`
	FacturaID  string          `json:"factura_id"`
	Monto      decimal.Decimal `json:"monto"`
	Fecha      string          `json:"fecha"`
	Metodo     string          `json:"metodo"`
	Referencia *string         `json:"referencia"`
	Notas      *string         `json:"notas"`
	CreatedAt  string          `json:"created_at"`
	// EstadoFactura is the invoice status after the payment was applied.
	EstadoFactura string `json:"estado_factura,omitempty"`
}

type PagosFacturaResponse struct {
	Data        []PagoResponse  `json:"data"`
	Total       decimal.Decimal `json:"total_factura"`
	TotalPagado decimal.Decimal `json:"total_pagado"`
	Saldo       decimal.Decimal `json:"saldo"`
}
