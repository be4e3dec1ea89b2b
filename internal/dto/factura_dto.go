package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemFacturaRequest struct {
	ProductoID     *string         `json:"producto_id"     validate:"omitempty,uuid"`
	Descripcion    string          `json:"descripcion"     validate:"required,min=1,max=300"`
	Cantidad       decimal.Decimal `json:"cantidad"        validate:"gt=0"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"min=0"`
}

// FacturaRequest is used for both create and full update.
// AplicarITBIS defaults to true when omitted.
type FacturaRequest struct {
	ClienteID        *string              `json:"cliente_id"        validate:"omitempty,uuid"`
	NombreCliente    string               `json:"nombre_cliente"    validate:"max=150"`
	FechaEmision     string               `json:"fecha_emision"     validate:"required,datetime=2006-01-02"`
	FechaVencimiento *string              `json:"fecha_vencimiento" validate:"omitempty,datetime=2006-01-02"`
	Estado           string               `json:"estado"            validate:"omitempty,oneof=draft sent paid overdue cancelled"`
	AplicarITBIS     *bool                `json:"aplicar_itbis"`
	Descuento        decimal.Decimal      `json:"descuento"         validate:"min=0"`
	Notas            *string              `json:"notas"`
	Items            []ItemFacturaRequest `json:"items"             validate:"dive"`
}

type ActualizarEstadoRequest struct {
	Estado string `json:"estado" validate:"required,oneof=draft sent paid overdue cancelled"`
}

type EnviarFacturaRequest struct {
	// Email overrides the customer's email when present.
	Email *string `json:"email" validate:"omitempty,email"`
}

type FacturaFilter struct {
	Estado    string `form:"estado"     validate:"omitempty,oneof=draft sent paid overdue cancelled"`
	ClienteID string `form:"cliente_id" validate:"omitempty,uuid"`
	Buscar    string `form:"buscar"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemFacturaResponse struct {
	ID             string          `json:"id"`
	ProductoID     *string         `json:"producto_id"`
	Descripcion    string          `json:"descripcion"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Total          decimal.Decimal `json:"total"`
}

type FacturaResponse struct {
	ID               string                `json:"id"`
	Numero           string                `json:"numero"`
	ClienteID        *string               `json:"cliente_id"`
	NombreCliente    string                `json:"nombre_cliente"`
	FechaEmision     string                `json:"fecha_emision"`
	FechaVencimiento *string               `json:"fecha_vencimiento"`
	Estado           string                `json:"estado"`
	AplicarITBIS     bool                  `json:"aplicar_itbis"`
	Subtotal         decimal.Decimal       `json:"subtotal"`
	Descuento        decimal.Decimal       `json:"descuento"`
	ITBIS            decimal.Decimal       `json:"itbis"`
	Total            decimal.Decimal       `json:"total"`
	TotalPagado      *decimal.Decimal      `json:"total_pagado,omitempty"` // only on single reads
	Saldo            *decimal.Decimal      `json:"saldo,omitempty"`
	Notas            *string               `json:"notas"`
	Items            []ItemFacturaResponse `json:"items"`
	CreatedAt        string                `json:"created_at"`
}

type FacturaListResponse struct {
	Data  []FacturaResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
