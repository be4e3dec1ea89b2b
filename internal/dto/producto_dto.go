package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ProductoRequest struct {
	Nombre              string           `json:"nombre"      validate:"required,min=1,max=150"`
	Descripcion         *string          `json:"descripcion"`
	SKU                 *string          `json:"sku"         validate:"omitempty,max=64"`
	Categoria           *string          `json:"categoria"   validate:"omitempty,max=100"`
	Precio              decimal.Decimal  `json:"precio"      validate:"min=0"`
	Costo               *decimal.Decimal `json:"costo"`
	ControlarInventario bool             `json:"controlar_inventario"`
	// StockActual is only honored on create; later changes go through AjustarStock.
	StockActual int `json:"stock_actual"`
	StockMinimo int `json:"stock_minimo" validate:"min=0"`
}

type ProductoFilter struct {
	Buscar    string `form:"buscar"`
	Categoria string `form:"categoria"`
	BajoStock bool   `form:"bajo_stock"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID                  string           `json:"id"`
	Nombre              string           `json:"nombre"`
	Descripcion         *string          `json:"descripcion"`
	SKU                 *string          `json:"sku"`
	Categoria           *string          `json:"categoria"`
	Precio              decimal.Decimal  `json:"precio"`
	Costo               *decimal.Decimal `json:"costo"`
	ControlarInventario bool             `json:"controlar_inventario"`
	StockActual         int              `json:"stock_actual"`
	StockMinimo         int              `json:"stock_minimo"`
	BajoStock           bool             `json:"bajo_stock"`
}

type ProductoListResponse struct {
	Data       []ProductoResponse `json:"data"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}
