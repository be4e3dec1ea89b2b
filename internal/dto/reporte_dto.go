package dto

import "github.com/shopspring/decimal"

type ResumenFilter struct {
	Desde string `form:"desde" validate:"omitempty,datetime=2006-01-02"`
	Hasta string `form:"hasta" validate:"omitempty,datetime=2006-01-02"`
}

type MensualFilter struct {
	Meses int `form:"meses,default=6" validate:"min=1,max=36"`
}

type ResumenFinancieroResponse struct {
	Ingresos          decimal.Decimal `json:"ingresos"`
	Gastos            decimal.Decimal `json:"gastos"`
	Ganancia          decimal.Decimal `json:"ganancia"`
	FacturasPagadas   int             `json:"facturas_pagadas"`
	MontoPagado       decimal.Decimal `json:"monto_pagado"`
	FacturasPendiente int             `json:"facturas_pendientes"`
	MontoPendiente    decimal.Decimal `json:"monto_pendiente"`
}

type DatosMensualesResponse struct {
	Mes      string          `json:"mes"`      // YYYY-MM
	Etiqueta string          `json:"etiqueta"` // "ene 2025"
	Ingresos decimal.Decimal `json:"ingresos"`
	Gastos   decimal.Decimal `json:"gastos"`
	Ganancia decimal.Decimal `json:"ganancia"`
}

type GastoCategoriaResponse struct {
	Categoria  string          `json:"categoria"`
	Monto      decimal.Decimal `json:"monto"`
	Porcentaje decimal.Decimal `json:"porcentaje"`
}

type DashboardResponse struct {
	TotalClientes           int64                     `json:"total_clientes"`
	TotalProductos          int64                     `json:"total_productos"`
	TotalFacturas           int64                     `json:"total_facturas"`
	ProductosBajoStock      int64                     `json:"productos_bajo_stock"`
	FinanciamientoPendiente decimal.Decimal           `json:"financiamiento_pendiente"`
	Resumen                 ResumenFinancieroResponse `json:"resumen"`
}
