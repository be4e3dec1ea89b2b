package service

import (
	"github.com/shopspring/decimal"
)

// TasaITBIS is the Dominican VAT rate. Fixed by law, not configurable.
var TasaITBIS = decimal.NewFromFloat(0.18)

// Linea is one priced line for the calculator.
type Linea struct {
	Cantidad       decimal.Decimal
	PrecioUnitario decimal.Decimal
}

// Totales is the invoice breakdown.
type Totales struct {
	Subtotal      decimal.Decimal
	Descuento     decimal.Decimal
	BaseImponible decimal.Decimal
	ITBIS         decimal.Decimal
	Total         decimal.Decimal
}

// TotalLinea is quantity × unit price rounded to cents, the precision the
// line is stored with.
func TotalLinea(cantidad, precio decimal.Decimal) decimal.Decimal {
	return cantidad.Mul(precio).Round(2)
}

// CalcularTotales derives subtotal, taxable base, ITBIS and total.
// A discount larger than the subtotal floors the base at zero. The subtotal is
// the exact sum of the line totals; ITBIS is rounded to 2 decimals.
func CalcularTotales(lineas []Linea, descuento decimal.Decimal, aplicarITBIS bool) Totales {
	subtotal := decimal.Zero
	for _, l := range lineas {
		subtotal = subtotal.Add(TotalLinea(l.Cantidad, l.PrecioUnitario))
	}
	base := decimal.Max(decimal.Zero, subtotal.Sub(descuento))

	itbis := decimal.Zero
	if aplicarITBIS {
		itbis = base.Mul(TasaITBIS).Round(2)
	}
	return Totales{
		Subtotal:      subtotal,
		Descuento:     descuento,
		BaseImponible: base,
		ITBIS:         itbis,
		Total:         base.Add(itbis),
	}
}
