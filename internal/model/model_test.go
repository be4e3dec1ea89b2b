package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatearNumero(t *testing.T) {
	assert.Equal(t, "INV-0001", FormatearNumero(1))
	assert.Equal(t, "INV-0420", FormatearNumero(420))
	assert.Equal(t, "INV-12345", FormatearNumero(12345))
}

func TestEstadoFactura(t *testing.T) {
	for _, e := range EstadosFactura {
		assert.True(t, e.Valido(), e)
	}
	assert.False(t, EstadoFactura("pagada").Valido())
	assert.False(t, EstadoFactura("").Valido())

	assert.False(t, EstadoBorrador.GeneraDeuda())
	for _, e := range []EstadoFactura{EstadoEnviada, EstadoPagada, EstadoVencida, EstadoCancelada} {
		assert.True(t, e.GeneraDeuda(), e)
	}
}

func TestProducto_BajoStock(t *testing.T) {
	p := Producto{ControlarInventario: true, StockActual: 5, StockMinimo: 5}
	assert.True(t, p.BajoStock())
	p.StockActual = 6
	assert.False(t, p.BajoStock())
	p = Producto{ControlarInventario: false, StockActual: -3, StockMinimo: 5}
	assert.False(t, p.BajoStock(), "sin control nunca está bajo stock")
}

func TestCliente_FinanciamientoRestante(t *testing.T) {
	c := Cliente{FinanciamientoDisponible: true, LimiteFinanciamiento: decimal.NewFromInt(5000), FinanciamientoUsado: decimal.NewFromInt(1250)}
	assert.True(t, c.FinanciamientoRestante().Equal(decimal.NewFromInt(3750)))

	c.FinanciamientoDisponible = false
	assert.True(t, c.FinanciamientoRestante().IsZero())
}

func TestEsCategoriaGasto(t *testing.T) {
	assert.True(t, EsCategoriaGasto("Alquiler"))
	assert.True(t, EsCategoriaGasto("Servicios Públicos"))
	assert.False(t, EsCategoriaGasto("alquiler"))
	assert.False(t, EsCategoriaGasto(""))
}
