package infra

import (
	"bytes"
	"os"
	"testing"
	"time"

	"facturapp/internal/dto"
	"facturapp/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func facturaDemo() (*model.Usuario, *model.Factura) {
	tel, rnc := "809-555-0100", "131-00000-1"
	negocio := &model.Usuario{ID: uuid.New(), Email: "dueno@colmado.do", NombreNegocio: "Colmado La Esquina", Telefono: &tel}
	vence := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)
	f := &model.Factura{
		ID:               uuid.New(),
		Numero:           "INV-0042",
		NombreCliente:    "Ferretería Ochoa",
		FechaEmision:     time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		FechaVencimiento: &vence,
		Estado:           model.EstadoEnviada,
		AplicarITBIS:     true,
		Subtotal:         decimal.NewFromInt(2000),
		Descuento:        decimal.Zero,
		ITBIS:            decimal.NewFromInt(360),
		Total:            decimal.NewFromInt(2360),
		Cliente:          &model.Cliente{Nombre: "Ferretería Ochoa", RNC: &rnc},
		Items: []model.FacturaItem{
			{Descripcion: "Cemento gris 42.5kg", Cantidad: decimal.NewFromInt(4), PrecioUnitario: decimal.NewFromInt(500), Total: decimal.NewFromInt(2000)},
		},
	}
	return negocio, f
}

func TestRenderFacturaPDF(t *testing.T) {
	negocio, f := facturaDemo()
	var buf bytes.Buffer
	require.NoError(t, RenderFacturaPDF(&buf, negocio, f, decimal.NewFromInt(1000)))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestRenderReciboPDF(t *testing.T) {
	negocio, f := facturaDemo()
	p := &model.Pago{ID: uuid.New(), FacturaID: f.ID, Monto: decimal.NewFromInt(1000), Fecha: f.FechaEmision, Metodo: "efectivo"}
	var buf bytes.Buffer
	require.NoError(t, RenderReciboPDF(&buf, negocio, f, p, decimal.NewFromInt(1360)))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestGuardarFacturaPDF(t *testing.T) {
	negocio, f := facturaDemo()
	path, err := GuardarFacturaPDF(t.TempDir(), negocio, f, decimal.Zero)
	require.NoError(t, err)
	assert.Contains(t, path, "INV-0042_")
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestFormatearMonto(t *testing.T) {
	cases := map[string]string{
		"0":          "RD$ 0.00",
		"999.5":      "RD$ 999.50",
		"1234.56":    "RD$ 1,234.56",
		"2360":       "RD$ 2,360.00",
		"1000000.1":  "RD$ 1,000,000.10",
		"-45.678":    "-RD$ 45.68",
		"123456.005": "RD$ 123,456.01",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatearMonto(decimal.RequireFromString(in)), in)
	}
}

func TestExportarReportesXLSX(t *testing.T) {
	var buf bytes.Buffer
	err := ExportarReportesXLSX(&buf, ReportesXLSX{
		Resumen: dto.ResumenFinancieroResponse{Ingresos: decimal.NewFromInt(1500), Gastos: decimal.NewFromInt(500), Ganancia: decimal.NewFromInt(1000)},
		Mensual: []dto.DatosMensualesResponse{
			{Mes: "2025-03", Etiqueta: "mar 2025", Ingresos: decimal.NewFromInt(1500), Gastos: decimal.NewFromInt(500), Ganancia: decimal.NewFromInt(1000)},
		},
		Categorias: []dto.GastoCategoriaResponse{
			{Categoria: "Alquiler", Monto: decimal.NewFromInt(500), Porcentaje: decimal.NewFromInt(100)},
		},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Resumen", "Mensual", "Gastos por categoría"}, f.GetSheetList())
}
