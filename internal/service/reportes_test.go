package service_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"facturapp/internal/dto"
	"facturapp/internal/model"
	"facturapp/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func fecha(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func fac(estado model.EstadoFactura, emision, total string) model.Factura {
	return model.Factura{ID: uuid.New(), Estado: estado, FechaEmision: fecha(emision), Total: d(total)}
}

func gasto(cat, f, monto string) model.Gasto {
	return model.Gasto{ID: uuid.New(), Categoria: cat, Fecha: fecha(f), Monto: d(monto)}
}

func datosReporte() ([]model.Factura, []model.Gasto) {
	facturas := []model.Factura{
		fac(model.EstadoPagada, "2025-01-15", "1180"),
		fac(model.EstadoPagada, "2025-03-02", "500"),
		fac(model.EstadoEnviada, "2025-03-05", "300"),
		fac(model.EstadoVencida, "2025-02-20", "200"),
		fac(model.EstadoBorrador, "2025-03-06", "9999"),
		fac(model.EstadoCancelada, "2025-03-07", "7777"),
	}
	gastos := []model.Gasto{
		gasto("Alquiler", "2025-03-01", "600"),
		gasto("Marketing", "2025-01-20", "150"),
		gasto("Alquiler", "2025-02-01", "600"),
	}
	return facturas, gastos
}

func TestResumirFinanzas(t *testing.T) {
	facturas, gastos := datosReporte()

	r := service.ResumirFinanzas(facturas, gastos, nil, nil)
	assert.True(t, r.Ingresos.Equal(d("1680")))
	assert.True(t, r.MontoPagado.Equal(d("1680")))
	assert.Equal(t, 2, r.FacturasPagadas)
	assert.Equal(t, 2, r.FacturasPendiente)
	assert.True(t, r.MontoPendiente.Equal(d("500")))
	assert.True(t, r.Gastos.Equal(d("1350")))
	assert.True(t, r.Ganancia.Equal(d("330")))
}

func TestResumirFinanzas_Rango(t *testing.T) {
	facturas, gastos := datosReporte()
	desde, hasta := fecha("2025-03-01"), fecha("2025-03-31")

	r := service.ResumirFinanzas(facturas, gastos, &desde, &hasta)
	assert.True(t, r.Ingresos.Equal(d("500")))
	assert.Equal(t, 1, r.FacturasPendiente)
	assert.True(t, r.Gastos.Equal(d("600")), "los bordes del rango son inclusivos")
	assert.True(t, r.Ganancia.Equal(d("-100")))

	// A single bound is ignored.
	solo := service.ResumirFinanzas(facturas, gastos, &desde, nil)
	assert.True(t, solo.Ingresos.Equal(d("1680")))
}

func TestAgruparMensual(t *testing.T) {
	facturas, gastos := datosReporte()

	meses := service.AgruparMensual(facturas, gastos, 3, fecha("2025-03-18"))
	require.Len(t, meses, 3)
	assert.Equal(t, "2025-01", meses[0].Mes)
	assert.Equal(t, "ene 2025", meses[0].Etiqueta)
	assert.Equal(t, "2025-03", meses[2].Mes)

	assert.True(t, meses[0].Ingresos.Equal(d("1180")))
	assert.True(t, meses[0].Gastos.Equal(d("150")))
	assert.True(t, meses[1].Ingresos.IsZero(), "la vencida no es ingreso")
	assert.True(t, meses[1].Ganancia.Equal(d("-600")))
	assert.True(t, meses[2].Ingresos.Equal(d("500")))
}

func TestAgruparMensual_CruzaAnio(t *testing.T) {
	meses := service.AgruparMensual(nil, nil, 0, fecha("2025-02-10"))
	require.Len(t, meses, 6, "por defecto seis meses")
	assert.Equal(t, "2024-09", meses[0].Mes)
	assert.Equal(t, "dic 2024", meses[3].Etiqueta)
	for _, m := range meses {
		assert.True(t, m.Ganancia.IsZero())
	}
}

func TestAgruparPorCategoria(t *testing.T) {
	_, gastos := datosReporte()

	cats := service.AgruparPorCategoria(gastos)
	require.Len(t, cats, 2)
	assert.Equal(t, "Alquiler", cats[0].Categoria)
	assert.True(t, cats[0].Monto.Equal(d("1200")))
	assert.True(t, cats[0].Porcentaje.Equal(d("88.89")))
	assert.True(t, cats[1].Porcentaje.Equal(d("11.11")))

	assert.Empty(t, service.AgruparPorCategoria(nil))
}

func TestReporteService_Dashboard(t *testing.T) {
	e := nuevoEntorno()
	ctx := context.Background()
	gastos := newStubGastoRepo()
	svc := service.NewReporteService(e.facturas, gastos, e.clientes, e.productos)

	c := e.clientes.add(e.usuarioID, "Crédito", true, 5000, 0)
	e.productos.add(e.usuarioID, "Bajo", 1, true)
	e.productos.add(e.usuarioID, "Suficiente", 50, true)
	id := e.facturaDeMil(t, c, "sent")
	_, err := e.pagoSvc.RegistrarPago(ctx, e.usuarioID, id, pagoReq("1000"))
	require.NoError(t, err)
	require.NoError(t, gastos.Create(ctx, &model.Gasto{UsuarioID: e.usuarioID, Categoria: "Otro", Monto: d("250"), Fecha: fecha("2025-03-10")}))

	dash, err := svc.Dashboard(ctx, e.usuarioID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), dash.TotalClientes)
	assert.Equal(t, int64(2), dash.TotalProductos)
	assert.Equal(t, int64(1), dash.TotalFacturas)
	assert.Equal(t, int64(1), dash.ProductosBajoStock)
	assert.True(t, dash.FinanciamientoPendiente.IsZero())
	assert.True(t, dash.Resumen.Ingresos.Equal(d("1000")))
	assert.True(t, dash.Resumen.Ganancia.Equal(d("750")))

	_, err = svc.Resumen(ctx, e.usuarioID, dto.ResumenFilter{Desde: "marzo"})
	assert.ErrorIs(t, err, service.ErrFechaInvalida)
}

func TestReporteService_ExportarXLSX(t *testing.T) {
	e := nuevoEntorno()
	ctx := context.Background()
	gastos := newStubGastoRepo()
	svc := service.NewReporteService(e.facturas, gastos, e.clientes, e.productos)
	e.facturaDeMil(t, nil, "paid")

	data, err := svc.ExportarXLSX(ctx, e.usuarioID, fecha("2025-03-31"))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	assert.GreaterOrEqual(t, len(f.GetSheetList()), 3)
}
