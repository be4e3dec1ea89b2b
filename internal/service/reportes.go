package service

import (
	"fmt"
	"sort"
	"time"

	"facturapp/internal/dto"
	"facturapp/internal/model"

	"github.com/shopspring/decimal"
)

// Pure aggregation over already-loaded rows. The service loads, these compute.

var mesesCortos = [...]string{"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sep", "oct", "nov", "dic"}

func enRango(t time.Time, desde, hasta *time.Time) bool {
	if desde == nil || hasta == nil {
		return true
	}
	d := t.Format(fechaLayout)
	return d >= desde.Format(fechaLayout) && d <= hasta.Format(fechaLayout)
}

// ResumirFinanzas computes income (paid invoices), expenses, profit and the
// pending (sent/overdue) totals. The range applies only when both bounds are
// set; it is inclusive and compares calendar dates.
func ResumirFinanzas(facturas []model.Factura, gastos []model.Gasto, desde, hasta *time.Time) dto.ResumenFinancieroResponse {
	r := dto.ResumenFinancieroResponse{
		Ingresos:       decimal.Zero,
		Gastos:         decimal.Zero,
		MontoPagado:    decimal.Zero,
		MontoPendiente: decimal.Zero,
	}
	for _, f := range facturas {
		if !enRango(f.FechaEmision, desde, hasta) {
			continue
		}
		switch f.Estado {
		case model.EstadoPagada:
			r.FacturasPagadas++
			r.MontoPagado = r.MontoPagado.Add(f.Total)
		case model.EstadoEnviada, model.EstadoVencida:
			r.FacturasPendiente++
			r.MontoPendiente = r.MontoPendiente.Add(f.Total)
		}
	}
	r.Ingresos = r.MontoPagado
	for _, g := range gastos {
		if enRango(g.Fecha, desde, hasta) {
			r.Gastos = r.Gastos.Add(g.Monto)
		}
	}
	r.Ganancia = r.Ingresos.Sub(r.Gastos)
	return r
}

// AgruparMensual buckets the trailing n calendar months ending at ref's
// month, oldest first. Rows outside the window are ignored.
func AgruparMensual(facturas []model.Factura, gastos []model.Gasto, meses int, ref time.Time) []dto.DatosMensualesResponse {
	if meses <= 0 {
		meses = 6
	}
	inicio := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(meses - 1), 0)

	out := make([]dto.DatosMensualesResponse, meses)
	idx := make(map[string]int, meses)
	for i := 0; i < meses; i++ {
		m := inicio.AddDate(0, i, 0)
		clave := m.Format("2006-01")
		idx[clave] = i
		out[i] = dto.DatosMensualesResponse{
			Mes:      clave,
			Etiqueta: fmt.Sprintf("%s %d", mesesCortos[m.Month()-1], m.Year()),
			Ingresos: decimal.Zero,
			Gastos:   decimal.Zero,
		}
	}

	for _, f := range facturas {
		if f.Estado != model.EstadoPagada {
			continue
		}
		if i, ok := idx[f.FechaEmision.Format("2006-01")]; ok {
			out[i].Ingresos = out[i].Ingresos.Add(f.Total)
		}
	}
	for _, g := range gastos {
		if i, ok := idx[g.Fecha.Format("2006-01")]; ok {
			out[i].Gastos = out[i].Gastos.Add(g.Monto)
		}
	}
	for i := range out {
		out[i].Ganancia = out[i].Ingresos.Sub(out[i].Gastos)
	}
	return out
}

// AgruparPorCategoria sums expenses per category, largest first, with each
// category's share of the total (percent, 2 decimals).
func AgruparPorCategoria(gastos []model.Gasto) []dto.GastoCategoriaResponse {
	sumas := map[string]decimal.Decimal{}
	total := decimal.Zero
	for _, g := range gastos {
		sumas[g.Categoria] = sumas[g.Categoria].Add(g.Monto)
		total = total.Add(g.Monto)
	}

	out := make([]dto.GastoCategoriaResponse, 0, len(sumas))
	cien := decimal.NewFromInt(100)
	for cat, monto := range sumas {
		pct := decimal.Zero
		if total.IsPositive() {
			pct = monto.Div(total).Mul(cien).Round(2)
		}
		out = append(out, dto.GastoCategoriaResponse{Categoria: cat, Monto: monto, Porcentaje: pct})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Monto.Equal(out[j].Monto) {
			return out[i].Monto.GreaterThan(out[j].Monto)
		}
		return out[i].Categoria < out[j].Categoria
	})
	return out
}
