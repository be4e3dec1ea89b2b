package infra

import (
	"fmt"
	"io"

	"facturapp/internal/dto"

	"github.com/xuri/excelize/v2"
)

// ReportesXLSX bundles the three financial reports for export.
type ReportesXLSX struct {
	Resumen    dto.ResumenFinancieroResponse
	Mensual    []dto.DatosMensualesResponse
	Categorias []dto.GastoCategoriaResponse
}

// ExportarReportesXLSX writes a workbook with one sheet per report.
func ExportarReportesXLSX(w io.Writer, r ReportesXLSX) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return err
	}

	// ── Resumen ──────────────────────────────────────────────────────────────
	const resumen = "Resumen"
	if err := f.SetSheetName("Sheet1", resumen); err != nil {
		return err
	}
	filas := [][]any{
		{"Concepto", "Valor"},
		{"Ingresos", r.Resumen.Ingresos.InexactFloat64()},
		{"Gastos", r.Resumen.Gastos.InexactFloat64()},
		{"Ganancia", r.Resumen.Ganancia.InexactFloat64()},
		{"Facturas pagadas", r.Resumen.FacturasPagadas},
		{"Monto pagado", r.Resumen.MontoPagado.InexactFloat64()},
		{"Facturas pendientes", r.Resumen.FacturasPendiente},
		{"Monto pendiente", r.Resumen.MontoPendiente.InexactFloat64()},
	}
	if err := escribirFilas(f, resumen, filas); err != nil {
		return err
	}
	_ = f.SetCellStyle(resumen, "A1", "B1", bold)
	_ = f.SetCellStyle(resumen, "B2", "B4", money)
	_ = f.SetCellStyle(resumen, "B6", "B6", money)
	_ = f.SetCellStyle(resumen, "B8", "B8", money)
	_ = f.SetColWidth(resumen, "A", "A", 24)

	// ── Mensual ──────────────────────────────────────────────────────────────
	const mensual = "Mensual"
	if _, err := f.NewSheet(mensual); err != nil {
		return err
	}
	filas = [][]any{{"Mes", "Ingresos", "Gastos", "Ganancia"}}
	for _, m := range r.Mensual {
		filas = append(filas, []any{
			m.Etiqueta, m.Ingresos.InexactFloat64(), m.Gastos.InexactFloat64(), m.Ganancia.InexactFloat64(),
		})
	}
	if err := escribirFilas(f, mensual, filas); err != nil {
		return err
	}
	_ = f.SetCellStyle(mensual, "A1", "D1", bold)
	if len(r.Mensual) > 0 {
		_ = f.SetCellStyle(mensual, "B2", fmt.Sprintf("D%d", len(r.Mensual)+1), money)
	}

	// ── Categorías ───────────────────────────────────────────────────────────
	const categorias = "Gastos por categoría"
	if _, err := f.NewSheet(categorias); err != nil {
		return err
	}
	filas = [][]any{{"Categoría", "Monto", "Porcentaje"}}
	for _, c := range r.Categorias {
		filas = append(filas, []any{c.Categoria, c.Monto.InexactFloat64(), c.Porcentaje.InexactFloat64()})
	}
	if err := escribirFilas(f, categorias, filas); err != nil {
		return err
	}
	_ = f.SetCellStyle(categorias, "A1", "C1", bold)
	_ = f.SetColWidth(categorias, "A", "A", 26)

	_, err = f.WriteTo(w)
	return err
}

func escribirFilas(f *excelize.File, hoja string, filas [][]any) error {
	for i, fila := range filas {
		celda, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(hoja, celda, &fila); err != nil {
			return err
		}
	}
	return nil
}
