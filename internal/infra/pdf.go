package infra

// pdf.go — invoice and payment receipt rendering with go-pdf/fpdf.
// Invoices are A4 with business header, customer block, item table and
// the subtotal / descuento / ITBIS / total breakdown. Receipts are a half
// page acknowledging one payment and the remaining balance.

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"facturapp/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

var etiquetasEstado = map[model.EstadoFactura]string{
	model.EstadoBorrador:  "Borrador",
	model.EstadoEnviada:   "Enviada",
	model.EstadoPagada:    "Pagada",
	model.EstadoVencida:   "Vencida",
	model.EstadoCancelada: "Cancelada",
}

// RenderFacturaPDF writes the invoice PDF to w.
func RenderFacturaPDF(w io.Writer, negocio *model.Usuario, f *model.Factura, pagado decimal.Decimal) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	encabezadoNegocio(pdf, tr, negocio, contentW)

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(contentW, 10, tr("FACTURA "+f.Numero), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, tr("Fecha: "+f.FechaEmision.Format("02/01/2006")), "", 1, "R", false, 0, "")
	if f.FechaVencimiento != nil {
		pdf.CellFormat(contentW, 5, tr("Vence: "+f.FechaVencimiento.Format("02/01/2006")), "", 1, "R", false, 0, "")
	}
	pdf.CellFormat(contentW, 5, tr("Estado: "+etiquetasEstado[f.Estado]), "", 1, "R", false, 0, "")
	pdf.Ln(4)

	// ── Customer ─────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, "Facturar a:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 5, tr(f.NombreCliente), "", 1, "L", false, 0, "")
	if f.Cliente != nil {
		if f.Cliente.RNC != nil {
			pdf.CellFormat(contentW, 5, tr("RNC: "+*f.Cliente.RNC), "", 1, "L", false, 0, "")
		}
		if f.Cliente.Direccion != nil {
			pdf.CellFormat(contentW, 5, tr(*f.Cliente.Direccion), "", 1, "L", false, 0, "")
		}
	}
	pdf.Ln(4)

	// ── Items ────────────────────────────────────────────────────────────────
	colDesc := contentW * 0.50
	colCant := contentW * 0.14
	colPrecio := contentW * 0.18
	colTotal := contentW * 0.18

	pdf.SetFillColor(235, 235, 235)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(colDesc, 7, tr("Descripción"), "1", 0, "L", true, 0, "")
	pdf.CellFormat(colCant, 7, "Cant.", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colPrecio, 7, "Precio", "1", 0, "R", true, 0, "")
	pdf.CellFormat(colTotal, 7, "Total", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, it := range f.Items {
		pdf.CellFormat(colDesc, 6, tr(truncar(it.Descripcion, 60)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colCant, 6, it.Cantidad.String(), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colPrecio, 6, FormatearMonto(it.PrecioUnitario), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colTotal, 6, FormatearMonto(it.Total), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(3)

	// ── Totals ───────────────────────────────────────────────────────────────
	etiquetaW := colDesc + colCant + colPrecio
	fila := func(etiqueta string, monto decimal.Decimal, bold bool) {
		estilo := ""
		if bold {
			estilo = "B"
		}
		pdf.SetFont("Helvetica", estilo, 10)
		pdf.CellFormat(etiquetaW, 6, tr(etiqueta), "", 0, "R", false, 0, "")
		pdf.CellFormat(colTotal, 6, FormatearMonto(monto), "", 1, "R", false, 0, "")
	}
	fila("Subtotal:", f.Subtotal, false)
	if f.Descuento.IsPositive() {
		fila("Descuento:", f.Descuento.Neg(), false)
	}
	if f.AplicarITBIS {
		fila("ITBIS (18%):", f.ITBIS, false)
	}
	fila("TOTAL:", f.Total, true)
	if pagado.IsPositive() {
		fila("Pagado:", pagado, false)
		fila("Balance pendiente:", decimal.Max(decimal.Zero, f.Total.Sub(pagado)), true)
	}

	if f.Notas != nil && strings.TrimSpace(*f.Notas) != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.MultiCell(contentW, 5, tr(*f.Notas), "", "L", false)
	}

	return pdf.Output(w)
}

// RenderReciboPDF writes a receipt for one payment to w.
func RenderReciboPDF(w io.Writer, negocio *model.Usuario, f *model.Factura, p *model.Pago, saldo decimal.Decimal) error {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 148, Ht: 210}, // A5
	})
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	encabezadoNegocio(pdf, tr, negocio, contentW)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 9, "RECIBO DE PAGO", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	campo := func(etiqueta, valor string) {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(contentW*0.4, 6, tr(etiqueta), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(contentW*0.6, 6, tr(valor), "", 1, "L", false, 0, "")
	}
	campo("Factura:", f.Numero)
	campo("Cliente:", f.NombreCliente)
	campo("Fecha de pago:", p.Fecha.Format("02/01/2006"))
	campo("Método:", p.Metodo)
	if p.Referencia != nil {
		campo("Referencia:", *p.Referencia)
	}
	pdf.Ln(2)
	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(2)
	campo("Total factura:", FormatearMonto(f.Total))
	campo("Monto recibido:", FormatearMonto(p.Monto))
	campo("Balance pendiente:", FormatearMonto(saldo))

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 4, tr("¡Gracias por su pago!"), "", 1, "C", false, 0, "")

	return pdf.Output(w)
}

// GuardarFacturaPDF renders the invoice into storagePath and returns the file path.
func GuardarFacturaPDF(storagePath string, negocio *model.Usuario, f *model.Factura, pagado decimal.Decimal) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	path := filepath.Join(storagePath, fmt.Sprintf("%s_%s.pdf", f.Numero, f.ID.String()[:8]))
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("pdf: create file: %w", err)
	}
	if err := RenderFacturaPDF(out, negocio, f, pagado); err != nil {
		out.Close()
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return path, nil
}

func encabezadoNegocio(pdf *fpdf.Fpdf, tr func(string) string, negocio *model.Usuario, w float64) {
	if negocio == nil {
		return
	}
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(w, 7, tr(negocio.NombreNegocio), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	if negocio.RNC != nil {
		pdf.CellFormat(w, 4, tr("RNC: "+*negocio.RNC), "", 1, "L", false, 0, "")
	}
	if negocio.Direccion != nil {
		pdf.CellFormat(w, 4, tr(*negocio.Direccion), "", 1, "L", false, 0, "")
	}
	if negocio.Telefono != nil {
		pdf.CellFormat(w, 4, tr("Tel: "+*negocio.Telefono), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(w, 4, negocio.Email, "", 1, "L", false, 0, "")
	pdf.Ln(4)
}

// FormatearMonto renders an amount as "RD$ 1,234.56".
func FormatearMonto(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	entero, dec := s[:len(s)-3], s[len(s)-2:]

	var b strings.Builder
	for i, r := range entero {
		if i > 0 && (len(entero)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	signo := ""
	if d.IsNegative() {
		signo = "-"
	}
	return signo + "RD$ " + b.String() + "." + dec
}

func truncar(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
