package worker

// documento_worker.go
// Renders the invoice PDF to PDF_STORAGE_PATH and hands it to the email queue.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"facturapp/internal/infra"
	"facturapp/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// DocumentoJobPayload is the job envelope sent to QueueDocumentos.
type DocumentoJobPayload struct {
	UsuarioID string `json:"usuario_id"`
	FacturaID string `json:"factura_id"`
	Email     string `json:"email"`
}

type DocumentoWorker struct {
	facturaRepo    repository.FacturaRepository
	pagoRepo       repository.PagoRepository
	usuarioRepo    repository.UsuarioRepository
	dispatcher     *Dispatcher
	pdfStoragePath string
}

func NewDocumentoWorker(
	facturaRepo repository.FacturaRepository,
	pagoRepo repository.PagoRepository,
	usuarioRepo repository.UsuarioRepository,
	dispatcher *Dispatcher,
	pdfStoragePath string,
) *DocumentoWorker {
	return &DocumentoWorker{
		facturaRepo:    facturaRepo,
		pagoRepo:       pagoRepo,
		usuarioRepo:    usuarioRepo,
		dispatcher:     dispatcher,
		pdfStoragePath: pdfStoragePath,
	}
}

func (w *DocumentoWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload DocumentoJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("documento_worker: invalid payload: %v: %w", err, ErrPermanente)
	}
	usuarioID, err1 := uuid.Parse(payload.UsuarioID)
	facturaID, err2 := uuid.Parse(payload.FacturaID)
	if err1 != nil || err2 != nil {
		return fmt.Errorf("documento_worker: invalid ids: %w", ErrPermanente)
	}

	factura, err := w.facturaRepo.FindByID(ctx, usuarioID, facturaID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("documento_worker: factura %s no existe: %w", facturaID, ErrPermanente)
	}
	if err != nil {
		return err
	}
	negocio, err := w.usuarioRepo.FindByID(ctx, usuarioID)
	if err != nil {
		return err
	}
	pagado, err := w.pagoRepo.SumByFacturaTx(ctx, nil, facturaID)
	if err != nil {
		return err
	}

	path, err := infra.GuardarFacturaPDF(w.pdfStoragePath, negocio, factura, pagado)
	if err != nil {
		return err
	}
	log.Info().Str("pdf", path).Str("factura", factura.Numero).Msg("documento_worker: PDF generado")

	if payload.Email == "" {
		return nil
	}
	return w.dispatcher.EnqueueEmail(ctx, EmailJobPayload{
		ToEmail: payload.Email,
		Subject: fmt.Sprintf("Factura %s de %s", factura.Numero, negocio.NombreNegocio),
		Body: fmt.Sprintf("Estimado(a) %s,\n\nAdjunto encontrará la factura %s por %s.\n\n%s",
			factura.NombreCliente, factura.Numero, infra.FormatearMonto(factura.Total), negocio.NombreNegocio),
		PDFPath: path,
	})
}
