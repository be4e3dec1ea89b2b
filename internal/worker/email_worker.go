package worker

// email_worker.go
// Sends invoice PDFs to customers. SMTP runs behind the mailer's circuit
// breaker; an open breaker is a transient failure and the job is retried.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"facturapp/internal/infra"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	PDFPath string `json:"pdf_path"`
}

// Enviador is satisfied by *infra.Mailer.
type Enviador interface {
	Enviar(msg infra.Mensaje) error
}

type EmailWorker struct {
	mailer Enviador
}

func NewEmailWorker(mailer Enviador) *EmailWorker {
	return &EmailWorker{mailer: mailer}
}

func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("email_worker: invalid payload: %v: %w", err, ErrPermanente)
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email — skipping")
		return nil
	}

	msg := infra.Mensaje{Para: payload.ToEmail, Asunto: payload.Subject, Texto: payload.Body}
	if payload.PDFPath != "" {
		msg.Adjuntos = []string{payload.PDFPath}
	}
	if err := w.mailer.Enviar(msg); err != nil {
		if errors.Is(err, infra.ErrMailerNoConfigurado) {
			return fmt.Errorf("%v: %w", err, ErrPermanente)
		}
		return fmt.Errorf("email_worker: send to %s: %w", payload.ToEmail, err)
	}
	log.Info().Str("to", payload.ToEmail).Msg("email_worker: factura enviada")
	return nil
}
