package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"facturapp/internal/infra"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnviador struct {
	enviados []infra.Mensaje
	err      error
}

func (f *fakeEnviador) Enviar(msg infra.Mensaje) error {
	if f.err != nil {
		return f.err
	}
	f.enviados = append(f.enviados, msg)
	return nil
}

func payload(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestEmailWorker_EnviaConAdjunto(t *testing.T) {
	mailer := &fakeEnviador{}
	w := NewEmailWorker(mailer)

	err := w.Process(context.Background(), payload(t, EmailJobPayload{
		ToEmail: "cliente@ochoa.do", Subject: "Factura INV-0001", Body: "Adjunto", PDFPath: "/tmp/INV-0001.pdf",
	}))
	require.NoError(t, err)
	require.Len(t, mailer.enviados, 1)
	assert.Equal(t, "cliente@ochoa.do", mailer.enviados[0].Para)
	assert.Equal(t, []string{"/tmp/INV-0001.pdf"}, mailer.enviados[0].Adjuntos)
}

func TestEmailWorker_Errores(t *testing.T) {
	ctx := context.Background()

	err := NewEmailWorker(&fakeEnviador{}).Process(ctx, json.RawMessage(`{"to_email":`))
	assert.ErrorIs(t, err, ErrPermanente, "payload roto")

	sinDestino := &fakeEnviador{}
	assert.NoError(t, NewEmailWorker(sinDestino).Process(ctx, payload(t, EmailJobPayload{Subject: "x"})))
	assert.Empty(t, sinDestino.enviados)

	err = NewEmailWorker(&fakeEnviador{err: infra.ErrMailerNoConfigurado}).
		Process(ctx, payload(t, EmailJobPayload{ToEmail: "a@b.do"}))
	assert.ErrorIs(t, err, ErrPermanente, "sin SMTP no tiene sentido reintentar")

	err = NewEmailWorker(&fakeEnviador{err: infra.ErrCircuitOpen}).
		Process(ctx, payload(t, EmailJobPayload{ToEmail: "a@b.do"}))
	assert.ErrorIs(t, err, infra.ErrCircuitOpen)
	assert.NotErrorIs(t, err, ErrPermanente, "breaker abierto se reintenta")
}

func TestDocumentoWorker_PayloadInvalido(t *testing.T) {
	w := NewDocumentoWorker(nil, nil, nil, nil, t.TempDir())
	ctx := context.Background()

	assert.ErrorIs(t, w.Process(ctx, json.RawMessage(`[]`)), ErrPermanente)
	assert.ErrorIs(t, w.Process(ctx, payload(t, DocumentoJobPayload{UsuarioID: "x", FacturaID: "y"})), ErrPermanente)
}

type fakeMarcador struct {
	n   int
	err error
	hoy time.Time
}

func (f *fakeMarcador) MarcarVencidas(_ context.Context, hoy time.Time) (int, error) {
	f.hoy = hoy
	return f.n, f.err
}

func TestEjecutarVencimientos(t *testing.T) {
	m := &fakeMarcador{n: 3}
	assert.Equal(t, 3, EjecutarVencimientos(context.Background(), m))
	assert.WithinDuration(t, time.Now(), m.hoy, time.Minute)

	parcial := &fakeMarcador{n: 1, err: errors.New("INV-0009: conexión perdida")}
	assert.Equal(t, 1, EjecutarVencimientos(context.Background(), parcial))
}

func TestStartVencimientoCron(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c, err := StartVencimientoCron(ctx, "", &fakeMarcador{})
	require.NoError(t, err)
	assert.Nil(t, c, "spec vacío desactiva el job")

	_, err = StartVencimientoCron(ctx, "cada lunes", &fakeMarcador{})
	assert.Error(t, err)

	c, err = StartVencimientoCron(ctx, "@daily", &fakeMarcador{})
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Len(t, c.Entries(), 1)
}

func TestQueueFor(t *testing.T) {
	assert.Equal(t, QueueDocumentos, queueFor(JobDocumento))
	assert.Equal(t, QueueEmail, queueFor(JobEmail))
}
