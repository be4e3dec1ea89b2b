package worker

// vencimiento_cron.go
// Scheduled job that flips sent invoices past their due date to overdue.

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// MarcadorVencidas is satisfied by service.FacturaService.
type MarcadorVencidas interface {
	MarcarVencidas(ctx context.Context, hoy time.Time) (int, error)
}

// StartVencimientoCron schedules the overdue sweep with a robfig/cron spec
// ("@daily", "0 6 * * *", ...). The scheduler stops when ctx is cancelled.
// An empty spec disables the job and returns a nil scheduler.
func StartVencimientoCron(ctx context.Context, spec string, marcador MarcadorVencidas) (*cron.Cron, error) {
	if spec == "" {
		log.Info().Msg("vencimiento_cron: disabled")
		return nil, nil
	}
	c := cron.New()
	if _, err := c.AddFunc(spec, func() { EjecutarVencimientos(ctx, marcador) }); err != nil {
		return nil, err
	}
	c.Start()
	log.Info().Str("spec", spec).Msg("vencimiento_cron: started")

	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
		log.Info().Msg("vencimiento_cron: shutting down")
	}()
	return c, nil
}

// EjecutarVencimientos runs one sweep. Also used by the admin CLI.
func EjecutarVencimientos(ctx context.Context, marcador MarcadorVencidas) int {
	n, err := marcador.MarcarVencidas(ctx, time.Now())
	if err != nil {
		log.Error().Err(err).Int("marcadas", n).Msg("vencimiento_cron: sweep failed")
		return n
	}
	if n > 0 {
		log.Info().Int("marcadas", n).Msg("vencimiento_cron: facturas marcadas como vencidas")
	}
	return n
}
