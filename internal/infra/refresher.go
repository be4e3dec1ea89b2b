package infra

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Views the UI caches. Write operations invalidate them.
const (
	VistaDashboard = "dashboard"
	VistaFacturas  = "facturas"
	VistaReportes  = "reportes"
	VistaProductos = "productos"
	VistaClientes  = "clientes"
	VistaGastos    = "gastos"
)

var todasLasVistas = []string{
	VistaDashboard, VistaFacturas, VistaReportes, VistaProductos, VistaClientes, VistaGastos,
}

// Refresher tells clients that cached views are stale. Each view has a
// monotonically increasing version per tenant; every bump is also published
// on the tenant channel so connected UIs can refetch immediately.
type Refresher struct {
	rdb *redis.Client
}

func NewRefresher(rdb *redis.Client) *Refresher { return &Refresher{rdb: rdb} }

func claveVista(usuarioID uuid.UUID, vista string) string {
	return fmt.Sprintf("vistas:%s:%s", usuarioID, vista)
}

// CanalVistas is the pub/sub channel for one tenant.
func CanalVistas(usuarioID uuid.UUID) string {
	return fmt.Sprintf("vistas:%s", usuarioID)
}

// Invalidar bumps the given views. Failures are logged and swallowed: a
// missed refresh must never fail the write that triggered it.
func (r *Refresher) Invalidar(ctx context.Context, usuarioID uuid.UUID, vistas ...string) {
	if r == nil || r.rdb == nil || len(vistas) == 0 {
		return
	}
	pipe := r.rdb.Pipeline()
	for _, v := range vistas {
		pipe.Incr(ctx, claveVista(usuarioID, v))
		pipe.Publish(ctx, CanalVistas(usuarioID), v)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.Warn().Err(err).Str("usuario_id", usuarioID.String()).
			Strs("vistas", vistas).Msg("refresher: no se pudo invalidar vistas")
	}
}

// Versiones returns the current version of every known view (0 if never
// bumped, or when running without Redis).
func (r *Refresher) Versiones(ctx context.Context, usuarioID uuid.UUID) (map[string]int64, error) {
	out := make(map[string]int64, len(todasLasVistas))
	for _, v := range todasLasVistas {
		out[v] = 0
	}
	if r == nil || r.rdb == nil {
		return out, nil
	}
	claves := make([]string, len(todasLasVistas))
	for i, v := range todasLasVistas {
		claves[i] = claveVista(usuarioID, v)
	}
	vals, err := r.rdb.MGet(ctx, claves...).Result()
	if err != nil {
		return nil, err
	}
	for i, v := range todasLasVistas {
		if s, ok := vals[i].(string); ok {
			n, _ := strconv.ParseInt(s, 10, 64)
			out[v] = n
		}
	}
	return out, nil
}
