package handler

import (
	"context"
	"net/http"

	"facturapp/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// VersionesVistas is satisfied by *infra.Refresher.
type VersionesVistas interface {
	Versiones(ctx context.Context, usuarioID uuid.UUID) (map[string]int64, error)
}

// Vistas returns the current version counter of every view. A client
// refetches a view when its number changes.
func Vistas(refresher VersionesVistas) gin.HandlerFunc {
	return func(c *gin.Context) {
		versiones, err := refresher.Versiones(c.Request.Context(), middleware.UsuarioID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, versiones)
	}
}
