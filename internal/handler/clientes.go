package handler

import (
	"net/http"

	"facturapp/internal/dto"
	"facturapp/internal/middleware"
	"facturapp/internal/service"

	"github.com/gin-gonic/gin"
)

type ClientesHandler struct {
	svc            service.ClienteService
	financiamiento service.FinanciamientoService
}

func NewClientesHandler(svc service.ClienteService, financiamiento service.FinanciamientoService) *ClientesHandler {
	return &ClientesHandler{svc: svc, financiamiento: financiamiento}
}

// Crear godoc
// @Summary      Crear cliente
// @Tags         clientes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.ClienteRequest true "Cliente"
// @Success      201  {object} dto.ClienteResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/clientes [post]
func (h *ClientesHandler) Crear(c *gin.Context) {
	var req dto.ClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), middleware.UsuarioID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ClientesHandler) Listar(c *gin.Context) {
	var filter dto.ClienteFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), middleware.UsuarioID(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClientesHandler) ObtenerPorID(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), middleware.UsuarioID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar godoc
// @Summary      Actualizar cliente
// @Description  Reemplaza los datos del cliente. El límite de financiamiento no puede quedar por debajo del monto usado.
// @Tags         clientes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string            true "UUID del cliente"
// @Param        body body dto.ClienteRequest true "Cliente"
// @Success      200  {object} dto.ClienteResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/clientes/{id} [put]
func (h *ClientesHandler) Actualizar(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req dto.ClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), middleware.UsuarioID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClientesHandler) Eliminar(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), middleware.UsuarioID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Pagos de financiamiento ───────────────────────────────────────────────────

// RegistrarPagoFinanciamiento godoc
// @Summary      Registrar abono al financiamiento
// @Description  Reduce el monto usado del cliente (nunca por debajo de cero).
// @Tags         clientes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                        true "UUID del cliente"
// @Param        body body dto.PagoFinanciamientoRequest true "Abono"
// @Success      201  {object} dto.PagoFinanciamientoResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/clientes/{id}/pagos-financiamiento [post]
func (h *ClientesHandler) RegistrarPagoFinanciamiento(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req dto.PagoFinanciamientoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.financiamiento.RegistrarPago(c.Request.Context(), middleware.UsuarioID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ClientesHandler) ListarPagosFinanciamiento(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.financiamiento.ListarPagos(c.Request.Context(), middleware.UsuarioID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClientesHandler) EliminarPagoFinanciamiento(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	pagoID, ok := paramUUID(c, "pagoId")
	if !ok {
		return
	}
	if err := h.financiamiento.EliminarPago(c.Request.Context(), middleware.UsuarioID(c), id, pagoID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
