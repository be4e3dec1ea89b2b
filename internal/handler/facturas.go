package handler

import (
	"net/http"

	"facturapp/internal/dto"
	"facturapp/internal/middleware"
	"facturapp/internal/model"
	"facturapp/internal/service"

	"github.com/gin-gonic/gin"
)

type FacturasHandler struct {
	svc        service.FacturaService
	pagos      service.PagoService
	documentos service.DocumentoService
}

func NewFacturasHandler(svc service.FacturaService, pagos service.PagoService, documentos service.DocumentoService) *FacturasHandler {
	return &FacturasHandler{svc: svc, pagos: pagos, documentos: documentos}
}

// Crear godoc
// @Summary      Crear factura
// @Description  Calcula totales con ITBIS (18%), asigna el número INV-XXXX y aplica inventario y financiamiento en una sola transacción.
// @Tags         facturas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.FacturaRequest true "Factura"
// @Success      201  {object} dto.FacturaResponse
// @Failure      400  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/facturas [post]
func (h *FacturasHandler) Crear(c *gin.Context) {
	var req dto.FacturaRequest
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

func (h *FacturasHandler) Listar(c *gin.Context) {
	var filter dto.FacturaFilter
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

func (h *FacturasHandler) ObtenerPorID(c *gin.Context) {
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
// @Summary      Actualizar factura
// @Description  Revierte los efectos de la versión anterior y aplica los de la nueva.
// @Tags         facturas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string             true "UUID de la factura"
// @Param        body body dto.FacturaRequest true "Factura"
// @Success      200  {object} dto.FacturaResponse
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/facturas/{id} [put]
func (h *FacturasHandler) Actualizar(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req dto.FacturaRequest
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

// Eliminar godoc
// @Summary      Eliminar factura
// @Description  Devuelve el stock y el financiamiento antes de borrar la factura y sus pagos.
// @Tags         facturas
// @Security     BearerAuth
// @Param        id   path string true "UUID de la factura"
// @Success      204
// @Failure      404  {object} apierror.APIError
// @Router       /v1/facturas/{id} [delete]
func (h *FacturasHandler) Eliminar(c *gin.Context) {
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

func (h *FacturasHandler) ActualizarEstado(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarEstadoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarEstado(c.Request.Context(), middleware.UsuarioID(c), id, model.EstadoFactura(req.Estado))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Documentos ────────────────────────────────────────────────────────────────

func (h *FacturasHandler) DescargarPDF(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	pdf, nombre, err := h.documentos.FacturaPDF(c.Request.Context(), middleware.UsuarioID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+nombre+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// Enviar godoc
// @Summary      Enviar factura por correo
// @Description  Encola la generación del PDF y su envío al correo del cliente (o al indicado).
// @Tags         facturas
// @Accept       json
// @Security     BearerAuth
// @Param        id   path string                   true  "UUID de la factura"
// @Param        body body dto.EnviarFacturaRequest false "Destino opcional"
// @Success      202
// @Failure      400  {object} apierror.APIError
// @Router       /v1/facturas/{id}/enviar [post]
func (h *FacturasHandler) Enviar(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req dto.EnviarFacturaRequest
	if c.Request.ContentLength > 0 && !bindAndValidate(c, &req) {
		return
	}
	email := ""
	if req.Email != nil {
		email = *req.Email
	}
	if err := h.documentos.EnviarFactura(c.Request.Context(), middleware.UsuarioID(c), id, email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"encolado": true})
}

// ── Pagos ─────────────────────────────────────────────────────────────────────

// RegistrarPago godoc
// @Summary      Registrar pago de factura
// @Description  Marca la factura como pagada cuando el total pagado cubre el total (tolerancia 0.10) y abona el financiamiento del cliente.
// @Tags         pagos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                   true "UUID de la factura"
// @Param        body body dto.RegistrarPagoRequest true "Pago"
// @Success      201  {object} dto.PagoResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/facturas/{id}/pagos [post]
func (h *FacturasHandler) RegistrarPago(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req dto.RegistrarPagoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.pagos.RegistrarPago(c.Request.Context(), middleware.UsuarioID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *FacturasHandler) ListarPagos(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.pagos.ListarPagos(c.Request.Context(), middleware.UsuarioID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FacturasHandler) EliminarPago(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	pagoID, ok := paramUUID(c, "pagoId")
	if !ok {
		return
	}
	if err := h.pagos.EliminarPago(c.Request.Context(), middleware.UsuarioID(c), id, pagoID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DescargarRecibo serves the receipt of a single payment.
func (h *FacturasHandler) DescargarRecibo(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	pdf, nombre, err := h.documentos.ReciboPDF(c.Request.Context(), middleware.UsuarioID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+nombre+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
