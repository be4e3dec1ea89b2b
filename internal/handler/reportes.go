package handler

import (
	"net/http"
	"time"

	"facturapp/internal/dto"
	"facturapp/internal/middleware"
	"facturapp/internal/service"

	"github.com/gin-gonic/gin"
)

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportesHandler struct{ svc service.ReporteService }

func NewReportesHandler(svc service.ReporteService) *ReportesHandler {
	return &ReportesHandler{svc: svc}
}

// Resumen godoc
// @Summary      Resumen financiero
// @Description  Ingresos (facturas pagadas), gastos y ganancia en el rango indicado.
// @Tags         reportes
// @Produce      json
// @Security     BearerAuth
// @Param        desde query string false "AAAA-MM-DD"
// @Param        hasta query string false "AAAA-MM-DD"
// @Success      200  {object} dto.ResumenFinancieroResponse
// @Router       /v1/reportes/resumen [get]
func (h *ReportesHandler) Resumen(c *gin.Context) {
	var filter dto.ResumenFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Resumen(c.Request.Context(), middleware.UsuarioID(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportesHandler) Mensual(c *gin.Context) {
	var filter dto.MensualFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Mensual(c.Request.Context(), middleware.UsuarioID(c), filter.Meses, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportesHandler) GastosPorCategoria(c *gin.Context) {
	resp, err := h.svc.GastosPorCategoria(c.Request.Context(), middleware.UsuarioID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportesHandler) Dashboard(c *gin.Context) {
	resp, err := h.svc.Dashboard(c.Request.Context(), middleware.UsuarioID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Exportar godoc
// @Summary      Exportar reportes a Excel
// @Tags         reportes
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200
// @Router       /v1/reportes/exportar [get]
func (h *ReportesHandler) Exportar(c *gin.Context) {
	now := time.Now()
	data, err := h.svc.ExportarXLSX(c.Request.Context(), middleware.UsuarioID(c), now)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="reportes-`+now.Format("2006-01-02")+`.xlsx"`)
	c.Data(http.StatusOK, mimeXLSX, data)
}
