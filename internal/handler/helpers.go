package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"facturapp/internal/apierror"
	"facturapp/internal/middleware"
	"facturapp/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	// Report JSON/form names instead of Go field names.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
}

// mensajesValidacion translates validator tags into user-facing text.
var mensajesValidacion = map[string]string{
	"required": "es requerido",
	"gt":       "debe ser mayor que cero",
	"min":      "es menor que el mínimo permitido",
	"max":      "excede el máximo permitido",
	"email":    "no es un correo válido",
	"uuid":     "no es un identificador válido",
	"oneof":    "no es un valor permitido",
	"datetime": "debe tener el formato AAAA-MM-DD",
	"url":      "no es una URL válida",
	"ne":       "no puede ser cero",
}

func validationFields(err error) map[string]string {
	fields := make(map[string]string)
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		fields["_"] = err.Error()
		return fields
	}
	for _, fe := range ve {
		msg, ok := mensajesValidacion[fe.Tag()]
		if !ok {
			msg = fe.Tag()
		}
		fields[fe.Field()] = msg
	}
	return fields
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(validationFields(err)))
		return false
	}
	return true
}

// bindQuery is bindAndValidate for query-string filters.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parametros invalidos: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(validationFields(err)))
		return false
	}
	return true
}

// paramUUID parses a path parameter, writing 400 on failure.
func paramUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return uuid.Nil, false
	}
	return id, true
}

// ── Error mapping ─────────────────────────────────────────────────────────────

var (
	erroresNoEncontrado = []error{
		service.ErrFacturaNoEncontrada,
		service.ErrPagoNoEncontrado,
		service.ErrClienteNoEncontrado,
		service.ErrProductoNoEncontrado,
		service.ErrGastoNoEncontrado,
	}
	erroresConflicto = []error{
		service.ErrLimiteFinanciamiento,
		service.ErrLimiteMenorQueUsado,
		service.ErrEmailRegistrado,
		service.ErrFacturaNoCobrable,
		service.ErrSinControlInventario,
		service.ErrSinFinanciamiento,
	}
	erroresSolicitud = []error{
		service.ErrFacturaInvalida,
		service.ErrEstadoInvalido,
		service.ErrMontoInvalido,
		service.ErrClienteInvalido,
		service.ErrPagoFinInvalido,
		service.ErrProductoInvalido,
		service.ErrGastoInvalido,
		service.ErrFechaInvalida,
		service.ErrSinEmail,
		service.ErrSolicitudInvalida,
	}
	erroresAuth = []error{
		service.ErrCredenciales,
		service.ErrTokenInvalido,
	}
)

func esAlguno(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// respondError writes the status that matches a service error. Anything not
// recognized is logged and hidden behind a generic 500.
func respondError(c *gin.Context, err error) {
	switch {
	case esAlguno(err, erroresNoEncontrado):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case esAlguno(err, erroresConflicto):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case esAlguno(err, erroresSolicitud):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	case esAlguno(err, erroresAuth):
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
	default:
		log.Error().
			Err(err).
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("path", c.FullPath()).
			Msg("request failed")
		c.JSON(http.StatusInternalServerError, apierror.Interno(c.GetString(middleware.RequestIDKey)))
	}
}
