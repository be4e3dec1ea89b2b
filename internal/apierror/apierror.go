// Package apierror holds the JSON envelopes for every 4xx/5xx response.
// Handlers never serialize raw errors; service messages are Spanish and safe
// to show, anything else is replaced by Interno.
package apierror

// MensajeInterno is the only detail a client sees for an unexpected failure.
const MensajeInterno = "Error interno del servidor"

// APIError is the canonical error envelope.
type APIError struct {
	Detail    string `json:"detail"`
	RequestID string `json:"request_id,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// Interno builds the 500 body. requestID lets support match the response
// with the server log line.
func Interno(requestID string) *APIError {
	return &APIError{Detail: MensajeInterno, RequestID: requestID}
}

// ValidationError carries one message per offending field, keyed by its JSON name.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validación", Fields: fields}
}
