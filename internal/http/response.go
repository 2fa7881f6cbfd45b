package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/admisionuni/simulacro-intranet/internal/admissions"
)

// Envelope replica la forma de respuesta del API de admisión, que el
// frontend del wizard ya sabe consumir.
type Envelope struct {
	Status  string              `json:"status"`
	Message string              `json:"message,omitempty"`
	Data    any                 `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// WriteSuccess escribe un envelope de éxito con datos.
func WriteSuccess(w http.ResponseWriter, status int, data any) {
	writeEnvelope(w, status, Envelope{Status: "success", Data: data})
}

// WriteSuccessMessage escribe éxito con mensaje y datos opcionales.
func WriteSuccessMessage(w http.ResponseWriter, status int, message string, data any) {
	writeEnvelope(w, status, Envelope{Status: "success", Message: message, Data: data})
}

// WriteError escribe un envelope de error, con errores de campo si los hay.
func WriteError(w http.ResponseWriter, status int, message string, fields map[string][]string) {
	writeEnvelope(w, status, Envelope{Status: "error", Message: message, Errors: fields})
}

func writeEnvelope(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

// WriteAdmissionsError normaliza una falla del cliente de admisión hacia
// el frontend: los timeouts se reportan como gateway timeout, los errores
// de validación conservan sus errores de campo.
func WriteAdmissionsError(w http.ResponseWriter, err error) {
	var apiErr *admissions.Error
	if !errors.As(err, &apiErr) {
		WriteError(w, http.StatusBadGateway, "no se pudo contactar al API de admisión", nil)
		return
	}

	switch {
	case apiErr.Timeout:
		WriteError(w, http.StatusGatewayTimeout, apiErr.Message, nil)
	case apiErr.Status >= 400 && apiErr.Status < 500:
		WriteError(w, apiErr.Status, apiErr.Message, apiErr.Fields)
	default:
		WriteError(w, http.StatusBadGateway, apiErr.Message, nil)
	}
}
