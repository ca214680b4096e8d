package utils

import (
	"encoding/json"
	"net/http"

	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/dto"
)

const maxBodyBytes = 1 << 20

// WriteJSONResponse writes a JSON response to the HTTP response writer
func WriteJSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// WriteErrorResponse writes {"error": message}
func WriteErrorResponse(w http.ResponseWriter, status int, message string) {
	WriteJSONResponse(w, status, dto.ErrorResponse{Error: message})
}

// WriteTextResponse writes a plain text body
func WriteTextResponse(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(text))
}

// WriteValidationErrors writes a 400 with one entry per failed field
func WriteValidationErrors(w http.ResponseWriter, errs []dto.FieldError) {
	WriteJSONResponse(w, http.StatusBadRequest, dto.ValidationErrorResponse{Errors: errs})
}

// DecodeJSONRequest decodes the body into dst and validates it. On failure it
// writes a 400 response and returns false.
func DecodeJSONRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "Petición no válida")
		return false
	}

	if err := Validate(dst); err != nil {
		if errs := FormatValidationError(err); len(errs) > 0 {
			WriteValidationErrors(w, errs)
		} else {
			WriteErrorResponse(w, http.StatusBadRequest, "Petición no válida")
		}
		return false
	}

	return true
}
