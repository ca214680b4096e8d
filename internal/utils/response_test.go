package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/dto"
)

func TestWriteTextResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteTextResponse(rec, http.StatusOK, "Proyecto creado correctamente")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "Proyecto creado correctamente", rec.Body.String())
}

func TestWriteErrorResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteErrorResponse(rec, http.StatusNotFound, "Token no válido")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Token no válido"}`, rec.Body.String())
}

func TestDecodeJSONRequest(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantOK     bool
		wantStatus int
		wantBody   string
	}{
		{
			name:   "valid",
			body:   `{"email":"ana@example.com"}`,
			wantOK: true,
		},
		{
			name:       "malformed json",
			body:       `{"email":`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Petición no válida"}`,
		},
		{
			name:       "invalid email",
			body:       `{"email":"ana"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"errors":[{"field":"email","msg":"E-mail no válido"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			var dst dto.EmailRequest
			ok := DecodeJSONRequest(rec, req, &dst)

			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, "ana@example.com", dst.Email)
				return
			}
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}
