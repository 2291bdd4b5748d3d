package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtzamorim/apoia/internal/ong/models"
	"github.com/mtzamorim/apoia/internal/ong/service"
	"github.com/mtzamorim/apoia/internal/ong/store"
	"github.com/mtzamorim/apoia/internal/platform/middleware"
	dErrors "github.com/mtzamorim/apoia/pkg/domain-errors"
)

func newRouter(svc RegistrationService) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	r.Use(middleware.RequestMeta)
	New(svc, logger).Register(r)
	return r
}

func newMemoryRouter() http.Handler {
	mem := store.NewInMemory()
	return newRouter(service.New(mem.Stores(), mem))
}

func validPayload() map[string]any {
	return map[string]any{
		"nome":  "Ajuda Já",
		"email": "a@a.com",
		"senha": "Abc12345!",
		"cnpj":  "12.345.678/0001-95",
		"endereco": map[string]any{
			"cep":        "00000-000",
			"logradouro": "Rua X",
			"numero":     "1",
			"bairro":     "Centro",
			"cidade":     "Cidade",
			"estado":     "UF",
		},
	}
}

func postOng(t *testing.T, router http.Handler, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/ongs", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRegisterOng_Created(t *testing.T) {
	router := newMemoryRouter()
	rec := postOng(t, router, validPayload())
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Data    struct {
			Status  string `json:"status"`
			Gerente struct {
				Role  string `json:"role"`
				Email string `json:"email"`
			} `json:"gerente"`
			Endereco struct {
				CEP string `json:"cep"`
			} `json:"endereco"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "pending", resp.Data.Status)
	assert.Equal(t, "ONG", resp.Data.Gerente.Role)
	assert.Equal(t, "a@a.com", resp.Data.Gerente.Email)
	assert.Equal(t, "00000-000", resp.Data.Endereco.CEP)
}

// The success payload must not carry the password in any form.
func TestRegisterOng_ResponseOmitsPassword(t *testing.T) {
	router := newMemoryRouter()
	rec := postOng(t, router, validPayload())
	require.Equal(t, http.StatusCreated, rec.Code)

	body := rec.Body.String()
	assert.NotContains(t, body, "senha")
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "Abc12345!")
	assert.NotContains(t, body, "$2a$")
}

func TestRegisterOng_BadRequest(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{"missing email", func(p map[string]any) { delete(p, "email") }},
		{"weak password", func(p map[string]any) { p["senha"] = "weak" }},
		{"malformed cnpj", func(p map[string]any) { p["cnpj"] = "123" }},
		{"incomplete address", func(p map[string]any) {
			p["endereco"].(map[string]any)["estado"] = ""
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newMemoryRouter()
			payload := validPayload()
			tt.mutate(payload)

			rec := postOng(t, router, payload)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp struct {
				Error string `json:"error"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestRegisterOng_MalformedBody(t *testing.T) {
	router := newMemoryRouter()
	req := httptest.NewRequest(http.MethodPost, "/ongs", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterOng_Conflict(t *testing.T) {
	router := newMemoryRouter()

	rec := postOng(t, router, validPayload())
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postOng(t, router, validPayload())
	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp struct {
		Error  string   `json:"error"`
		Fields []string `json:"fields"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, []string{"email"}, resp.Fields)
}

type stubService struct {
	err error
}

func (s stubService) Register(context.Context, *models.RegisterOngRequest) (*models.RegisteredOng, error) {
	return nil, s.err
}

func TestRegisterOng_CommitTimeConflict(t *testing.T) {
	router := newRouter(stubService{err: dErrors.NewConflict("cnpj")})
	rec := postOng(t, router, validPayload())
	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp struct {
		Fields []string `json:"fields"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, []string{"cnpj"}, resp.Fields)
}

// Internal failures expose only a generic message to the caller.
func TestRegisterOng_InternalErrorIsGeneric(t *testing.T) {
	cause := errors.New("pq: connection refused at 10.0.0.7")
	router := newRouter(stubService{err: dErrors.Wrap(cause, dErrors.CodeInternal, "failed to register ong")})

	rec := postOng(t, router, validPayload())
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.7")
	assert.NotContains(t, rec.Body.String(), "connection refused")
}
