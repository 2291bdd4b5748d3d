package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mtzamorim/apoia/internal/ong/models"
	dErrors "github.com/mtzamorim/apoia/pkg/domain-errors"
	"github.com/mtzamorim/apoia/pkg/requestcontext"
)

// RegistrationService is the slice of the ong service the handler needs.
type RegistrationService interface {
	Register(ctx context.Context, req *models.RegisterOngRequest) (*models.RegisteredOng, error)
}

// Handler is the thin HTTP layer for organization registration. It delegates
// to the service without embedding business logic so transport concerns stay
// isolated.
type Handler struct {
	svc    RegistrationService
	logger *slog.Logger
}

func New(svc RegistrationService, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Register mounts the public registration routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/ongs", h.handleRegister)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterOngRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	result, err := h.svc.Register(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{
		Success: true,
		Message: "ong registered successfully, awaiting administrator review",
		Data:    result,
	})
}

type registerResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    *models.RegisteredOng `json:"data"`
}

type errorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

// writeError is the single choke point translating domain error codes into
// HTTP responses. Internal detail never crosses the boundary; it is already
// logged server-side by the service.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := dErrors.GetCode(err)
	status := statusFromCode(code)

	message := "an internal error occurred, please try again"
	var fields []string
	var de *dErrors.Error
	if status != http.StatusInternalServerError && errors.As(err, &de) {
		message = de.Message
		fields = de.Fields
	}

	if status == http.StatusInternalServerError && h.logger != nil {
		h.logger.ErrorContext(r.Context(), "request failed",
			"error", err,
			"path", r.URL.Path,
			"request_id", requestcontext.RequestID(r.Context()),
		)
	}

	writeJSON(w, status, errorResponse{Error: message, Fields: fields})
}

func statusFromCode(code dErrors.Code) int {
	switch code {
	case dErrors.CodeValidation:
		return http.StatusBadRequest
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	default:
		// Timeouts and internal failures both surface as 500; the caller
		// cannot correct either.
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
