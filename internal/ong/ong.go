// Package ong is the organization-registration feature: validation,
// uniqueness checks, credential hashing and the atomic creation of address,
// managing user and organization.
package ong

import (
	"log/slog"

	"github.com/mtzamorim/apoia/internal/ong/handler"
	"github.com/mtzamorim/apoia/internal/ong/service"
	"github.com/mtzamorim/apoia/internal/ong/store"
)

// Service exposes the registration orchestration.
type Service = service.Service

// Handler wires HTTP endpoints to the registration service.
type Handler = handler.Handler

// NewService constructs the registration service with required dependencies.
func NewService(stores store.Stores, tx store.Tx, opts ...service.Option) *Service {
	return service.New(stores, tx, opts...)
}

// NewHandler constructs the HTTP handler for public registration routes.
func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}
