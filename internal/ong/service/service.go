package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/mtzamorim/apoia/internal/audit"
	ongmetrics "github.com/mtzamorim/apoia/internal/ong/metrics"
	"github.com/mtzamorim/apoia/internal/ong/models"
	"github.com/mtzamorim/apoia/internal/ong/secrets"
	"github.com/mtzamorim/apoia/internal/ong/store"
	dErrors "github.com/mtzamorim/apoia/pkg/domain-errors"
	"github.com/mtzamorim/apoia/pkg/requestcontext"
)

// PasswordHasher is the one-way hashing primitive. The service treats the
// hash as opaque; a failure here is fatal to the request.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// AuditPublisher captures registration events for the audit trail.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates organization registration: validation, uniqueness
// pre-check, credential hashing and the atomic three-record creation. One
// instance is safe for concurrent use; it holds no per-request state.
type Service struct {
	stores         store.Stores
	tx             store.Tx
	hasher         PasswordHasher
	logger         *slog.Logger
	metrics        *ongmetrics.Metrics
	auditPublisher AuditPublisher
	tracer         trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *ongmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.auditPublisher = publisher }
}

// WithHasher overrides the bcrypt default. Used by tests.
func WithHasher(h PasswordHasher) Option {
	return func(s *Service) { s.hasher = h }
}

// New constructs a Service. stores are the non-transactional views used for
// the uniqueness pre-check; tx is the atomic boundary for creation.
func New(stores store.Stores, tx store.Tx, opts ...Option) *Service {
	s := &Service{
		stores: stores,
		tx:     tx,
		hasher: secrets.BcryptHasher{},
		tracer: otel.Tracer("apoia/ong"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register runs the full workflow: validate, pre-check uniqueness, hash the
// password, then create address, manager user and organization in one atomic
// unit. Either all three records become visible or none do. The returned
// composite is sanitized; it carries no password hash.
func (s *Service) Register(ctx context.Context, req *models.RegisterOngRequest) (*models.RegisteredOng, error) {
	ctx, span := s.tracer.Start(ctx, "ong.Register")
	defer span.End()

	start := time.Now()
	defer s.observeDuration(start)

	req.Normalize()
	if err := validateRegistration(req); err != nil {
		return nil, err
	}

	if err := s.checkUniqueness(ctx, req.Email, req.CNPJ); err != nil {
		if fields := dErrors.ConflictFields(err); len(fields) > 0 {
			s.incrementConflict(fields...)
		}
		return nil, err
	}

	hashed, err := s.hasher.Hash(req.Senha)
	if err != nil {
		s.logError(ctx, "password hashing failed", err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	now := requestcontext.Now(ctx)
	var result *models.RegisteredOng
	err = s.tx.RunInTx(ctx, func(st store.Stores) error {
		addr := &models.Address{
			ID:           uuid.New(),
			PostalCode:   req.Endereco.CEP,
			Street:       req.Endereco.Logradouro,
			Number:       req.Endereco.Numero,
			Complement:   req.Endereco.Complemento,
			Neighborhood: req.Endereco.Bairro,
			City:         req.Endereco.Cidade,
			State:        req.Endereco.Estado,
			CreatedAt:    now,
		}
		if err := st.Addresses.Create(ctx, addr); err != nil {
			return err
		}

		manager := &models.User{
			ID:           uuid.New(),
			Name:         req.Nome,
			Email:        req.Email,
			CPF:          req.CNPJ,
			PasswordHash: hashed,
			Role:         models.UserRoleOng,
			AddressID:    addr.ID,
			CreatedAt:    now,
		}
		if err := st.Users.Create(ctx, manager); err != nil {
			return err
		}

		o, err := models.NewOng(uuid.New(), req.Nome, req.CNPJ, req.Telefone, req.Descricao, addr.ID, manager.ID, now)
		if err != nil {
			return err
		}
		if err := st.Ongs.Create(ctx, o); err != nil {
			return err
		}

		result = models.NewRegisteredOng(o, manager, addr)
		return nil
	})
	if err != nil {
		return nil, s.mapStoreErr(ctx, err)
	}

	s.incrementRegistered()
	s.emitRegistered(ctx, result)
	s.logInfo(ctx, "ong registered", "ong_id", result.ID, "status", result.Status)
	return result, nil
}

// checkUniqueness runs the two lookups concurrently; neither depends on the
// other. This is a best-effort pre-check — the store's unique constraints
// remain the authoritative guard at commit time.
func (s *Service) checkUniqueness(ctx context.Context, email, cnpj string) error {
	var emailTaken, cnpjTaken bool

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := s.stores.Users.FindByEmail(gctx, email)
		switch {
		case err == nil:
			emailTaken = true
			return nil
		case errors.Is(err, store.ErrNotFound):
			return nil
		default:
			return err
		}
	})
	g.Go(func() error {
		_, err := s.stores.Ongs.FindByCNPJ(gctx, cnpj)
		switch {
		case err == nil:
			cnpjTaken = true
			return nil
		case errors.Is(err, store.ErrNotFound):
			return nil
		default:
			return err
		}
	})
	if err := g.Wait(); err != nil {
		s.logError(ctx, "uniqueness pre-check failed", err)
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check uniqueness")
	}

	// Email is checked first: it wins the tie-break when both collide.
	if emailTaken {
		return ErrEmailTaken
	}
	if cnpjTaken {
		return ErrCNPJTaken
	}
	return nil
}

// mapStoreErr translates transaction failures into the domain taxonomy. A
// unique violation at commit is the race the pre-check cannot close, so it
// maps to a conflict naming the field rather than an internal error. Full
// detail stays in the server log; the caller sees the category only.
func (s *Service) mapStoreErr(ctx context.Context, err error) error {
	var uv *store.UniqueViolationError
	if errors.As(err, &uv) {
		s.incrementConflict(uv.Fields...)
		s.logInfo(ctx, "registration lost uniqueness race", "fields", uv.Fields)
		return dErrors.NewConflict(uv.Fields...)
	}
	if dErrors.HasCode(err, dErrors.CodeTimeout) {
		s.logError(ctx, "registration transaction timed out", err)
		return err
	}
	s.logError(ctx, "registration transaction failed", err)
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to register ong")
}

func (s *Service) emitRegistered(ctx context.Context, result *models.RegisteredOng) {
	if s.auditPublisher == nil {
		return
	}
	err := s.auditPublisher.Emit(ctx, audit.Event{
		Action:    audit.ActionOngRegistered,
		Subject:   result.ID.String(),
		Actor:     result.Gerente.Email,
		RequestID: requestcontext.RequestID(ctx),
	})
	if err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "error", err)
	}
}

func (s *Service) incrementRegistered() {
	if s.metrics != nil {
		s.metrics.IncrementRegistered()
	}
}

func (s *Service) incrementConflict(fields ...string) {
	if s.metrics == nil {
		return
	}
	for _, field := range fields {
		s.metrics.IncrementConflict(field)
	}
}

func (s *Service) observeDuration(start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveRegisterDuration(start)
	}
}

func (s *Service) logInfo(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		args = append(args, "request_id", requestcontext.RequestID(ctx))
		s.logger.InfoContext(ctx, msg, args...)
	}
}

func (s *Service) logError(ctx context.Context, msg string, err error, args ...any) {
	if s.logger != nil {
		args = append(args, "error", err, "request_id", requestcontext.RequestID(ctx))
		s.logger.ErrorContext(ctx, msg, args...)
	}
}
