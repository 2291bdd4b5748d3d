package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"

	"github.com/mtzamorim/apoia/internal/ong/models"
	dErrors "github.com/mtzamorim/apoia/pkg/domain-errors"
)

// defaultTxTimeout bounds a registration transaction. The database's own
// timeouts are the outer boundary.
const defaultTxTimeout = 5 * time.Second

// Postgres backs the three collections with PostgreSQL via database/sql.
// The same store types run inside and outside a transaction by querying
// through either *sql.DB or *sql.Tx.
type Postgres struct {
	db      *sql.DB
	timeout time.Duration
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db, timeout: defaultTxTimeout}
}

// Stores returns store views querying the pool directly, for reads outside a
// transaction (the best-effort uniqueness pre-check).
func (p *Postgres) Stores() Stores {
	return newPGStores(p.db)
}

// RunInTx begins a transaction, runs fn against transaction-scoped stores,
// and commits. Any error rolls the whole unit back. A unique-constraint
// violation surfacing at write or commit time is translated into a
// UniqueViolationError naming the offending field.
func (p *Postgres) RunInTx(ctx context.Context, fn func(stores Stores) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := p.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(newPGStores(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return mapPQError(err, "commit tx")
	}
	return nil
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func newPGStores(q querier) Stores {
	return Stores{
		Addresses: pgAddresses{q},
		Users:     pgUsers{q},
		Ongs:      pgOngs{q},
	}
}

type pgAddresses struct{ q querier }

func (a pgAddresses) Create(ctx context.Context, addr *models.Address) error {
	query := `
		INSERT INTO enderecos (id, cep, logradouro, numero, complemento, bairro, cidade, estado, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := a.q.ExecContext(ctx, query,
		addr.ID,
		addr.PostalCode,
		addr.Street,
		addr.Number,
		nullable(addr.Complement),
		addr.Neighborhood,
		addr.City,
		addr.State,
		addr.CreatedAt,
	)
	if err != nil {
		return mapPQError(err, "create address")
	}
	return nil
}

func (a pgAddresses) FindByID(ctx context.Context, id uuid.UUID) (*models.Address, error) {
	query := `
		SELECT id, cep, logradouro, numero, complemento, bairro, cidade, estado, created_at
		FROM enderecos
		WHERE id = $1
	`
	return scanAddress(a.q.QueryRowContext(ctx, query, id))
}

type pgUsers struct{ q querier }

func (u pgUsers) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO usuarios (id, nome, email, cpf, senha_hash, role, id_endereco, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := u.q.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.CPF,
		user.PasswordHash,
		string(user.Role),
		user.AddressID,
		user.CreatedAt,
	)
	if err != nil {
		return mapPQError(err, "create user")
	}
	return nil
}

func (u pgUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := userSelect + ` WHERE email = $1`
	return scanUser(u.q.QueryRowContext(ctx, query, email))
}

func (u pgUsers) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := userSelect + ` WHERE id = $1`
	return scanUser(u.q.QueryRowContext(ctx, query, id))
}

const userSelect = `
	SELECT id, nome, email, cpf, senha_hash, role, id_endereco, created_at
	FROM usuarios`

type pgOngs struct{ q querier }

func (o pgOngs) Create(ctx context.Context, ong *models.Ong) error {
	query := `
		INSERT INTO ongs (id, nome, cnpj, telefone, descricao, status, id_endereco, id_gerente, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := o.q.ExecContext(ctx, query,
		ong.ID,
		ong.Name,
		ong.CNPJ,
		nullable(ong.Phone),
		nullable(ong.Description),
		string(ong.Status),
		ong.AddressID,
		ong.ManagerID,
		ong.CreatedAt,
	)
	if err != nil {
		return mapPQError(err, "create ong")
	}
	return nil
}

func (o pgOngs) FindByCNPJ(ctx context.Context, cnpj string) (*models.Ong, error) {
	query := ongSelect + ` WHERE cnpj = $1`
	return scanOng(o.q.QueryRowContext(ctx, query, cnpj))
}

func (o pgOngs) FindByID(ctx context.Context, id uuid.UUID) (*models.Ong, error) {
	query := ongSelect + ` WHERE id = $1`
	return scanOng(o.q.QueryRowContext(ctx, query, id))
}

const ongSelect = `
	SELECT id, nome, cnpj, telefone, descricao, status, id_endereco, id_gerente, created_at
	FROM ongs`

func scanAddress(row *sql.Row) (*models.Address, error) {
	var addr models.Address
	var complement sql.NullString
	err := row.Scan(
		&addr.ID,
		&addr.PostalCode,
		&addr.Street,
		&addr.Number,
		&complement,
		&addr.Neighborhood,
		&addr.City,
		&addr.State,
		&addr.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan address: %w", err)
	}
	addr.Complement = complement.String
	return &addr, nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	var role string
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.CPF,
		&user.PasswordHash,
		&role,
		&user.AddressID,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	user.Role = models.UserRole(role)
	return &user, nil
}

func scanOng(row *sql.Row) (*models.Ong, error) {
	var ong models.Ong
	var phone, description sql.NullString
	var status string
	err := row.Scan(
		&ong.ID,
		&ong.Name,
		&ong.CNPJ,
		&phone,
		&description,
		&status,
		&ong.AddressID,
		&ong.ManagerID,
		&ong.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan ong: %w", err)
	}
	ong.Phone = phone.String
	ong.Description = description.String
	ong.Status = models.OngStatus(status)
	return &ong, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// mapPQError translates driver errors into the store's stable signals.
// Unique-constraint violations become UniqueViolationError with the
// offending field derived from the constraint name; everything else passes
// through wrapped with the operation for diagnostics.
func mapPQError(err error, op string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pgerrcode.UniqueViolation {
		return &UniqueViolationError{Fields: fieldsFromConstraint(pqErr.Constraint)}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// fieldsFromConstraint recovers column names from postgres default unique
// constraint names, e.g. "usuarios_email_key" -> "email". Unknown shapes
// fall back to the raw constraint name so the signal is never empty.
func fieldsFromConstraint(constraint string) []string {
	name := strings.TrimSuffix(constraint, "_key")
	name = strings.TrimSuffix(name, "_idx")
	for _, table := range []string{"usuarios_", "ongs_", "enderecos_"} {
		if strings.HasPrefix(name, table) {
			return []string{strings.TrimPrefix(name, table)}
		}
	}
	if constraint == "" {
		return []string{"unknown"}
	}
	return []string{constraint}
}

// Migrate creates the schema. The unique constraints here are the
// authoritative guards behind the service's best-effort pre-check; their
// names are what fieldsFromConstraint parses.
func Migrate(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS enderecos (
			id UUID PRIMARY KEY,
			cep TEXT NOT NULL,
			logradouro TEXT NOT NULL,
			numero TEXT NOT NULL,
			complemento TEXT,
			bairro TEXT NOT NULL,
			cidade TEXT NOT NULL,
			estado TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS usuarios (
			id UUID PRIMARY KEY,
			nome TEXT NOT NULL,
			email TEXT NOT NULL,
			cpf TEXT NOT NULL,
			senha_hash TEXT NOT NULL,
			role TEXT NOT NULL,
			id_endereco UUID NOT NULL REFERENCES enderecos (id),
			created_at TIMESTAMPTZ NOT NULL,
			CONSTRAINT usuarios_email_key UNIQUE (email)
		)`,
		`CREATE TABLE IF NOT EXISTS ongs (
			id UUID PRIMARY KEY,
			nome TEXT NOT NULL,
			cnpj TEXT NOT NULL,
			telefone TEXT,
			descricao TEXT,
			status TEXT NOT NULL,
			id_endereco UUID NOT NULL REFERENCES enderecos (id),
			id_gerente UUID NOT NULL REFERENCES usuarios (id),
			created_at TIMESTAMPTZ NOT NULL,
			CONSTRAINT ongs_cnpj_key UNIQUE (cnpj)
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
