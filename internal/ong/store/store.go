package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/mtzamorim/apoia/internal/ong/models"
)

// Stores are interface-driven to keep the registration logic testable and to
// allow swapping in-memory and postgres persistence without rewiring the
// service.

type AddressStore interface {
	Create(ctx context.Context, addr *models.Address) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Address, error)
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type OngStore interface {
	Create(ctx context.Context, o *models.Ong) error
	FindByCNPJ(ctx context.Context, cnpj string) (*models.Ong, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Ong, error)
}

// Stores bundles the three collections one registration touches.
type Stores struct {
	Addresses AddressStore
	Users     UserStore
	Ongs      OngStore
}

// Tx is the "run atomically" boundary. Implementations may wrap a database
// transaction or, in-memory, a coarse lock with snapshot rollback. The fn
// receives transaction-scoped stores; writes become visible together on
// commit or not at all.
type Tx interface {
	RunInTx(ctx context.Context, fn func(stores Stores) error) error
}
