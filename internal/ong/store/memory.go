package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/mtzamorim/apoia/internal/ong/models"
	dErrors "github.com/mtzamorim/apoia/pkg/domain-errors"
)

// InMemory holds all three collections behind one lock so a transaction can
// snapshot and restore the whole state. Suitable for tests and local runs;
// postgres is the production implementation.
type InMemory struct {
	mu    sync.RWMutex
	state *memState
}

type memState struct {
	addresses    map[uuid.UUID]*models.Address
	users        map[uuid.UUID]*models.User
	usersByEmail map[string]uuid.UUID
	ongs         map[uuid.UUID]*models.Ong
	ongsByCNPJ   map[string]uuid.UUID
}

func newMemState() *memState {
	return &memState{
		addresses:    make(map[uuid.UUID]*models.Address),
		users:        make(map[uuid.UUID]*models.User),
		usersByEmail: make(map[string]uuid.UUID),
		ongs:         make(map[uuid.UUID]*models.Ong),
		ongsByCNPJ:   make(map[string]uuid.UUID),
	}
}

// clone shallow-copies the maps. Entities are immutable after creation, so
// sharing the values between snapshots is safe.
func (s *memState) clone() *memState {
	c := newMemState()
	for k, v := range s.addresses {
		c.addresses[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.usersByEmail {
		c.usersByEmail[k] = v
	}
	for k, v := range s.ongs {
		c.ongs[k] = v
	}
	for k, v := range s.ongsByCNPJ {
		c.ongsByCNPJ[k] = v
	}
	return c
}

func NewInMemory() *InMemory {
	return &InMemory{state: newMemState()}
}

// Stores returns lock-taking store views for use outside a transaction.
func (m *InMemory) Stores() Stores {
	return Stores{
		Addresses: memAddresses{m},
		Users:     memUsers{m},
		Ongs:      memOngs{m},
	}
}

// RunInTx runs fn against transaction-scoped stores under the global lock.
// On error the pre-transaction snapshot is restored, so partial writes are
// never observable.
func (m *InMemory) RunInTx(ctx context.Context, fn func(stores Stores) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	snapshot := m.state.clone()
	stores := Stores{
		Addresses: stateAddresses{m.state},
		Users:     stateUsers{m.state},
		Ongs:      stateOngs{m.state},
	}
	if err := fn(stores); err != nil {
		m.state = snapshot
		return err
	}
	return nil
}

// --- transaction-scoped stores (caller holds the lock) ---

type stateAddresses struct{ s *memState }

func (a stateAddresses) Create(_ context.Context, addr *models.Address) error {
	a.s.addresses[addr.ID] = addr
	return nil
}

func (a stateAddresses) FindByID(_ context.Context, id uuid.UUID) (*models.Address, error) {
	addr, ok := a.s.addresses[id]
	if !ok {
		return nil, ErrNotFound
	}
	return addr, nil
}

type stateUsers struct{ s *memState }

func (u stateUsers) Create(_ context.Context, user *models.User) error {
	if _, taken := u.s.usersByEmail[user.Email]; taken {
		return &UniqueViolationError{Fields: []string{"email"}}
	}
	u.s.users[user.ID] = user
	u.s.usersByEmail[user.Email] = user.ID
	return nil
}

func (u stateUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	id, ok := u.s.usersByEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return u.s.users[id], nil
}

func (u stateUsers) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := u.s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return user, nil
}

type stateOngs struct{ s *memState }

func (o stateOngs) Create(_ context.Context, ong *models.Ong) error {
	if _, taken := o.s.ongsByCNPJ[ong.CNPJ]; taken {
		return &UniqueViolationError{Fields: []string{"cnpj"}}
	}
	o.s.ongs[ong.ID] = ong
	o.s.ongsByCNPJ[ong.CNPJ] = ong.ID
	return nil
}

func (o stateOngs) FindByCNPJ(_ context.Context, cnpj string) (*models.Ong, error) {
	id, ok := o.s.ongsByCNPJ[cnpj]
	if !ok {
		return nil, ErrNotFound
	}
	return o.s.ongs[id], nil
}

func (o stateOngs) FindByID(_ context.Context, id uuid.UUID) (*models.Ong, error) {
	ong, ok := o.s.ongs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return ong, nil
}

// --- lock-taking views for use outside a transaction ---

type memAddresses struct{ m *InMemory }

func (a memAddresses) Create(ctx context.Context, addr *models.Address) error {
	a.m.mu.Lock()
	defer a.m.mu.Unlock()
	return stateAddresses{a.m.state}.Create(ctx, addr)
}

func (a memAddresses) FindByID(ctx context.Context, id uuid.UUID) (*models.Address, error) {
	a.m.mu.RLock()
	defer a.m.mu.RUnlock()
	return stateAddresses{a.m.state}.FindByID(ctx, id)
}

type memUsers struct{ m *InMemory }

func (u memUsers) Create(ctx context.Context, user *models.User) error {
	u.m.mu.Lock()
	defer u.m.mu.Unlock()
	return stateUsers{u.m.state}.Create(ctx, user)
}

func (u memUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	u.m.mu.RLock()
	defer u.m.mu.RUnlock()
	return stateUsers{u.m.state}.FindByEmail(ctx, email)
}

func (u memUsers) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u.m.mu.RLock()
	defer u.m.mu.RUnlock()
	return stateUsers{u.m.state}.FindByID(ctx, id)
}

type memOngs struct{ m *InMemory }

func (o memOngs) Create(ctx context.Context, ong *models.Ong) error {
	o.m.mu.Lock()
	defer o.m.mu.Unlock()
	return stateOngs{o.m.state}.Create(ctx, ong)
}

func (o memOngs) FindByCNPJ(ctx context.Context, cnpj string) (*models.Ong, error) {
	o.m.mu.RLock()
	defer o.m.mu.RUnlock()
	return stateOngs{o.m.state}.FindByCNPJ(ctx, cnpj)
}

func (o memOngs) FindByID(ctx context.Context, id uuid.UUID) (*models.Ong, error) {
	o.m.mu.RLock()
	defer o.m.mu.RUnlock()
	return stateOngs{o.m.state}.FindByID(ctx, id)
}
