package models

import (
	"time"

	"github.com/google/uuid"

	dErrors "github.com/mtzamorim/apoia/pkg/domain-errors"
)

// OngStatus is the approval state of a registered organization.
type OngStatus string

const (
	// OngStatusPending is assigned to every new registration; an
	// administrator review moves it onward. Registration never sets
	// anything else, regardless of caller input.
	OngStatusPending  OngStatus = "pending"
	OngStatusApproved OngStatus = "approved"
	OngStatusRejected OngStatus = "rejected"
)

// UserRole tags what an account is for.
type UserRole string

// UserRoleOng marks the managing account created alongside an organization.
const UserRoleOng UserRole = "ONG"

// Address is created once per registration and immutable afterwards. Both
// the organization and its managing user reference it by ID.
type Address struct {
	ID           uuid.UUID `json:"id"`
	PostalCode   string    `json:"cep"`
	Street       string    `json:"logradouro"`
	Number       string    `json:"numero"`
	Complement   string    `json:"complemento,omitempty"`
	Neighborhood string    `json:"bairro"`
	City         string    `json:"cidade"`
	State        string    `json:"estado"`
	CreatedAt    time.Time `json:"created_at"`
}

// User is the managing account created exactly once per registration.
// Email is globally unique; the store's constraint is the authoritative
// guard. PasswordHash never serializes — the json tag is a backstop, the
// sanitized response views are the real boundary.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"nome"`
	Email        string    `json:"email"`
	CPF          string    `json:"cpf"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	AddressID    uuid.UUID `json:"id_endereco"`
	CreatedAt    time.Time `json:"created_at"`
}

// Ong is the organization aggregate.
//
// Invariants:
//   - CNPJ is globally unique (store constraint is authoritative)
//   - never persisted without its Address and managing User in the same
//     atomic unit; either all three rows exist or none do
//   - Status starts pending; registration sets nothing else
type Ong struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"nome"`
	CNPJ        string    `json:"cnpj"`
	Phone       string    `json:"telefone,omitempty"`
	Description string    `json:"descricao,omitempty"`
	Status      OngStatus `json:"status"`
	AddressID   uuid.UUID `json:"id_endereco"`
	ManagerID   uuid.UUID `json:"id_gerente"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewOng constructs an organization in the pending state.
func NewOng(id uuid.UUID, name, cnpj, phone, description string, addressID, managerID uuid.UUID, now time.Time) (*Ong, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "ong name cannot be empty")
	}
	if cnpj == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "ong cnpj cannot be empty")
	}
	if addressID == uuid.Nil || managerID == uuid.Nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "ong requires an address and a manager")
	}
	return &Ong{
		ID:          id,
		Name:        name,
		CNPJ:        cnpj,
		Phone:       phone,
		Description: description,
		Status:      OngStatusPending,
		AddressID:   addressID,
		ManagerID:   managerID,
		CreatedAt:   now,
	}, nil
}
