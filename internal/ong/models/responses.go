package models

import (
	"time"

	"github.com/google/uuid"
)

// ManagerView is the sanitized projection of the managing user. It has no
// password field at all, so a hash cannot leak by accident.
type ManagerView struct {
	ID        uuid.UUID `json:"id"`
	Nome      string    `json:"nome"`
	Email     string    `json:"email"`
	CPF       string    `json:"cpf"`
	Role      UserRole  `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// RegisteredOng is the composite returned on successful registration: the
// organization with its linked manager and address resolved.
type RegisteredOng struct {
	ID        uuid.UUID   `json:"id"`
	Nome      string      `json:"nome"`
	CNPJ      string      `json:"cnpj"`
	Telefone  string      `json:"telefone,omitempty"`
	Descricao string      `json:"descricao,omitempty"`
	Status    OngStatus   `json:"status"`
	Endereco  Address     `json:"endereco"`
	Gerente   ManagerView `json:"gerente"`
	CreatedAt time.Time   `json:"created_at"`
}

// NewRegisteredOng builds the sanitized composite result. This is the only
// path a registration result takes out of the service, and it drops the
// manager's password hash by construction.
func NewRegisteredOng(o *Ong, manager *User, addr *Address) *RegisteredOng {
	return &RegisteredOng{
		ID:        o.ID,
		Nome:      o.Name,
		CNPJ:      o.CNPJ,
		Telefone:  o.Phone,
		Descricao: o.Description,
		Status:    o.Status,
		Endereco:  *addr,
		Gerente: ManagerView{
			ID:        manager.ID,
			Nome:      manager.Name,
			Email:     manager.Email,
			CPF:       manager.CPF,
			Role:      manager.Role,
			CreatedAt: manager.CreatedAt,
		},
		CreatedAt: o.CreatedAt,
	}
}
