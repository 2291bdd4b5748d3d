package models

import "strings"

// AddressInput is the inbound address object. All fields except Complemento
// are required; completeness is checked by the registration validator.
type AddressInput struct {
	CEP         string `json:"cep"`
	Logradouro  string `json:"logradouro"`
	Numero      string `json:"numero"`
	Complemento string `json:"complemento"`
	Bairro      string `json:"bairro"`
	Cidade      string `json:"cidade"`
	Estado      string `json:"estado"`
}

// RegisterOngRequest is the inbound registration payload. Wire keys follow
// the public API contract (Portuguese field names).
type RegisterOngRequest struct {
	Nome      string        `json:"nome"`
	Email     string        `json:"email"`
	Senha     string        `json:"senha"`
	CNPJ      string        `json:"cnpj"`
	Telefone  string        `json:"telefone"`
	Descricao string        `json:"descricao"`
	Endereco  *AddressInput `json:"endereco"`
}

// Normalize trims surrounding whitespace from all string fields before
// validation. The password is left untouched: whitespace may be deliberate.
func (r *RegisterOngRequest) Normalize() {
	r.Nome = strings.TrimSpace(r.Nome)
	r.Email = strings.TrimSpace(r.Email)
	r.CNPJ = strings.TrimSpace(r.CNPJ)
	r.Telefone = strings.TrimSpace(r.Telefone)
	r.Descricao = strings.TrimSpace(r.Descricao)
	if r.Endereco != nil {
		r.Endereco.CEP = strings.TrimSpace(r.Endereco.CEP)
		r.Endereco.Logradouro = strings.TrimSpace(r.Endereco.Logradouro)
		r.Endereco.Numero = strings.TrimSpace(r.Endereco.Numero)
		r.Endereco.Complemento = strings.TrimSpace(r.Endereco.Complemento)
		r.Endereco.Bairro = strings.TrimSpace(r.Endereco.Bairro)
		r.Endereco.Cidade = strings.TrimSpace(r.Endereco.Cidade)
		r.Endereco.Estado = strings.TrimSpace(r.Endereco.Estado)
	}
}
