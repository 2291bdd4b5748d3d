package service

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mtzamorim/apoia/internal/ong/models"
	dErrors "github.com/mtzamorim/apoia/pkg/domain-errors"
)

// Validation errors are shared values so callers can match them with
// errors.Is. All are client-correctable input errors.
var (
	ErrMissingField = dErrors.New(dErrors.CodeValidation,
		"required fields (nome, email, senha, cnpj, endereco) must all be provided")
	ErrWeakPassword = dErrors.New(dErrors.CodeValidation,
		"password must have at least 8 characters including lowercase, uppercase, digit and special characters")
	ErrInvalidCNPJ = dErrors.New(dErrors.CodeValidation,
		"cnpj must contain exactly 14 digits")
	ErrIncompleteAddress = dErrors.New(dErrors.CodeValidation,
		"address is incomplete: cep, logradouro, numero, bairro, cidade and estado are required")
)

// Conflict errors for the uniqueness pre-check. Email wins the tie-break
// when both collide.
var (
	ErrEmailTaken = dErrors.NewConflict("email")
	ErrCNPJTaken  = dErrors.NewConflict("cnpj")
)

// validateRegistration runs the pure input checks in fail-fast order:
// required fields, then password strength, then cnpj format, then address
// completeness. First violation wins.
func validateRegistration(req *models.RegisterOngRequest) error {
	if req.Nome == "" || req.Email == "" || req.Senha == "" || req.CNPJ == "" || req.Endereco == nil {
		return ErrMissingField
	}
	if !isStrongPassword(req.Senha) {
		return ErrWeakPassword
	}
	if !isValidCNPJ(req.CNPJ) {
		return ErrInvalidCNPJ
	}
	if !isCompleteAddress(req.Endereco) {
		return ErrIncompleteAddress
	}
	return nil
}

// isStrongPassword checks minimum length and the four character classes as
// independent predicates. Anything that is not a letter or digit counts as
// special, underscore included.
func isStrongPassword(password string) bool {
	if utf8.RuneCountInString(password) < 8 {
		return false
	}
	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSpecial
}

// isValidCNPJ is a format check only: strip every non-digit character and
// require exactly 14 digits to remain. It deliberately does not verify the
// CNPJ check digits.
func isValidCNPJ(cnpj string) bool {
	return len(stripNonDigits(cnpj)) == 14
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isCompleteAddress(a *models.AddressInput) bool {
	return a.CEP != "" &&
		a.Logradouro != "" &&
		a.Numero != "" &&
		a.Bairro != "" &&
		a.Cidade != "" &&
		a.Estado != ""
}
