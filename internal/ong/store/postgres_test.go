package store

import (
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldsFromConstraint(t *testing.T) {
	tests := []struct {
		constraint string
		want       []string
	}{
		{"usuarios_email_key", []string{"email"}},
		{"ongs_cnpj_key", []string{"cnpj"}},
		{"ongs_cnpj_idx", []string{"cnpj"}},
		{"enderecos_cep_key", []string{"cep"}},
		{"some_custom_constraint", []string{"some_custom_constraint"}},
		{"", []string{"unknown"}},
	}
	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			assert.Equal(t, tt.want, fieldsFromConstraint(tt.constraint))
		})
	}
}

func TestMapPQError(t *testing.T) {
	t.Run("unique violation becomes conflict signal with field", func(t *testing.T) {
		err := mapPQError(&pq.Error{Code: "23505", Constraint: "usuarios_email_key"}, "create user")

		var uv *UniqueViolationError
		require.ErrorAs(t, err, &uv)
		assert.Equal(t, []string{"email"}, uv.Fields)
	})

	t.Run("other pq errors pass through wrapped", func(t *testing.T) {
		orig := &pq.Error{Code: "23503", Constraint: "ongs_id_endereco_fkey"}
		err := mapPQError(orig, "create ong")

		var uv *UniqueViolationError
		assert.False(t, errors.As(err, &uv))
		assert.ErrorIs(t, err, orig)
		assert.Contains(t, err.Error(), "create ong")
	})

	t.Run("non-driver errors pass through wrapped", func(t *testing.T) {
		orig := errors.New("connection refused")
		err := mapPQError(orig, "commit tx")
		assert.ErrorIs(t, err, orig)
	})
}
