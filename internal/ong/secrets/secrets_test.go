package secrets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "github.com/mtzamorim/apoia/pkg/domain-errors"
)

func TestHashAndVerify(t *testing.T) {
	hasher := BcryptHasher{}

	hash, err := hasher.Hash("Abc12345!")
	require.NoError(t, err)
	assert.NotEqual(t, "Abc12345!", hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))

	assert.NoError(t, hasher.Verify("Abc12345!", hash))

	err = hasher.Verify("wrong-password", hash)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestHash_SamePasswordDifferentHashes(t *testing.T) {
	hasher := BcryptHasher{}

	first, err := hasher.Hash("Abc12345!")
	require.NoError(t, err)
	second, err := hasher.Hash("Abc12345!")
	require.NoError(t, err)

	// Each hash carries its own salt.
	assert.NotEqual(t, first, second)
}

func TestHash_RejectsEmptyPassword(t *testing.T) {
	_, err := BcryptHasher{}.Hash("")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestHash_RejectsOverlongPassword(t *testing.T) {
	// bcrypt only considers the first 72 bytes.
	_, err := BcryptHasher{}.Hash(strings.Repeat("a", 73))
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}
