package ds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetPassword(t *testing.T) {
	var u User
	require.NoError(t, u.SetPassword("s3cret-phrase"))

	// jamais le mot de passe en clair
	assert.NotEqual(t, "s3cret-phrase", u.PasswordHash)
	assert.NotContains(t, u.PasswordHash, "s3cret-phrase")
	assert.NotEmpty(t, u.PasswordHash)
}

func TestCheckPassword(t *testing.T) {
	var u User
	require.NoError(t, u.SetPassword("s3cret-phrase"))

	assert.True(t, u.CheckPassword("s3cret-phrase"))

	// toute mutation d'un caractère doit échouer
	assert.False(t, u.CheckPassword("s3cret-phrasE"))
	assert.False(t, u.CheckPassword("S3cret-phrase"))
	assert.False(t, u.CheckPassword("s3cret-phras"))
	assert.False(t, u.CheckPassword(""))
}

func TestSetPasswordSalted(t *testing.T) {
	var a, b User
	require.NoError(t, a.SetPassword("same-password"))
	require.NoError(t, b.SetPassword("same-password"))

	// sel aléatoire : deux hashes différents pour le même mot de passe
	assert.NotEqual(t, a.PasswordHash, b.PasswordHash)
	assert.True(t, a.CheckPassword("same-password"))
	assert.True(t, b.CheckPassword("same-password"))
}
