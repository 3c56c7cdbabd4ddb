package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken(42, "owner")
	assert.NoError(t, err)

	claims, err := ParseToken(token)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "owner", claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)

	refresh, err := GenerateRefreshToken(42, "owner")
	assert.NoError(t, err)

	claims, err = ParseToken(refresh)
	assert.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)

	_, err = ParseToken("not.a.token")
	assert.Error(t, err)
}

func TestRevokedTokenIsRejected(t *testing.T) {
	token, err := GenerateToken(7, "diner")
	assert.NoError(t, err)

	_, err = ParseToken(token)
	assert.NoError(t, err)

	RevokeToken(token)
	assert.True(t, IsTokenRevoked(token))

	_, err = ParseToken(token)
	assert.Error(t, err)
}
