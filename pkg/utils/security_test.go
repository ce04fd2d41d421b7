package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)

	assert.True(t, VerifyPassword("s3cret!", hash))
	assert.False(t, VerifyPassword("wrong", hash))
}

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken(42, "secret", "conduit", time.Now())
	require.NoError(t, err)

	claims, err := ParseToken(token, "secret", "conduit")
	require.NoError(t, err)
	assert.Equal(t, "conduit", claims.Issuer)
	assert.Equal(t, "42", claims.Subject)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	assert.WithinDuration(t, claims.IssuedAt.Add(TokenTTL), claims.ExpiresAt.Time, time.Second)
}

func TestParseToken_Rejects(t *testing.T) {
	valid, err := GenerateToken(1, "secret", "conduit", time.Now())
	require.NoError(t, err)

	expired, err := GenerateToken(1, "secret", "conduit", time.Now().Add(-48*time.Hour))
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "1",
		Issuer:  "conduit",
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	cases := []struct {
		name   string
		token  string
		secret string
		issuer string
		want   error
	}{
		{"wrong secret", valid, "other", "conduit", ErrInvalidToken},
		{"wrong issuer", valid, "secret", "someone-else", ErrInvalidToken},
		{"malformed", "not-a-token", "secret", "conduit", ErrInvalidToken},
		{"expired", expired, "secret", "conduit", ErrExpiredToken},
		{"missing exp", noExp, "secret", "conduit", ErrInvalidToken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseToken(tc.token, tc.secret, tc.issuer)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestClaimsUserID_BadSubject(t *testing.T) {
	c := &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "abc"}}
	_, err := c.UserID()
	assert.ErrorIs(t, err, ErrInvalidToken)
}
