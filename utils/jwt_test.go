package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	auth := NewTokenAuthenticator("secret")

	token, err := auth.GenerateToken("staff-1", "desk@example.com", time.Hour)
	require.NoError(t, err)
	id, err := auth.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, "staff-1", id)

	legacy := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  "staff-2",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := legacy.SignedString([]byte("secret"))
	require.NoError(t, err)
	id, err = auth.Authenticate(signed)
	require.NoError(t, err)
	assert.Equal(t, "staff-2", id)
}

func TestAuthenticate_Rejects(t *testing.T) {
	auth := NewTokenAuthenticator("secret")

	expired, err := auth.GenerateToken("staff-1", "", -time.Minute)
	require.NoError(t, err)
	other, err := NewTokenAuthenticator("other").GenerateToken("staff-1", "", time.Hour)
	require.NoError(t, err)
	noSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	noSubjectSigned, err := noSubject.SignedString([]byte("secret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":    expired,
		"wrong key":  other,
		"no subject": noSubjectSigned,
		"garbage":    "not-a-token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := auth.Authenticate(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
