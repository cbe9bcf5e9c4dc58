package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"groupchat/internal/apperrors"
	"groupchat/internal/models"
)

func TestAuthService_IssueVerify(t *testing.T) {
	req := require.New(t)
	auth := NewAuthService("s3cret", time.Hour)

	tok, err := auth.Issue("u1", "Ann")
	req.NoError(err)

	id, err := auth.Verify(tok)
	req.NoError(err)
	req.Equal(models.Identity{UserID: "u1", Name: "Ann"}, *id)
}

func TestAuthService_VerifyRejects(t *testing.T) {
	auth := NewAuthService("s3cret", time.Hour)
	other, err := NewAuthService("different", time.Hour).Issue("u1", "Ann")
	require.NoError(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	expiredTok, err := expired.SignedString([]byte("s3cret"))
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "u1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{Name: "Ann"}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	t.Run("empty", func(t *testing.T) {
		_, err := auth.Verify("")
		require.ErrorIs(t, err, apperrors.ErrAuthRequired)
	})
	for name, tok := range map[string]string{
		"garbage":      "abc.def.ghi",
		"wrong secret": other,
		"expired":      expiredTok,
		"alg none":     unsigned,
		"no user id":   noUser,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := auth.Verify(tok)
			require.ErrorIs(t, err, apperrors.ErrInvalidToken)
		})
	}
}

func TestAuthService_ZeroTTLHasNoExpiry(t *testing.T) {
	req := require.New(t)
	auth := NewAuthService("s3cret", 0)
	tok, err := auth.Issue("u1", "Ann")
	req.NoError(err)

	claims := &Claims{}
	_, _, err = jwt.NewParser().ParseUnverified(tok, claims)
	req.NoError(err)
	req.Nil(claims.ExpiresAt)
	req.NotNil(claims.IssuedAt)
}

func TestAuthService_Passwords(t *testing.T) {
	req := require.New(t)
	auth := NewAuthService("s3cret", 0)
	hash, err := auth.HashPassword("hunter2")
	req.NoError(err)
	req.NotEqual("hunter2", hash)
	req.NoError(auth.ComparePassword(hash, "hunter2"))
	req.Error(auth.ComparePassword(hash, "hunter3"))
}
