package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saulo-duarte/proposals-lambda/internal/auth"
)

const testSecret = "uma-chave-secreta-para-testes-segura-e-longa"
const testUserID = "6f1c2a8e-3a8b-4c55-9d0b-0c9a7d3e2f10"
const testRole = "admin"

func TestInit(t *testing.T) {
	t.Run("MissingSecret", func(t *testing.T) {
		assert.Panics(t, func() { auth.Init("") })
	})

	t.Run("ValidSecret", func(t *testing.T) {
		assert.NotPanics(t, func() { auth.Init(testSecret) })
	})

	t.Run("IgnoresEnvironment", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "some-other-secret")
		auth.Init(testSecret)

		token, err := auth.GenerateJWT(testUserID, testRole, time.Minute)
		require.NoError(t, err)

		parsed, err := jwt.ParseWithClaims(token, &auth.Claims{}, func(*jwt.Token) (interface{}, error) {
			return []byte(testSecret), nil
		})
		require.NoError(t, err)
		assert.True(t, parsed.Valid)
	})
}

func TestGenerateAndValidateJWT(t *testing.T) {
	auth.Init(testSecret)

	t.Run("ValidToken", func(t *testing.T) {
		tokenStr, err := auth.GenerateJWT(testUserID, testRole, 5*time.Minute)
		require.NoError(t, err)

		claims, err := auth.ValidateJWT(tokenStr)
		require.NoError(t, err)
		assert.Equal(t, testUserID, claims.UserID)
		assert.Equal(t, testRole, claims.Role)
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		tokenStr, err := auth.GenerateJWT(testUserID, testRole, -time.Minute)
		require.NoError(t, err)

		_, err = auth.ValidateJWT(tokenStr)
		require.Error(t, err)
		assert.True(t, errors.Is(err, jwt.ErrTokenExpired), "unexpected error: %v", err)
	})

	t.Run("InvalidSignature", func(t *testing.T) {
		forged := jwt.NewWithClaims(jwt.SigningMethodHS256, &auth.Claims{
			UserID: testUserID,
			Role:   testRole,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			},
		})
		tokenStr, err := forged.SignedString([]byte("chave-secreta-falsa-diferente"))
		require.NoError(t, err)

		_, err = auth.ValidateJWT(tokenStr)
		require.Error(t, err)
		assert.True(t, errors.Is(err, jwt.ErrTokenSignatureInvalid), "unexpected error: %v", err)
	})

	t.Run("MissingUserID", func(t *testing.T) {
		tokenStr, err := auth.GenerateJWT("", testRole, time.Minute)
		require.NoError(t, err)

		_, err = auth.ValidateJWT(tokenStr)
		assert.ErrorIs(t, err, jwt.ErrTokenInvalidClaims)
	})
}
