package service

import (
	"testing"
	"time"

	"github.com/v-wei40680/mcp-linker/backend/common"
	"github.com/v-wei40680/mcp-linker/backend/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret"

func signToken(t *testing.T, secret string, mutate func(claims jwt.MapClaims)) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": "user-123",
		"aud": "authenticated",
		"exp": time.Now().Add(time.Hour).Unix(),
		"email": "dev@example.com",
		"role":  "authenticated",
		"user_metadata": map[string]any{
			"user_name":  "dev",
			"full_name":  "Dev Eloper",
			"avatar_url": "https://example.com/a.png",
		},
	}
	if mutate != nil {
		mutate(claims)
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestVerifyIdentityToken(t *testing.T) {
	common.SupabaseJWTSecret = testJWTSecret

	claims, err := VerifyIdentityToken(signToken(t, testJWTSecret, nil))
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, "dev@example.com", claims.Email)
	assert.Equal(t, "dev", claims.Username())
	assert.Equal(t, "Dev Eloper", claims.Fullname())
	assert.Equal(t, "https://example.com/a.png", claims.AvatarURL())
}

func TestVerifyIdentityTokenRejections(t *testing.T) {
	common.SupabaseJWTSecret = testJWTSecret

	cases := map[string]string{
		"garbage":       "not-a-jwt",
		"wrong secret":  signToken(t, "other-secret", nil),
		"wrong aud":     signToken(t, testJWTSecret, func(c jwt.MapClaims) { c["aud"] = "service_role" }),
		"expired":       signToken(t, testJWTSecret, func(c jwt.MapClaims) { c["exp"] = time.Now().Add(-time.Hour).Unix() }),
		"empty subject": signToken(t, testJWTSecret, func(c jwt.MapClaims) { c["sub"] = "" }),
	}
	for name, token := range cases {
		_, err := VerifyIdentityToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken, name)
	}
}

func TestVerifyIdentityTokenRejectsUnsignedAlg(t *testing.T) {
	common.SupabaseJWTSecret = testJWTSecret

	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "user-123",
		"aud": "authenticated",
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = VerifyIdentityToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticateUserProvisionsAndRefreshes(t *testing.T) {
	newTestDB(t)
	common.SupabaseJWTSecret = testJWTSecret

	user, err := AuthenticateUser(signToken(t, testJWTSecret, nil))
	require.NoError(t, err)
	assert.Equal(t, "user-123", user.ID)
	assert.Equal(t, "dev@example.com", user.Email)
	assert.Equal(t, model.RoleUser, user.Role)

	stored, err := model.GetUserByID("user-123")
	require.NoError(t, err)
	assert.Equal(t, "Dev Eloper", stored.Fullname)

	// A later token with changed profile fields refreshes the row
	// instead of duplicating it.
	_, err = AuthenticateUser(signToken(t, testJWTSecret, func(c jwt.MapClaims) {
		c["email"] = "renamed@example.com"
		c["user_metadata"] = map[string]any{"user_name": "renamed"}
	}))
	require.NoError(t, err)

	stored, err = model.GetUserByID("user-123")
	require.NoError(t, err)
	assert.Equal(t, "renamed@example.com", stored.Email)
	assert.Equal(t, "renamed", stored.Username)

	var count int64
	require.NoError(t, model.DB.Model(&model.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
