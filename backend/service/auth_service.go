package service

import (
	"errors"

	"github.com/v-wei40680/mcp-linker/backend/common"
	"github.com/v-wei40680/mcp-linker/backend/model"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for every verification failure. The specific
// cryptographic reason is deliberately not exposed to callers.
var ErrInvalidToken = errors.New("invalid authentication token")

// IdentityClaims is the payload of a token issued by the external identity
// provider. The subject is the provider-issued user id; profile fields ride
// along in user_metadata.
type IdentityClaims struct {
	jwt.RegisteredClaims
	Email        string         `json:"email"`
	Role         string         `json:"role"`
	UserMetadata map[string]any `json:"user_metadata"`
}

func (c *IdentityClaims) metadataString(key string) string {
	if v, ok := c.UserMetadata[key].(string); ok {
		return v
	}
	return ""
}

func (c *IdentityClaims) Username() string  { return c.metadataString("user_name") }
func (c *IdentityClaims) Fullname() string  { return c.metadataString("full_name") }
func (c *IdentityClaims) AvatarURL() string { return c.metadataString("avatar_url") }

// VerifyIdentityToken checks the signature and the fixed audience claim of a
// provider-issued bearer token and returns its claims.
func VerifyIdentityToken(tokenString string) (*IdentityClaims, error) {
	claims := &IdentityClaims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			return []byte(common.SupabaseJWTSecret), nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithAudience("authenticated"),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// AuthenticateUser verifies a token and upserts the viewer record from its
// claims. Every authenticated request refreshes the profile fields, so
// staleness is bounded by request frequency rather than a sync job.
func AuthenticateUser(tokenString string) (*model.User, error) {
	claims, err := VerifyIdentityToken(tokenString)
	if err != nil {
		return nil, err
	}

	role := claims.Role
	if role == "" || role == "authenticated" {
		role = model.RoleUser
	}
	user := &model.User{
		ID:        claims.Subject,
		Email:     claims.Email,
		Username:  claims.Username(),
		Fullname:  claims.Fullname(),
		AvatarURL: claims.AvatarURL(),
		Role:      role,
	}
	if err := model.UpsertUser(user); err != nil {
		return nil, err
	}
	return user, nil
}
