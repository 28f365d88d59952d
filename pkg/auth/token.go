package auth

import (
	"fmt"
	"time"

	"github.com/funnelhub/funnelhub-backend/pkg/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// MintToken issues a signed identity token valid for cfg.TTL() from now.
func MintToken(cfg config.JWTConfig, now time.Time, id Identity) (string, error) {
	if cfg.Secret == "" {
		return "", fmt.Errorf("jwt secret is required")
	}
	if cfg.Issuer == "" {
		return "", fmt.Errorf("jwt issuer is required")
	}
	if cfg.TTL() <= 0 {
		return "", fmt.Errorf("jwt expiration minutes must be positive")
	}
	if !id.Type.IsValid() {
		return "", fmt.Errorf("invalid principal type %q", id.Type)
	}
	if id.UUID == uuid.Nil {
		return "", fmt.Errorf("principal uuid is required")
	}

	claims := Claims{
		Auth: AuthClaim{UUID: id.UUID, Type: id.Type},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   id.UUID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TTL())),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwtSigningMethod, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}

// ParseToken validates signature, issuer and expiry and returns typed claims.
func ParseToken(cfg config.JWTConfig, tokenString string) (*Claims, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if !claims.Auth.Type.IsValid() || claims.Auth.UUID == uuid.Nil {
		return nil, fmt.Errorf("token carries no principal")
	}
	return claims, nil
}

// Decode is the lenient form of ParseToken: any failure yields no identity.
func Decode(cfg config.JWTConfig, tokenString string) (Identity, bool) {
	if tokenString == "" {
		return Identity{}, false
	}
	claims, err := ParseToken(cfg, tokenString)
	if err != nil {
		return Identity{}, false
	}
	return claims.Identity(), true
}
