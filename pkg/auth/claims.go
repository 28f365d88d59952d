package auth

import (
	"github.com/funnelhub/funnelhub-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Identity is the decoded principal a token vouches for.
type Identity struct {
	Type enums.PrincipalType
	UUID uuid.UUID
}

func (i Identity) IsAdmin() bool { return i.Type == enums.PrincipalAdmin }
func (i Identity) IsUser() bool  { return i.Type == enums.PrincipalUser }

// AuthClaim is nested under "auth" so the payload reads {auth:{uuid,type}}.
type AuthClaim struct {
	UUID uuid.UUID           `json:"uuid"`
	Type enums.PrincipalType `json:"type"`
}

// Claims represents the typed JWT issued to clients.
type Claims struct {
	Auth AuthClaim `json:"auth"`
	jwt.RegisteredClaims
}

func (c *Claims) Identity() Identity {
	return Identity{Type: c.Auth.Type, UUID: c.Auth.UUID}
}

// Credentials is the login projection shared by Admin and User rows.
type Credentials struct {
	Identity     Identity
	Email        string
	PasswordHash string
}
