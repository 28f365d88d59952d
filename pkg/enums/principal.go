package enums

import (
	"fmt"
	"strings"
)

// PrincipalType discriminates the two kinds of authenticated callers.
// The values double as the reset ref_type column and the token "type" claim.
type PrincipalType string

const (
	PrincipalAdmin PrincipalType = "Admin"
	PrincipalUser  PrincipalType = "User"
)

var validPrincipalTypes = []PrincipalType{
	PrincipalAdmin,
	PrincipalUser,
}

// String implements fmt.Stringer.
func (p PrincipalType) String() string {
	return string(p)
}

// IsValid reports whether the value is Admin or User.
func (p PrincipalType) IsValid() bool {
	for _, candidate := range validPrincipalTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePrincipalType accepts the canonical value or a lowercase path segment ("admin", "user").
func ParsePrincipalType(value string) (PrincipalType, error) {
	for _, candidate := range validPrincipalTypes {
		if strings.EqualFold(string(candidate), strings.TrimSpace(value)) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid principal type %q", value)
}
