package enums

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePrincipalType(t *testing.T) {
	got, err := ParsePrincipalType("admin")
	require.NoError(t, err)
	require.Equal(t, PrincipalAdmin, got)

	got, err = ParsePrincipalType("User")
	require.NoError(t, err)
	require.Equal(t, PrincipalUser, got)

	_, err = ParsePrincipalType("owner")
	require.Error(t, err)
	require.False(t, PrincipalType("owner").IsValid())
}

func TestParseLicenseType(t *testing.T) {
	got, err := ParseLicenseType("FREE")
	require.NoError(t, err)
	require.Equal(t, LicenseTypeFree, got)
	require.True(t, got.IsValid())

	_, err = ParseLicenseType("free")
	require.Error(t, err)
}
