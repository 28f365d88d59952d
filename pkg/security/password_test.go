package security

import (
	"strings"
	"testing"

	"github.com/funnelhub/funnelhub-backend/pkg/config"
	"github.com/stretchr/testify/require"
)

func testHasher() *PasswordHasher {
	return NewPasswordHasher(config.PasswordConfig{
		ArgonMemoryKB:    64,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
}

func TestHashAndVerifyPassword(t *testing.T) {
	h := testHasher()

	encoded, err := h.Hash("correct horse")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$m=64,t=1,p=1$"))

	ok, err := h.Verify("correct horse", encoded)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = h.Verify("wrong horse", encoded)
	require.NoError(t, err)
	require.False(t, ok)

	other, err := h.Hash("correct horse")
	require.NoError(t, err)
	require.NotEqual(t, encoded, other, "salts must differ")
}

func TestVerifyUsesEncodedParams(t *testing.T) {
	encoded, err := testHasher().Hash("correct horse")
	require.NoError(t, err)

	stronger := NewPasswordHasher(config.PasswordConfig{ArgonMemoryKB: 128, ArgonTime: 2, ArgonParallelism: 2, ArgonSaltLen: 16, ArgonKeyLen: 32})
	ok, err := stronger.Verify("correct horse", encoded)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestHashRejectsEmptyPassword(t *testing.T) {
	_, err := testHasher().Hash("")
	require.Error(t, err)
}

func TestVerifyPasswordBadHash(t *testing.T) {
	h := testHasher()
	for _, bad := range []string{
		"",
		"plain",
		"$bcrypt$v=19$m=64,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=64,t=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=x,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=64,t=1,p=1$***$aGFzaA",
	} {
		_, err := h.Verify("pw", bad)
		require.ErrorIs(t, err, ErrInvalidHash, bad)
	}
}

func TestGenerateTempPassword(t *testing.T) {
	pw, err := GenerateTempPassword(20)
	require.NoError(t, err)
	require.Len(t, pw, 20)
	for _, r := range pw {
		require.Contains(t, string(tempPasswordCharset), string(r))
	}

	_, err = GenerateTempPassword(0)
	require.Error(t, err)
}
