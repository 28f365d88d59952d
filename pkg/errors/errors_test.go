package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, publicMsg: "not authorized"},
		{code: CodeForbidden, status: http.StatusForbidden, publicMsg: "insufficient permissions"},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected", detailsOK: true},
		{code: CodeRateLimit, status: http.StatusTooManyRequests, publicMsg: "rate limit exceeded"},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		require.Equal(t, tt.status, meta.HTTPStatus, tt.code)
		require.Equal(t, tt.publicMsg, meta.PublicMessage, tt.code)
		require.Equal(t, tt.retryable, meta.Retryable, tt.code)
		require.Equal(t, tt.detailsOK, meta.DetailsAllowed, tt.code)
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	require.Equal(t, http.StatusInternalServerError, meta.HTTPStatus)
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("connection reset")
	err := Wrap(CodeDependency, cause, "lookup campaign")

	require.ErrorIs(t, err, cause)
	require.Equal(t, CodeDependency, err.Code())
	require.Equal(t, "lookup campaign", err.Message())
	require.Contains(t, err.Error(), "connection reset")
}

func TestAsFindsWrappedTypedError(t *testing.T) {
	typed := New(CodeForbidden, "wrong tenant")
	wrapped := fmt.Errorf("controller: %w", typed)

	require.Same(t, typed, As(wrapped))
	require.True(t, IsCode(wrapped, CodeForbidden))
	require.False(t, IsCode(wrapped, CodeNotFound))
	require.Nil(t, As(stdErrors.New("plain")))
	require.Nil(t, As(nil))
}

func TestNilReceiverIsSafe(t *testing.T) {
	var e *Error
	require.Equal(t, CodeInternal, e.Code())
	require.Empty(t, e.Message())
	require.Nil(t, e.Details())
	require.Nil(t, e.Unwrap())
}

func TestDumpCapturesPostgresDetails(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "idx_admins_email", TableName: "admins", Message: "duplicate key"}
	err := Wrap(CodeConflict, pgErr, "create admin")

	dump := Dump(err)
	require.Equal(t, CodeConflict, dump.Code)
	require.Equal(t, "23505", dump.PGCode)
	require.Equal(t, "idx_admins_email", dump.PGConstraint)
	require.Len(t, dump.Chain, 2)

	fields := dump.Fields()
	require.Equal(t, "admins", fields["pg_table"])
	require.NotContains(t, fields, "sqlite_code")
}

func TestDumpNil(t *testing.T) {
	require.Equal(t, ErrorDump{}, Dump(nil))
}
