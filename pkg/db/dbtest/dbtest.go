// Package dbtest opens throwaway sqlite databases migrated with every model.
package dbtest

import (
	"context"
	"fmt"
	"testing"

	"github.com/funnelhub/funnelhub-backend/pkg/db"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// New returns a client backed by a private in-memory database that is closed
// when the test finishes.
func New(t *testing.T) *db.Client {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	client, err := db.NewSQLite(dsn)
	require.NoError(t, err)
	require.NoError(t, client.AutoMigrate(context.Background()))

	t.Cleanup(func() {
		_ = client.Close()
	})
	return client
}
