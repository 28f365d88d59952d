package migrate

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsAreValid(t *testing.T) {
	require.NoError(t, ValidateFS(Migrations()))
}

func TestEmbeddedMigrationsCoverEveryTable(t *testing.T) {
	var all strings.Builder
	require.NoError(t, fs.WalkDir(Migrations(), ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		b, err := fs.ReadFile(Migrations(), path)
		all.Write(b)
		return err
	}))

	for _, table := range []string{"licenses", "users", "admins", "campaigns", "funnels", "resets"} {
		require.Contains(t, all.String(), "CREATE TABLE IF NOT EXISTS "+table+" (")
		require.Contains(t, all.String(), "DROP TABLE IF EXISTS "+table+";")
	}
	require.Contains(t, all.String(), "idx_campaigns_license_name ON campaigns (license_id, name) WHERE deleted_at IS NULL")
	require.Contains(t, all.String(), "idx_funnels_campaign_name ON funnels (campaign_uuid, name) WHERE deleted_at IS NULL")
}

func TestValidateFSRejectsBadFiles(t *testing.T) {
	body := []byte("-- +goose Up\nSELECT 1;\n-- +goose Down\nSELECT 1;\n")

	err := ValidateFS(fstest.MapFS{"create_x.sql": {Data: body}})
	require.ErrorContains(t, err, "invalid migration filename")

	err = ValidateFS(fstest.MapFS{
		"20260101000000_a.sql": {Data: body},
		"20260101000000_b.sql": {Data: body},
	})
	require.ErrorContains(t, err, "duplicate migration version")

	err = ValidateFS(fstest.MapFS{"20260101000000_a.sql": {Data: []byte("-- +goose Up\nSELECT 1;\n")}})
	require.ErrorContains(t, err, "goose Down")
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)

	path, err := CreateSQLMigration(dir, "Add Funnel Steps!", now)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "20260301123000_add_funnel_steps.sql"), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(b), "-- +goose Up")
	require.NoError(t, ValidateDir(dir))

	_, err = CreateSQLMigration(dir, "Add Funnel Steps!", now)
	require.ErrorContains(t, err, "already exists")

	_, err = CreateSQLMigration(dir, "!!!", now)
	require.ErrorContains(t, err, "empty sanitized filename")
}
