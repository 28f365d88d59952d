package resets

import (
	"context"
	"testing"
	"time"

	"github.com/funnelhub/funnelhub-backend/pkg/db/dbtest"
	"github.com/funnelhub/funnelhub-backend/pkg/db/models"
	"github.com/funnelhub/funnelhub-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestDeleteStaleKeepsLiveResets(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(dbtest.New(t).DB())
	now := time.Now().UTC()
	cutoff := now.Add(-24 * time.Hour)
	longAgo := now.Add(-48 * time.Hour)
	recently := now.Add(-time.Hour)

	seed := func(validBy time.Time, usedAt *time.Time) *models.Reset {
		reset := &models.Reset{
			TokenHash: "hash",
			RefUUID:   uuid.New(),
			RefType:   enums.PrincipalUser,
			ValidBy:   validBy,
			UsedAt:    usedAt,
		}
		require.NoError(t, repo.Create(ctx, reset))
		return reset
	}
	expiredLongAgo := seed(longAgo, nil)
	usedLongAgo := seed(now.Add(time.Hour), &longAgo)
	usedRecently := seed(now.Add(-30*time.Minute), &recently)
	live := seed(now.Add(10*time.Minute), nil)

	deleted, err := repo.DeleteStale(ctx, cutoff)
	require.NoError(t, err)
	require.EqualValues(t, 2, deleted)

	for _, gone := range []*models.Reset{expiredLongAgo, usedLongAgo} {
		_, err := repo.FindByUUID(ctx, gone.UUID)
		require.Error(t, err)
	}
	for _, kept := range []*models.Reset{usedRecently, live} {
		_, err := repo.FindByUUID(ctx, kept.UUID)
		require.NoError(t, err)
	}
}
