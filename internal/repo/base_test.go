package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/funnelhub/funnelhub-backend/pkg/db/dbtest"
	"github.com/funnelhub/funnelhub-backend/pkg/db/models"
	pkgerrors "github.com/funnelhub/funnelhub-backend/pkg/errors"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestBaseDBBindsContext(t *testing.T) {
	client := dbtest.New(t)
	base := NewBase(client.DB())

	ctx := context.WithValue(context.Background(), struct{}{}, "value")
	withCtx := base.DB(ctx)
	require.NotNil(t, withCtx.Statement)
	require.Equal(t, ctx, withCtx.Statement.Context)
}

func TestBaseUpdatesAndSoftDelete(t *testing.T) {
	ctx := context.Background()
	client := dbtest.New(t)
	base := NewBase(client.DB())

	license := &models.License{Type: "FREE", TeamName: "Before", Active: true}
	require.NoError(t, client.DB().Create(license).Error)

	require.NoError(t, base.Updates(ctx, license, nil))
	require.NoError(t, base.Updates(ctx, license, map[string]any{"team_name": "After", "active": false}))

	var reloaded models.License
	require.NoError(t, client.DB().First(&reloaded, license.ID).Error)
	require.Equal(t, "After", reloaded.TeamName)
	require.False(t, reloaded.Active)

	require.NoError(t, base.SoftDelete(ctx, &models.License{}, license.ID))
	err := base.SoftDelete(ctx, &models.License{}, license.ID)
	require.True(t, NotFound(err))
}

func TestMapError(t *testing.T) {
	require.NoError(t, MapError(nil, "campaign", "load campaign"))
	require.True(t, pkgerrors.IsCode(MapError(gorm.ErrRecordNotFound, "campaign", "load campaign"), pkgerrors.CodeNotFound))
	require.True(t, pkgerrors.IsCode(MapError(errors.New("conn reset"), "campaign", "load campaign"), pkgerrors.CodeDependency))
	require.True(t, pkgerrors.IsCode(MapError(errors.New("UNIQUE constraint failed: campaigns.name"), "campaign", "create campaign"), pkgerrors.CodeConflict))

	typed := pkgerrors.New(pkgerrors.CodeForbidden, "nope")
	require.Equal(t, error(typed), MapError(typed, "campaign", "update campaign"))
}
