package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/funnelhub/funnelhub-backend/pkg/db"
	"github.com/funnelhub/funnelhub-backend/pkg/db/dbtest"
	"github.com/funnelhub/funnelhub-backend/pkg/db/models"
	"github.com/funnelhub/funnelhub-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestWithTx_CommitsAndRollbacks(t *testing.T) {
	client := dbtest.New(t)
	ctx := context.Background()

	require.NoError(t, client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(&models.License{Type: enums.LicenseTypeFree, TeamName: "committed", Active: true}).Error
	}))

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&models.License{Type: enums.LicenseTypeFree, TeamName: "rolled", Active: true}).Error; err != nil {
			return err
		}
		return errors.New("boom")
	})
	require.EqualError(t, err, "boom")

	var names []string
	require.NoError(t, client.DB().Model(&models.License{}).Pluck("team_name", &names).Error)
	require.Equal(t, []string{"committed"}, names)
}

func TestWithTx_RollsBackOnPanic(t *testing.T) {
	client := dbtest.New(t)

	require.Panics(t, func() {
		_ = client.WithTx(context.Background(), func(tx *gorm.DB) error {
			if err := tx.Create(&models.License{Type: enums.LicenseTypeFree, TeamName: "panicked"}).Error; err != nil {
				return err
			}
			panic("kaboom")
		})
	})

	var count int64
	require.NoError(t, client.DB().Model(&models.License{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestModelsAssignUUIDOnCreate(t *testing.T) {
	client := dbtest.New(t)

	license := models.License{Type: enums.LicenseTypeFree, TeamName: "uuid"}
	require.NoError(t, client.DB().Create(&license).Error)
	require.NotEqual(t, uuid.Nil, license.UUID)

	var loaded models.License
	require.NoError(t, client.DB().Where("uuid = ?", license.UUID).First(&loaded).Error)
	require.Equal(t, license.ID, loaded.ID)
}

func TestSoftDeleteHidesRows(t *testing.T) {
	client := dbtest.New(t)

	license := models.License{Type: enums.LicenseTypeFree, TeamName: "gone"}
	require.NoError(t, client.DB().Create(&license).Error)
	require.NoError(t, client.DB().Delete(&license).Error)

	err := client.DB().Where("uuid = ?", license.UUID).First(&models.License{}).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var count int64
	require.NoError(t, client.DB().Unscoped().Model(&models.License{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestIsUniqueViolation(t *testing.T) {
	client := dbtest.New(t)

	first := models.Admin{Email: "a@b.com", PasswordHash: "x"}
	require.NoError(t, client.DB().Create(&first).Error)

	err := client.DB().Create(&models.Admin{Email: "a@b.com", PasswordHash: "y"}).Error
	require.Error(t, err)
	require.True(t, db.IsUniqueViolation(err, ""))
	require.True(t, db.IsUniqueViolation(err, "email"))
	require.False(t, db.IsUniqueViolation(err, "employee_id"))
	require.False(t, db.IsUniqueViolation(errors.New("boom"), ""))
	require.False(t, db.IsUniqueViolation(nil, ""))
}

func TestSoftDeletedRowsReleaseUniqueValues(t *testing.T) {
	client := dbtest.New(t)

	admin := models.Admin{Email: "a@b.com", PasswordHash: "x"}
	require.NoError(t, client.DB().Create(&admin).Error)
	require.NoError(t, client.DB().Delete(&admin).Error)
	require.NoError(t, client.DB().Create(&models.Admin{Email: "a@b.com", PasswordHash: "y"}).Error)

	ref := "acme-1"
	license := models.License{Type: enums.LicenseTypeFree, TeamName: "acme", Reference: &ref}
	require.NoError(t, client.DB().Create(&license).Error)
	require.NoError(t, client.DB().Delete(&license).Error)
	require.NoError(t, client.DB().Create(&models.License{Type: enums.LicenseTypeFree, TeamName: "acme", Reference: &ref}).Error)

	err := client.DB().Create(&models.License{Type: enums.LicenseTypeFree, TeamName: "dup", Reference: &ref}).Error
	require.True(t, db.IsUniqueViolation(err, "reference"))
}

func TestPing(t *testing.T) {
	client := dbtest.New(t)
	require.NoError(t, client.Ping(context.Background()))
}
