package models

import (
	"time"

	"github.com/funnelhub/funnelhub-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// License is a tenant: the unit of data isolation between customer teams.
type License struct {
	ID        uint              `gorm:"primaryKey" json:"licenseId"`
	UUID      uuid.UUID         `gorm:"column:uuid;type:uuid;not null;uniqueIndex" json:"uuid"`
	Type      enums.LicenseType `gorm:"column:type;type:text;not null" json:"type"`
	TeamName  string            `gorm:"column:team_name;size:25;not null" json:"teamName"`
	Active    bool              `gorm:"column:active;not null" json:"active"`
	Reference *string           `gorm:"column:reference;size:64;uniqueIndex:idx_licenses_reference,where:deleted_at IS NULL" json:"reference"`
	Domain    *string           `gorm:"column:domain;size:50" json:"domain"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt    `gorm:"column:deleted_at;index" json:"deletedAt"`
}

func (l *License) BeforeCreate(*gorm.DB) error {
	ensureUUID(&l.UUID)
	return nil
}
