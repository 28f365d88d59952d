package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Campaign groups funnels inside a single License.
type Campaign struct {
	ID          uint           `gorm:"primaryKey" json:"campaignId"`
	UUID        uuid.UUID      `gorm:"column:uuid;type:uuid;not null;uniqueIndex" json:"uuid"`
	LicenseID   uint           `gorm:"column:license_id;not null;uniqueIndex:idx_campaigns_license_name,priority:1,where:deleted_at IS NULL" json:"licenseId"`
	Name        string         `gorm:"column:name;size:40;not null;uniqueIndex:idx_campaigns_license_name,priority:2,where:deleted_at IS NULL" json:"name"`
	Icon        *string        `gorm:"column:icon;size:15" json:"icon"`
	Color       *string        `gorm:"column:color;size:7" json:"color"`
	Description *string        `gorm:"column:description;size:200" json:"description"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deletedAt"`
}

func (c *Campaign) BeforeCreate(*gorm.DB) error {
	ensureUUID(&c.UUID)
	return nil
}
