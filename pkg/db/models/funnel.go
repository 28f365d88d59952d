package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Funnel belongs to a Campaign; its tenant is the campaign's License.
type Funnel struct {
	ID           uint           `gorm:"primaryKey" json:"funnelId"`
	UUID         uuid.UUID      `gorm:"column:uuid;type:uuid;not null;uniqueIndex" json:"uuid"`
	CampaignUUID uuid.UUID      `gorm:"column:campaign_uuid;type:uuid;not null;uniqueIndex:idx_funnels_campaign_name,priority:1,where:deleted_at IS NULL" json:"campaignUuid"`
	Name         string         `gorm:"column:name;size:60;not null;uniqueIndex:idx_funnels_campaign_name,priority:2,where:deleted_at IS NULL" json:"name"`
	IsTemplate   bool           `gorm:"column:is_template;not null" json:"isTemplate"`
	Type         *string        `gorm:"column:type;size:30" json:"type"`
	Description  *string        `gorm:"column:description;size:200" json:"description"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deletedAt"`
}

func (f *Funnel) BeforeCreate(*gorm.DB) error {
	ensureUUID(&f.UUID)
	return nil
}
