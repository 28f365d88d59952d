package models

import (
	"time"

	"github.com/funnelhub/funnelhub-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reset is an issued password-reset token. Only the bcrypt hash of the token is stored.
type Reset struct {
	ID        uint                `gorm:"primaryKey" json:"-"`
	UUID      uuid.UUID           `gorm:"column:uuid;type:uuid;not null;uniqueIndex" json:"uuid"`
	TokenHash string              `gorm:"column:token;size:60;not null" json:"-"`
	RefUUID   uuid.UUID           `gorm:"column:ref_uuid;type:uuid;not null;index" json:"refUuid"`
	RefType   enums.PrincipalType `gorm:"column:ref_type;type:text;not null" json:"refType"`
	ValidBy   time.Time           `gorm:"column:valid_by;not null" json:"validBy"`
	UsedAt    *time.Time          `gorm:"column:used_at" json:"usedAt"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt      `gorm:"column:deleted_at;index" json:"-"`
}

func (r *Reset) BeforeCreate(*gorm.DB) error {
	ensureUUID(&r.UUID)
	return nil
}

// Expired reports whether the token can no longer be redeemed at now.
func (r Reset) Expired(now time.Time) bool {
	return !now.Before(r.ValidBy)
}
