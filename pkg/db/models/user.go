package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a tenant member. Master admins manage their own License.
type User struct {
	ID             uint           `gorm:"primaryKey" json:"userId"`
	UUID           uuid.UUID      `gorm:"column:uuid;type:uuid;not null;uniqueIndex" json:"uuid"`
	LicenseUUID    uuid.UUID      `gorm:"column:license_uuid;type:uuid;not null;index" json:"licenseUuid"`
	Email          string         `gorm:"column:email;not null;uniqueIndex:idx_users_email,where:deleted_at IS NULL" json:"email"`
	PasswordHash   string         `gorm:"column:password;not null" json:"password"`
	IsAdminMaster  bool           `gorm:"column:is_admin_master;not null" json:"isAdminMaster"`
	IsAdminBilling bool           `gorm:"column:is_admin_billing;not null" json:"isAdminBilling"`
	FirstName      *string        `gorm:"column:first_name;size:30" json:"firstName"`
	LastName       *string        `gorm:"column:last_name;size:30" json:"lastName"`
	Role           *string        `gorm:"column:role;size:80" json:"role"`
	Bio            *string        `gorm:"column:bio;size:200" json:"bio"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deletedAt"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	ensureUUID(&u.UUID)
	return nil
}
