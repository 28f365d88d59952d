package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Admin is backoffice staff; admins are global and belong to no License.
type Admin struct {
	ID               uint           `gorm:"primaryKey" json:"adminId"`
	UUID             uuid.UUID      `gorm:"column:uuid;type:uuid;not null;uniqueIndex" json:"uuid"`
	Email            string         `gorm:"column:email;size:40;not null;uniqueIndex:idx_admins_email,where:deleted_at IS NULL" json:"email"`
	PasswordHash     string         `gorm:"column:password;not null" json:"password"`
	FirstName        *string        `gorm:"column:first_name;size:30" json:"firstName"`
	LastName         *string        `gorm:"column:last_name;size:30" json:"lastName"`
	EmployeeID       *string        `gorm:"column:employee_id;size:30" json:"employeeId"`
	PermManageAdmins bool           `gorm:"column:perm_manage_admins;not null" json:"permManageAdmins"`
	CreatedAt        time.Time      `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt        time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
	DeletedAt        gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deletedAt"`
}

func (a *Admin) BeforeCreate(*gorm.DB) error {
	ensureUUID(&a.UUID)
	return nil
}
