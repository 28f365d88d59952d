package users

import (
	"strings"

	"github.com/google/uuid"
)

// Payload is the create and update body for users. Privileged fields
// (licenseUuid, isAdminMaster, isAdminBilling) are checked by the service.
type Payload struct {
	Email          *string    `json:"email" create:"required" validate:"omitempty,email,max=254"`
	Password       *string    `json:"password" create:"required" validate:"omitempty,min=8,max=30"`
	LicenseUUID    *uuid.UUID `json:"licenseUuid"`
	IsAdminMaster  *bool      `json:"isAdminMaster"`
	IsAdminBilling *bool      `json:"isAdminBilling"`
	FirstName      *string    `json:"firstName" validate:"omitempty,max=30,personname"`
	LastName       *string    `json:"lastName" validate:"omitempty,max=30,personname"`
	Role           *string    `json:"role" validate:"omitempty,max=80"`
	Bio            *string    `json:"bio" validate:"omitempty,max=200"`
}

func (p Payload) touchesFlags() bool {
	return p.IsAdminMaster != nil || p.IsAdminBilling != nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// profileChanges maps the unprivileged fields onto their columns.
func (p Payload) profileChanges() map[string]any {
	changes := map[string]any{}
	if p.Email != nil {
		changes["email"] = normalizeEmail(*p.Email)
	}
	if p.FirstName != nil {
		changes["first_name"] = *p.FirstName
	}
	if p.LastName != nil {
		changes["last_name"] = *p.LastName
	}
	if p.Role != nil {
		changes["role"] = *p.Role
	}
	if p.Bio != nil {
		changes["bio"] = *p.Bio
	}
	return changes
}
