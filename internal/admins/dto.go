package admins

import (
	"strings"

	"github.com/funnelhub/funnelhub-backend/pkg/db/models"
)

// Payload is the create and update body for admins.
type Payload struct {
	Email            *string `json:"email" create:"required" validate:"omitempty,email,max=40"`
	Password         *string `json:"password" create:"required" validate:"omitempty,min=8,max=30"`
	FirstName        *string `json:"firstName" validate:"omitempty,max=30,personname"`
	LastName         *string `json:"lastName" validate:"omitempty,max=30,personname"`
	EmployeeID       *string `json:"employeeId" validate:"omitempty,max=30"`
	PermManageAdmins *bool   `json:"permManageAdmins"`
}

// Created is the result of creating an admin: the row and a token for it.
type Created struct {
	Admin *models.Admin
	Token string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (p Payload) changes() map[string]any {
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
	if p.EmployeeID != nil {
		changes["employee_id"] = *p.EmployeeID
	}
	if p.PermManageAdmins != nil {
		changes["perm_manage_admins"] = *p.PermManageAdmins
	}
	return changes
}
