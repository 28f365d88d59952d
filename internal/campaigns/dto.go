package campaigns

import "github.com/google/uuid"

// Payload is the create and update body for campaigns. licenseUuid is
// required from admins and must name the caller's own team otherwise.
type Payload struct {
	LicenseUUID *uuid.UUID `json:"licenseUuid"`
	Name        *string    `json:"name" create:"required" validate:"omitempty,min=1,max=40"`
	Icon        *string    `json:"icon" validate:"omitempty,max=15"`
	Color       *string    `json:"color" validate:"omitempty,max=7"`
	Description *string    `json:"description" validate:"omitempty,max=200"`
}

func (p Payload) changes() map[string]any {
	changes := map[string]any{}
	if p.Name != nil {
		changes["name"] = *p.Name
	}
	if p.Icon != nil {
		changes["icon"] = *p.Icon
	}
	if p.Color != nil {
		changes["color"] = *p.Color
	}
	if p.Description != nil {
		changes["description"] = *p.Description
	}
	return changes
}
