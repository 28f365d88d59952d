package funnels

import "github.com/google/uuid"

// Payload is the create and update body for funnels.
type Payload struct {
	CampaignUUID *uuid.UUID `json:"campaignUuid" create:"required"`
	Name         *string    `json:"name" create:"required" validate:"omitempty,min=1,max=60"`
	IsTemplate   *bool      `json:"isTemplate"`
	Type         *string    `json:"type" validate:"omitempty,max=30"`
	Description  *string    `json:"description" validate:"omitempty,max=200"`
}

func (p Payload) changes() map[string]any {
	changes := map[string]any{}
	if p.Name != nil {
		changes["name"] = *p.Name
	}
	if p.IsTemplate != nil {
		changes["is_template"] = *p.IsTemplate
	}
	if p.Type != nil {
		changes["type"] = *p.Type
	}
	if p.Description != nil {
		changes["description"] = *p.Description
	}
	return changes
}
