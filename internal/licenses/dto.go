package licenses

import (
	"strings"
	"unicode/utf8"

	"github.com/funnelhub/funnelhub-backend/pkg/enums"
)

// Payload is the create and update body for licenses.
type Payload struct {
	Type      *enums.LicenseType `json:"type" validate:"omitempty,oneof=FREE"`
	TeamName  *string            `json:"teamName" create:"required" validate:"omitempty,min=1,max=25"`
	Active    *bool              `json:"active"`
	Reference *string            `json:"reference" validate:"omitempty,max=64,reference"`
	Domain    *string            `json:"domain" validate:"omitempty,max=50"`
}

// onlyTeamFields reports whether the payload touches nothing but the fields a
// team's master admin may edit.
func (p Payload) onlyTeamFields() bool {
	return p.Type == nil && p.Active == nil && p.Reference == nil
}

func (p Payload) changes() map[string]any {
	changes := map[string]any{}
	if p.Type != nil {
		changes["type"] = *p.Type
	}
	if p.TeamName != nil {
		changes["team_name"] = strings.TrimSpace(*p.TeamName)
	}
	if p.Active != nil {
		changes["active"] = *p.Active
	}
	if p.Reference != nil {
		changes["reference"] = *p.Reference
	}
	if p.Domain != nil {
		changes["domain"] = *p.Domain
	}
	return changes
}

// TeamNameFor builds the default team name of a bootstrapped license.
func TeamNameFor(email string) string {
	local := email
	if at := strings.Index(email, "@"); at >= 0 {
		local = email[:at]
	}
	const suffix = "'s Team"
	if keep := 25 - len(suffix); len(local) > keep {
		for keep > 0 && !utf8.RuneStart(local[keep]) {
			keep--
		}
		local = local[:keep]
	}
	return local + suffix
}
