// Package fields strips configured keys from outbound JSON payloads.
package fields

import (
	"encoding/json"
	"fmt"
)

// Per-resource exclusion lists. Keys are the JSON names used on the wire.
var (
	Timestamps = []string{"createdAt", "updatedAt", "deletedAt"}

	Admin    = with(Timestamps, "password", "adminId")
	User     = with(Timestamps, "password", "userId")
	License  = with(Timestamps, "licenseId")
	Campaign = with(Timestamps, "campaignId", "licenseId")
	Funnel   = with(Timestamps, "funnelId")
)

// Filter returns v's JSON projection with the excluded keys removed from the
// top-level object, or from every object element when v is a list. Nil in, nil out.
func Filter(v any, excluded ...string) (any, error) {
	if v == nil {
		return nil, nil
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}

	drop := make(map[string]struct{}, len(excluded))
	for _, key := range excluded {
		drop[key] = struct{}{}
	}

	switch typed := decoded.(type) {
	case map[string]any:
		strip(typed, drop)
	case []any:
		for _, item := range typed {
			if obj, ok := item.(map[string]any); ok {
				strip(obj, drop)
			}
		}
	}
	return decoded, nil
}

func strip(obj map[string]any, drop map[string]struct{}) {
	for key := range drop {
		delete(obj, key)
	}
}

func with(base []string, extra ...string) []string {
	out := make([]string, 0, len(base)+len(extra))
	out = append(out, extra...)
	return append(out, base...)
}
