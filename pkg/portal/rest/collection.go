package rest

import (
	"encoding/json"

	"github.com/atelier-works/atelier/pkg/api/types/projects"
)

// The portal's list endpoints have drifted over time: the current one
// answers a bare array, older ones wrap it as {"items": [...]} or
// {"data": [...]}. All of them are accepted; anything else counts as an
// empty collection, because a half-migrated backend is not an error the
// user can act on.
func normalizeCollection(body json.RawMessage) []projects.Detail {
	var bare []projects.Detail
	if err := json.Unmarshal(body, &bare); err == nil {
		if bare == nil {
			return []projects.Detail{}
		}
		return bare
	}

	var wrapped struct {
		Items []projects.Detail `json:"items"`
		Data  []projects.Detail `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil {
		if wrapped.Items != nil {
			return wrapped.Items
		}
		if wrapped.Data != nil {
			return wrapped.Data
		}
	}

	return []projects.Detail{}
}
