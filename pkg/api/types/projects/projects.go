package projects

import (
	"github.com/atelier-works/atelier/pkg/api/types/misc/rfctime"
)

// Status values the portal backend knows.
//
// The server is authoritative; clients only propose.
const (
	StatusOpen     = "open"
	StatusActive   = "active"
	StatusOnHold   = "on-hold"
	StatusDone     = "done"
	StatusArchived = "archived"
)

// Detail is a full project record as the portal reports it.
type Detail struct {
	ID          int64           `json:"id"`
	ClientID    int64           `json:"client_id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Status      string          `json:"status"`
	UpdatedAt   rfctime.RFC3339 `json:"updated_at,omitempty"`
}

func (d Detail) Equal(o Detail) bool {
	return d.ID == o.ID &&
		d.ClientID == o.ClientID &&
		d.Title == o.Title &&
		d.Description == o.Description &&
		d.Status == o.Status &&
		d.UpdatedAt.Equal(o.UpdatedAt)
}

// Spec is what a client submits to create or update a project.
//
// ClientID is filled in by the caller from the resolved scope,
// never typed in by a user.
type Spec struct {
	ClientID    int64  `json:"client_id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
}

// Patch is a create/update response from the portal.
//
// The backend may send the full record or only the fields it changed
// (assigned id, stamped timestamp, canonical status), so every field is
// optional here. Absent fields mean "what you sent stands".
type Patch struct {
	ID          *int64           `json:"id,omitempty"`
	ClientID    *int64           `json:"client_id,omitempty"`
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Status      *string          `json:"status,omitempty"`
	UpdatedAt   *rfctime.RFC3339 `json:"updated_at,omitempty"`
}

// Compose layers a server Patch over a submitted Spec and materializes
// the record to display. Server-sent fields win on conflict.
func Compose(spec Spec, patch Patch) Detail {
	d := Detail{
		ClientID:    spec.ClientID,
		Title:       spec.Title,
		Description: spec.Description,
		Status:      spec.Status,
	}

	if patch.ID != nil {
		d.ID = *patch.ID
	}
	if patch.ClientID != nil {
		d.ClientID = *patch.ClientID
	}
	if patch.Title != nil {
		d.Title = *patch.Title
	}
	if patch.Description != nil {
		d.Description = *patch.Description
	}
	if patch.Status != nil {
		d.Status = *patch.Status
	}
	if patch.UpdatedAt != nil {
		d.UpdatedAt = *patch.UpdatedAt
	}

	return d
}
