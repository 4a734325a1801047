package domain

import "time"

// ReferenceKind identifies one of the lookup tables questions and tests are scoped by.
type ReferenceKind string

const (
	ReferencePosition ReferenceKind = "position"
	ReferenceShipType ReferenceKind = "ship_type"
	ReferenceCategory ReferenceKind = "category"
)

var ReferenceKinds = []ReferenceKind{ReferencePosition, ReferenceShipType, ReferenceCategory}

func (k ReferenceKind) Valid() bool {
	switch k {
	case ReferencePosition, ReferenceShipType, ReferenceCategory:
		return true
	}
	return false
}

// ParseReferenceKind accepts the singular kind or its URL plural ("positions", "ship-types").
func ParseReferenceKind(s string) (ReferenceKind, bool) {
	switch s {
	case "position", "positions":
		return ReferencePosition, true
	case "ship_type", "ship_types", "ship-types":
		return ReferenceShipType, true
	case "category", "categories":
		return ReferenceCategory, true
	}
	return "", false
}

// Reference is a position, ship type, or question category.
type Reference struct {
	ID          string        `json:"id"`
	Kind        ReferenceKind `json:"kind"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}
