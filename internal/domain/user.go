package domain

import "context"

// Role is carried in access tokens.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleSeafarer Role = "seafarer"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleSeafarer
}

// CrewProfile scopes which tests a seafarer sees.
type CrewProfile struct {
	UserID     string  `json:"user_id"`
	FullName   string  `json:"full_name,omitempty"`
	PositionID *string `json:"position_id,omitempty"`
	ShipTypeID *string `json:"ship_type_id,omitempty"`
}

// CrewProfileRepository reads profiles owned by the identity collaborator.
type CrewProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*CrewProfile, error)
}
