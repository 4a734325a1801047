package dto

import (
	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims defines the custom claims for JWT.
type AuthClaims struct {
	UserID    string `json:"user_id"`
	Role      string `json:"role"`       // "admin" or "seafarer"
	TokenType string `json:"token_type"` // "access"
	jwt.RegisteredClaims
}

// TokenResponse represents an issued access token.
// @Description Access token issued for a user
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// MessageResponse represents a generic message response.
// @Description Generic message response
type MessageResponse struct {
	Message string `json:"message"`
}

// --- Pagination ---

// Pagination defines parameters for paginated requests.
// These are typically query parameters.
type Pagination struct {
	Limit  int `query:"limit"`  // Number of items per page
	Offset int `query:"offset"` // Number of items to skip
	Page   int `query:"page"`   // Page number (alternative to offset)
}

const (
	DefaultLimit = 20
	MaxLimit     = 200
)

// Normalize applies defaults and converts Page into Offset when given.
func (p Pagination) Normalize() Pagination {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Page > 0 {
		p.Offset = (p.Page - 1) * p.Limit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// PaginationInfo defines pagination details for responses.
type PaginationInfo struct {
	TotalItems  int64 `json:"total_items"`
	Limit       int   `json:"limit"`
	Offset      int   `json:"offset"`
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
}

func NewPaginationInfo(total int, p Pagination) PaginationInfo {
	info := PaginationInfo{
		TotalItems:  int64(total),
		Limit:       p.Limit,
		Offset:      p.Offset,
		CurrentPage: 1,
	}
	if p.Limit > 0 {
		info.CurrentPage = p.Offset/p.Limit + 1
		info.TotalPages = (total + p.Limit - 1) / p.Limit
	}
	return info
}

// --- References ---

// ReferenceRequest creates a position, ship type, or category.
// @Description Request body for creating a reference entry
type ReferenceRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}
