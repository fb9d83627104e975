package auth

import "github.com/golang-jwt/jwt/v5"

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Identity is the authenticated principal derived from a verified token.
// It is immutable once embedded in a token; credential-level changes
// (password, profile) only show up in tokens issued afterwards.
//
// Multi-tenant invariant: CompanyID must be non-empty for every non-admin
// identity. An empty CompanyID with IsAdmin set denotes a platform
// administrator who bypasses tenant checks.
type Identity struct {
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	CompanyID string `json:"companyId,omitempty"`
	IsAdmin   bool   `json:"isAdmin"`
}

// Claims is the only supported JWT claims shape for this service.
// TokenType discriminates access from refresh tokens on top of the
// distinct signing secrets.
type Claims struct {
	jwt.RegisteredClaims

	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	CompanyID string    `json:"companyId,omitempty"`
	IsAdmin   bool      `json:"isAdmin"`
	TokenType TokenType `json:"tokenType"`
}

func (c Claims) identity() Identity {
	return Identity{
		UserID:    c.UserID,
		Email:     c.Email,
		CompanyID: c.CompanyID,
		IsAdmin:   c.IsAdmin,
	}
}
