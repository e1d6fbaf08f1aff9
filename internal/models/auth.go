package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims is the authenticated principal carried by access tokens.
type JWTClaims struct {
	UserID      int64      `json:"user_id"`
	GithubID    int        `json:"github_id"`
	GithubLogin string     `json:"github_login"`
	Email       string     `json:"email"`
	Roles       []UserRole `json:"roles"`
	jwt.RegisteredClaims
}

// HasRole reports whether the principal holds the role.
func (c *JWTClaims) HasRole(role UserRole) bool {
	if c == nil {
		return false
	}
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin is shorthand for HasRole(RoleAdmin).
func (c *JWTClaims) IsAdmin() bool {
	return c.HasRole(RoleAdmin)
}
