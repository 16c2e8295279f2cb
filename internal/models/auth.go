package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role names the access level carried by a session.
type Role string

const (
	// RoleLecturer marks the privileged session able to see restricted
	// content and manage uploads.
	RoleLecturer Role = "lecturer"
)

// Identity is the result of verifying credentials.
type Identity struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// IsPrivileged reports whether the identity holds lecturer-level access.
func (i Identity) IsPrivileged() bool {
	return i.Role == RoleLecturer
}

// LoginRequest holds credentials for authenticating the lecturer.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and identity.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
	User        Identity  `json:"user"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
	jwt.RegisteredClaims
}

// Identity projects the claims back onto an Identity.
func (c *JWTClaims) Identity() Identity {
	return Identity{Email: c.Email, Role: c.Role}
}
