package models

import "github.com/golang-jwt/jwt/v5"

// ActorClaims are the JWT claims used to attribute operations to a user.
// Only the subject is required; the rest is informational.
type ActorClaims struct {
	jwt.RegisteredClaims        // Standard JWT claims (sub, iss, aud, exp, iat, etc.)
	Email                string `json:"email"`
	Name                 string `json:"name"`
	Role                 string `json:"role"`
}

// GetUserID returns the user ID from the JWT subject claim
func (c *ActorClaims) GetUserID() string {
	return c.Subject
}
