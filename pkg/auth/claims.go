package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID     uuid.UUID
	EmployeeID string
	JTI        string
}

// AccessTokenClaims represents the typed JWT presented by callers. EmployeeID
// links the caller to a directory employee; it may be empty for service users.
type AccessTokenClaims struct {
	UserID     uuid.UUID `json:"user_id"`
	EmployeeID string    `json:"employee_id,omitempty"`
	jwt.RegisteredClaims
}
