package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jvaldezcruz/assetdesk-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	EmployeeID uuid.UUID
	Role       enums.EmployeeRole
	JTI        string
}

// AccessTokenClaims represents the typed JWT issued to portal clients.
type AccessTokenClaims struct {
	EmployeeID uuid.UUID          `json:"employee_id"`
	Role       enums.EmployeeRole `json:"role"`
	jwt.RegisteredClaims
}
