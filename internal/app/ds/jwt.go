package ds

import (
	"processpilot/internal/app/role"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

type JWTClaims struct {
	jwt.StandardClaims
	UserUUID uuid.UUID `json:"user_uuid"`
	Email    string    `json:"email"`
	Role     role.Role `json:"role"`
}
