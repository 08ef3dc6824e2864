package jwt

import "github.com/golang-jwt/jwt/v5"

// Claims is the token payload issued to judges and organizers.
type Claims struct {
	jwt.RegisteredClaims
	Name string `json:"name"`
	Role string `json:"role"`
}

type Role string

const (
	RoleJudge Role = "judge"
	RoleAdmin Role = "admin"
)
