package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var jwtSecretKey = []byte(Getenv("JWT_SECRET", "school-ops-dev-secret-do-not-use-in-prod"))

const AccessTokenTTL = 12 * time.Hour

// Claims defines the JWT claims structure. Besides identity, the token
// carries the caller's role context: the admin flag and the schools the
// account is scoped to.
type Claims struct {
	UserID    int64   `json:"user_id"`
	Username  string  `json:"username"`
	IsAdmin   bool    `json:"is_admin"`
	SchoolIDs []int64 `json:"school_ids,omitempty"`
	jwt.RegisteredClaims
}

// GenerateAccessToken creates a signed access token for the given account.
func GenerateAccessToken(userID int64, username string, isAdmin bool, schoolIDs []int64) (string, error) {
	expirationTime := time.Now().Add(AccessTokenTTL)
	claims := &Claims{
		UserID:    userID,
		Username:  username,
		IsAdmin:   isAdmin,
		SchoolIDs: schoolIDs,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "school-ops-backend",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(jwtSecretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token string and returns its
// claims when the token is valid.
func ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
