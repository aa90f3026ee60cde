package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/propdesk/rental_management_system/backend/models"
)

type Claims struct {
	UserID string      `json:"userID"`
	Role   models.Role `json:"role"`
	jwt.StandardClaims
}

var jwtKey []byte

// InitJWT sets the signing key from configuration. Must run before any
// token is issued or validated.
func InitJWT(key string) {
	jwtKey = []byte(key)
}

func GenerateJWT(userID string, role models.Role) (string, error) {
	expirationTime := time.Now().Add(24 * time.Hour)

	claims := &Claims{
		UserID: userID,
		Role:   role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expirationTime.Unix(),
			IssuedAt:  time.Now().Unix(),
			Issuer:    "rental_management_system",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(jwtKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func ValidateJWT(tokenStr string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return jwtKey, nil
	})

	if err != nil {
		if err == jwt.ErrSignatureInvalid {
			return nil, errors.New("invalid token signature")
		}
		if err.Error() == "Token is expired" {
			return nil, errors.New("token has expired")
		}
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
