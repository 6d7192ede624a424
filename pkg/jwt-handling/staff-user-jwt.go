package jwthandling

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	STAFF_ROLE_DOCTOR = "doctor"
)

// Information a token enocodes. The staff user's ID is the subject.
type StaffUserClaims struct {
	Name string `json:"name,omitempty"`
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

func GenerateNewStaffUserToken(expiresIn time.Duration, id string, name string, role string, secretKey string) (tokenString string, err error) {
	claims := StaffUserClaims{
		name,
		role,
		jwt.RegisteredClaims{
			Subject:   id,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err = token.SignedString([]byte(secretKey))
	return
}

func ValidateStaffUserToken(tokenString string, secretKey string) (claims *StaffUserClaims, valid bool, err error) {
	token, err := jwt.ParseWithClaims(tokenString, &StaffUserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})
	if token == nil {
		return
	}
	claims, valid = token.Claims.(*StaffUserClaims)
	valid = valid && token.Valid && claims.Subject != ""
	return
}
