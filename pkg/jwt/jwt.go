package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims incluye los claims estándar JWT más la identidad del usuario.
// Role y EmpID viajan en el token para que el middleware no consulte la DB.
type Claims struct {
	jwt.RegisteredClaims
	UID      string `json:"uid"`
	Username string `json:"username"`
	Role     string `json:"role"`
	EmpID    string `json:"empId,omitempty"`
}

// Subject datos de la identidad a firmar.
type Subject struct {
	UID      string
	Username string
	Role     string
	EmpID    string
}

// Generate genera un token JWT HS256 con vencimiento de expMinutes.
func Generate(secret, issuer string, sub Subject, expMinutes int) (string, error) {
	return generateAt(secret, issuer, sub, time.Now(), time.Duration(expMinutes)*time.Minute)
}

func generateAt(secret, issuer string, sub Subject, now time.Time, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   sub.UID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UID:      sub.UID,
		Username: sub.Username,
		Role:     sub.Role,
		EmpID:    sub.EmpID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida firma y vencimiento y devuelve los claims.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	return claims, nil
}
