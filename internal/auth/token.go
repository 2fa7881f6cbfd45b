// Package auth emite y valida los tokens de sesión del intranet.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken se devuelve ante tokens ilegibles, mal firmados o
// expirados.
var ErrInvalidToken = errors.New("token de sesión inválido")

// Claims lleva el id de sesión como subject estándar.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenManager encapsula generación y validación de tokens de sesión.
// El token sólo prueba posesión del id de sesión; la validez real de la
// sesión la decide el gate sobre el sobre en el store.
type TokenManager struct {
	secret []byte
	maxAge time.Duration
}

// NewTokenManager crea el gestor con el secreto y la vida máxima del
// token. maxAge debe cubrir con holgura el TTL lógico de la sesión.
func NewTokenManager(secret string, maxAge time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), maxAge: maxAge}
}

// Generate crea un JWT HS256 con el id de sesión como subject.
func (m *TokenManager) Generate(sessionID string) (string, error) {
	now := time.Now().UTC()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.maxAge)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// SessionID verifica firma y expiración y devuelve el id de sesión.
func (m *TokenManager) SessionID(tokenString string) (string, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	token, err := parser.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}
