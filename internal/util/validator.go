package util

import (
	"errors"
	"net/mail"
	"strings"
)

// ValidateDNI exige el documento nacional peruano: exactamente 8 dígitos.
func ValidateDNI(dni string) error {
	dni = strings.TrimSpace(dni)
	if dni == "" {
		return errors.New("dni obligatorio")
	}
	if len(dni) != 8 {
		return errors.New("dni debe tener 8 dígitos")
	}
	for _, r := range dni {
		if r < '0' || r > '9' {
			return errors.New("dni debe tener 8 dígitos")
		}
	}
	return nil
}

// ValidateEmail devuelve error para correos inválidos.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("correo obligatorio")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return errors.New("correo inválido")
	}
	return nil
}

// RequireString garantiza cadena no vacía.
func RequireString(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New(field + " obligatorio")
	}
	return nil
}
