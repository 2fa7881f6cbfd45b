package session

import (
	"context"
	"time"
)

// El gate de validez responde "¿esta sesión sigue siendo usable?" y
// aplica la expiración de forma perezosa: se evalúa en cada consulta, sin
// timers, para que una pestaña abierta más allá del TTL quede invalidada
// en el siguiente chequeo.

// IsExpired es true si no hay expiración guardada, si no se puede parsear
// o si ya pasó.
func (s *Session) IsExpired(ctx context.Context) bool {
	env := s.load(ctx)
	if env.ExpiresAt == "" {
		return true
	}
	expires, err := time.Parse(time.RFC3339, env.ExpiresAt)
	if err != nil {
		return true
	}
	return s.m.now().After(expires)
}

// RemainingSeconds devuelve los segundos restantes redondeados hacia
// arriba. ok es false cuando no hay expiración registrada.
func (s *Session) RemainingSeconds(ctx context.Context) (seconds int64, ok bool) {
	env := s.load(ctx)
	if env.ExpiresAt == "" {
		return 0, false
	}
	expires, err := time.Parse(time.RFC3339, env.ExpiresAt)
	if err != nil {
		return 0, false
	}
	remaining := expires.Sub(s.m.now())
	seconds = int64(remaining / time.Second)
	if remaining%time.Second > 0 {
		seconds++
	}
	return seconds, true
}

// IsValid es false si no hay postulante cacheado. Si lo hay pero la
// sesión expiró, desaloja el registro como efecto colateral y devuelve
// false: el dato obsoleto nunca sobrevive al chequeo que lo detecta.
func (s *Session) IsValid(ctx context.Context) bool {
	if !s.HasApplicant(ctx) {
		return false
	}
	if s.IsExpired(ctx) {
		s.ClearApplicantOnly(ctx)
		return false
	}
	return true
}
