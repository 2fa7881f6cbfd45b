package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/admisionuni/simulacro-intranet/internal/auth"
	"github.com/admisionuni/simulacro-intranet/internal/guard"
	"github.com/admisionuni/simulacro-intranet/internal/session"
)

type contextKey string

const contextKeySession contextKey = "session"

// SessionContext resuelve el token Bearer a una sesión y la inyecta en el
// contexto. No valida nada: un token ausente o ilegible deja el contexto
// sin sesión y cada ruta decide qué exigir.
func SessionContext(tokens *auth.TokenManager, sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				if sessionID, err := tokens.SessionID(parts[1]); err == nil {
					ctx := context.WithValue(r.Context(), contextKeySession, sessions.Session(sessionID))
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetSession recupera la sesión del contexto; nil si no hay token válido.
func GetSession(ctx context.Context) *session.Session {
	val, _ := ctx.Value(contextKeySession).(*session.Session)
	return val
}

// RequireSession exige token de sesión presente, sin correr el gate.
// Lo usan logout y restart, que deben funcionar también sobre sesiones
// ya expiradas.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetSession(r.Context()) == nil {
			writeSessionError(w, http.StatusUnauthorized, "token de sesión ausente")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireValidSession corre el gate de validez: sin postulante cacheado o
// con sesión expirada (que se desaloja aquí mismo) la petición se
// rechaza. Falla cerrada: cualquier estado ilegible bloquea el acceso.
func RequireValidSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := GetSession(r.Context())
		if sess == nil || !sess.IsValid(r.Context()) {
			writeSessionError(w, http.StatusUnauthorized, "sesión inválida o expirada")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeSessionError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":   "error",
		"message":  message,
		"redirect": guard.PageLanding,
	})
}
