package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/admisionuni/simulacro-intranet/internal/admissions"
	httpmiddleware "github.com/admisionuni/simulacro-intranet/internal/http/middleware"
	"github.com/admisionuni/simulacro-intranet/internal/util"
)

type searchRequest struct {
	DNI   string `json:"dni"`
	Email string `json:"email"`
}

// sessionPayload es el bloque de sesión devuelto junto al postulante.
type sessionPayload struct {
	Token            string `json:"token"`
	TTLMinutes       int    `json:"ttl_minutes"`
	RemainingSeconds int64  `json:"remaining_seconds"`
}

// SearchApplicant busca al postulante por DNI y correo. Un resultado
// negativo guía al registro, no es una falla. El éxito crea (o refresca)
// el sobre de sesión y emite el token.
func (h *Handler) SearchApplicant(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "cuerpo inválido", nil)
		return
	}

	fields := map[string][]string{}
	if err := util.ValidateDNI(req.DNI); err != nil {
		fields["dni"] = []string{err.Error()}
	}
	if err := util.ValidateEmail(req.Email); err != nil {
		fields["email"] = []string{err.Error()}
	}
	if len(fields) > 0 {
		WriteError(w, http.StatusUnprocessableEntity, "datos de búsqueda inválidos", fields)
		return
	}

	applicant, err := h.admissions.SearchApplicant(r.Context(), req.DNI, req.Email)
	if errors.Is(err, admissions.ErrNotFound) {
		WriteError(w, http.StatusNotFound, "No se encontró un postulante con los datos proporcionados", nil)
		return
	}
	if err != nil {
		WriteAdmissionsError(w, err)
		return
	}

	h.bootstrapSession(w, r, applicant)
}

// CreateApplicant registra un postulante nuevo y arranca su sesión.
func (h *Handler) CreateApplicant(w http.ResponseWriter, r *http.Request) {
	var req admissions.CreateApplicantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "cuerpo inválido", nil)
		return
	}

	fields := map[string][]string{}
	if err := util.ValidateDNI(req.DNI); err != nil {
		fields["dni"] = []string{err.Error()}
	}
	if err := util.ValidateEmail(req.Email); err != nil {
		fields["email"] = []string{err.Error()}
	}
	if err := util.RequireString(req.FirstNames, "nombres"); err != nil {
		fields["first_names"] = []string{err.Error()}
	}
	if err := util.RequireString(req.LastNameFather, "apellido paterno"); err != nil {
		fields["last_name_father"] = []string{err.Error()}
	}
	if err := util.RequireString(req.PhoneMobile, "celular"); err != nil {
		fields["phone_mobile"] = []string{err.Error()}
	}
	if len(fields) > 0 {
		WriteError(w, http.StatusUnprocessableEntity, "datos de registro inválidos", fields)
		return
	}

	applicant, err := h.admissions.CreateApplicant(r.Context(), req)
	if err != nil {
		WriteAdmissionsError(w, err)
		return
	}

	h.bootstrapSession(w, r, applicant)
}

// bootstrapSession cachea el registro, deriva la modalidad si viene en el
// propio registro y responde postulante + token. Reutiliza la sesión del
// contexto cuando existe para no perder la modalidad cacheada antes del
// login.
func (h *Handler) bootstrapSession(w http.ResponseWriter, r *http.Request, applicant *admissions.Applicant) {
	ctx := r.Context()

	sess := httpmiddleware.GetSession(ctx)
	if sess == nil {
		sess = h.sessions.Session(uuid.NewString())
		h.metrics.SessionsStarted.Inc()
	}

	sess.SetApplicantRecord(ctx, applicant)
	if applicant.ExamIsVirtual != nil {
		sess.SetVirtualFlag(ctx, *applicant.ExamIsVirtual)
	}

	token, err := h.tokens.Generate(sess.ID())
	if err != nil {
		log.Error().Err(err).Msg("no se pudo emitir token de sesión")
		WriteError(w, http.StatusInternalServerError, "error interno", nil)
		return
	}

	remaining, _ := sess.RemainingSeconds(ctx)
	WriteSuccess(w, http.StatusOK, map[string]any{
		"applicant": applicant,
		"session": sessionPayload{
			Token:            token,
			TTLMinutes:       sess.TTLMinutes(ctx),
			RemainingSeconds: remaining,
		},
	})
}

// Logout elimina el sobre completo.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := httpmiddleware.GetSession(r.Context())
	sess.ClearAll(r.Context())
	WriteSuccessMessage(w, http.StatusOK, "sesión cerrada", nil)
}

// RestartSession elimina postulante y registro pero conserva la
// modalidad y la fecha del examen, para empezar de nuevo sin perder el
// contexto virtual/presencial.
func (h *Handler) RestartSession(w http.ResponseWriter, r *http.Request) {
	sess := httpmiddleware.GetSession(r.Context())
	sess.ClearApplicantOnly(r.Context())
	WriteSuccessMessage(w, http.StatusOK, "inscripción reiniciada", nil)
}
