package http

import (
	"net/http"

	"github.com/admisionuni/simulacro-intranet/internal/guard"
	httpmiddleware "github.com/admisionuni/simulacro-intranet/internal/http/middleware"
	"github.com/admisionuni/simulacro-intranet/internal/process"
)

// SessionInfo resume el sobre de sesión para el frontend: postulante
// cacheado, tiempo restante, fecha de examen y evaluación del proceso.
func (h *Handler) SessionInfo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := httpmiddleware.GetSession(ctx)

	record := sess.ApplicantRecord(ctx)
	if record == nil {
		WriteError(w, http.StatusUnauthorized, "sesión sin postulante", nil)
		return
	}

	remaining, _ := sess.RemainingSeconds(ctx)
	isVirtual, known := sess.VirtualFlag(ctx)
	modality := process.ModalityFromFlag(isVirtual, known)

	data := map[string]any{
		"applicant":         record,
		"remaining_seconds": remaining,
		"ttl_minutes":       sess.TTLMinutes(ctx),
		"process":           process.Evaluate(record.Process, modality),
	}
	if known {
		data["is_virtual"] = isVirtual
	}
	if examDate := sess.ExamDate(ctx); examDate != "" {
		data["exam_date"] = examDate
		data["exam_date_formatted"] = sess.ExamDateFormatted(ctx)
	}

	WriteSuccess(w, http.StatusOK, data)
}

// Navigation decide si la página pedida del wizard se permite o hacia
// dónde redirigir. Es pública a propósito: una sesión ausente devuelve la
// decisión de redirigir al landing, no un 401.
func (h *Handler) Navigation(w http.ResponseWriter, r *http.Request) {
	page := r.URL.Query().Get("page")
	if page == "" || !guard.IsWizardPage(page) {
		WriteError(w, http.StatusBadRequest, "página desconocida", nil)
		return
	}

	sess := httpmiddleware.GetSession(r.Context())
	decision := guard.Evaluate(r.Context(), sess, page)
	WriteSuccess(w, http.StatusOK, decision)
}
