package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/admisionuni/simulacro-intranet/internal/admissions"
	httpmiddleware "github.com/admisionuni/simulacro-intranet/internal/http/middleware"
	"github.com/admisionuni/simulacro-intranet/internal/process"
	"github.com/admisionuni/simulacro-intranet/internal/util"
)

const maxPhotoBytes = 8 << 20

// requireOwnUUID verifica que el uuid de la ruta coincida con el de la
// sesión. Una sesión sólo opera sobre su propio postulante.
func (h *Handler) requireOwnUUID(w http.ResponseWriter, r *http.Request) (string, bool) {
	pathUUID := chi.URLParam(r, "uuid")
	sess := httpmiddleware.GetSession(r.Context())
	if pathUUID == "" || pathUUID != sess.ApplicantUUID(r.Context()) {
		WriteError(w, http.StatusForbidden, "postulante ajeno a la sesión", nil)
		return "", false
	}
	return pathUUID, true
}

// UpdateApplicant actualiza datos personales vía el API de admisión y
// refresca el registro cacheado (lo que reinicia la expiración).
func (h *Handler) UpdateApplicant(w http.ResponseWriter, r *http.Request) {
	uuid, ok := h.requireOwnUUID(w, r)
	if !ok {
		return
	}

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
	if len(fields) > 0 {
		WriteError(w, http.StatusUnprocessableEntity, "datos inválidos", fields)
		return
	}

	applicant, err := h.admissions.UpdateApplicant(r.Context(), uuid, req)
	if err != nil {
		WriteAdmissionsError(w, err)
		return
	}

	sess := httpmiddleware.GetSession(r.Context())
	sess.SetApplicantRecord(r.Context(), applicant)

	WriteSuccess(w, http.StatusOK, applicant)
}

// ProcessStatus consulta los hitos frescos del proceso, actualiza el
// registro cacheado y devuelve los hitos junto a la evaluación local.
func (h *Handler) ProcessStatus(w http.ResponseWriter, r *http.Request) {
	uuid, ok := h.requireOwnUUID(w, r)
	if !ok {
		return
	}

	milestones, err := h.admissions.ProcessStatus(r.Context(), uuid)
	if err != nil {
		WriteAdmissionsError(w, err)
		return
	}

	ctx := r.Context()
	sess := httpmiddleware.GetSession(ctx)
	record := sess.ApplicantRecord(ctx)
	if record != nil {
		record.Process = *milestones
		sess.SetApplicantRecord(ctx, record)
	}

	isVirtual, known := sess.VirtualFlag(ctx)
	modality := process.ModalityFromFlag(isVirtual, known)

	WriteSuccess(w, http.StatusOK, map[string]any{
		"process":    milestones,
		"evaluation": process.Evaluate(*milestones, modality),
	})
}

// UploadPhoto reenvía la foto al API de admisión y refleja la URL
// resultante en el registro cacheado.
func (h *Handler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	uuid, ok := h.requireOwnUUID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		WriteError(w, http.StatusBadRequest, "foto inválida o demasiado grande", nil)
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, "falta el archivo de foto",
			map[string][]string{"photo": {"archivo obligatorio"}})
		return
	}
	defer file.Close()

	result, err := h.admissions.UploadPhoto(r.Context(), uuid, header.Filename, file)
	if err != nil {
		WriteAdmissionsError(w, err)
		return
	}

	ctx := r.Context()
	sess := httpmiddleware.GetSession(ctx)
	if record := sess.ApplicantRecord(ctx); record != nil && result.PhotoURL != nil {
		record.PhotoURL = result.PhotoURL
		sess.SetApplicantRecord(ctx, record)
	}

	WriteSuccessMessage(w, http.StatusOK, result.Message, map[string]any{
		"photo_url": result.PhotoURL,
	})
}

// PhotoReview consulta el estado de revisión de la foto.
func (h *Handler) PhotoReview(w http.ResponseWriter, r *http.Request) {
	uuid, ok := h.requireOwnUUID(w, r)
	if !ok {
		return
	}

	review, err := h.admissions.PhotoReview(r.Context(), uuid)
	if err != nil {
		WriteAdmissionsError(w, err)
		return
	}
	WriteSuccess(w, http.StatusOK, review)
}

// Confirm confirma el resumen final del postulante de la sesión. El uuid
// sale del sobre, nunca del cuerpo.
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := httpmiddleware.GetSession(ctx)
	uuid := sess.ApplicantUUID(ctx)

	applicant, err := h.admissions.ConfirmApplicant(ctx, uuid)
	if err != nil {
		WriteAdmissionsError(w, err)
		return
	}

	if applicant != nil && applicant.UUID != "" {
		sess.SetApplicantRecord(ctx, applicant)
	}

	WriteSuccessMessage(w, http.StatusOK, "inscripción confirmada", applicant)
}
