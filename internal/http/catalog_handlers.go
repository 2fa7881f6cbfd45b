package http

import (
	"net/http"

	httpmiddleware "github.com/admisionuni/simulacro-intranet/internal/http/middleware"
)

// ExamSimulations consulta el estado del simulacro activo. Si el request
// trae sesión, la modalidad y la fecha del examen se cachean en el sobre:
// de ahí sale el flag que decide si el paso de foto existe.
func (h *Handler) ExamSimulations(w http.ResponseWriter, r *http.Request) {
	status, err := h.admissions.SimulationStatus(r.Context())
	if err != nil {
		WriteAdmissionsError(w, err)
		return
	}

	if sess := httpmiddleware.GetSession(r.Context()); sess != nil {
		if status.IsVirtual != nil {
			sess.SetVirtualFlag(r.Context(), *status.IsVirtual)
		}
		if status.ExamDate != nil && *status.ExamDate != "" {
			// Formatos no reconocidos ya quedaron logueados; no frenan la respuesta.
			_ = sess.SetExamDate(r.Context(), *status.ExamDate)
		}
	}

	WriteSuccess(w, http.StatusOK, status)
}

// Genders lista las opciones de género del API.
func (h *Handler) Genders(w http.ResponseWriter, r *http.Request) {
	genders, err := h.admissions.Genders(r.Context())
	if err != nil {
		WriteAdmissionsError(w, err)
		return
	}
	WriteSuccess(w, http.StatusOK, genders)
}

// Departments lista los departamentos de ubigeo.
func (h *Handler) Departments(w http.ResponseWriter, r *http.Request) {
	items, err := h.admissions.Departments(r.Context())
	if err != nil {
		WriteAdmissionsError(w, err)
		return
	}
	WriteSuccess(w, http.StatusOK, items)
}

// Provinces lista las provincias del departamento indicado.
func (h *Handler) Provinces(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("department_code")
	if code == "" {
		WriteError(w, http.StatusBadRequest, "department_code obligatorio", nil)
		return
	}
	items, err := h.admissions.Provinces(r.Context(), code)
	if err != nil {
		WriteAdmissionsError(w, err)
		return
	}
	WriteSuccess(w, http.StatusOK, items)
}

// Districts lista los distritos de la provincia indicada.
func (h *Handler) Districts(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("province_code")
	if code == "" {
		WriteError(w, http.StatusBadRequest, "province_code obligatorio", nil)
		return
	}
	items, err := h.admissions.Districts(r.Context(), code)
	if err != nil {
		WriteAdmissionsError(w, err)
		return
	}
	WriteSuccess(w, http.StatusOK, items)
}
