package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/admisionuni/simulacro-intranet/internal/admissions"
	"github.com/admisionuni/simulacro-intranet/internal/auth"
	"github.com/admisionuni/simulacro-intranet/internal/config"
	"github.com/admisionuni/simulacro-intranet/internal/guard"
	"github.com/admisionuni/simulacro-intranet/internal/metrics"
	"github.com/admisionuni/simulacro-intranet/internal/session"
)

// Un solo registro de métricas por binario de pruebas: promauto usa el
// registry global.
var testMetrics = metrics.New()

func ts(v string) *string { return &v }

type stubAdmissions struct {
	applicant *admissions.Applicant
	status    *admissions.SimulationStatus
	process   *admissions.Process
	review    *admissions.PhotoReview
	upload    *admissions.UploadResult
	searchErr error
}

func (s *stubAdmissions) SimulationStatus(ctx context.Context) (*admissions.SimulationStatus, error) {
	return s.status, nil
}

func (s *stubAdmissions) SearchApplicant(ctx context.Context, dni, email string) (*admissions.Applicant, error) {
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.applicant, nil
}

func (s *stubAdmissions) GetApplicant(ctx context.Context, uuid string) (*admissions.Applicant, error) {
	return s.applicant, nil
}

func (s *stubAdmissions) ProcessStatus(ctx context.Context, uuid string) (*admissions.Process, error) {
	return s.process, nil
}

func (s *stubAdmissions) CreateApplicant(ctx context.Context, req admissions.CreateApplicantRequest) (*admissions.Applicant, error) {
	return s.applicant, nil
}

func (s *stubAdmissions) UpdateApplicant(ctx context.Context, uuid string, req admissions.CreateApplicantRequest) (*admissions.Applicant, error) {
	return s.applicant, nil
}

func (s *stubAdmissions) ConfirmApplicant(ctx context.Context, uuid string) (*admissions.Applicant, error) {
	return s.applicant, nil
}

func (s *stubAdmissions) PhotoReview(ctx context.Context, uuid string) (*admissions.PhotoReview, error) {
	return s.review, nil
}

func (s *stubAdmissions) UploadPhoto(ctx context.Context, uuid, filename string, photo io.Reader) (*admissions.UploadResult, error) {
	return s.upload, nil
}

func (s *stubAdmissions) Genders(ctx context.Context) ([]admissions.Gender, error) {
	return []admissions.Gender{{ID: 1, Name: "Femenino"}}, nil
}

func (s *stubAdmissions) Departments(ctx context.Context) ([]admissions.NamedItem, error) {
	return []admissions.NamedItem{{ID: "150000", Name: "LIMA"}}, nil
}

func (s *stubAdmissions) Provinces(ctx context.Context, code string) ([]admissions.NamedItem, error) {
	return nil, nil
}

func (s *stubAdmissions) Districts(ctx context.Context, code string) ([]admissions.NamedItem, error) {
	return nil, nil
}

func freshApplicant() *admissions.Applicant {
	virtual := true
	return &admissions.Applicant{
		ID:            7,
		UUID:          "u-1",
		DNI:           "12345678",
		FirstNames:    "María Fernanda",
		Email:         "maria@example.com",
		ExamIsVirtual: &virtual,
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Port:              8080,
		SessionTTLMinutes: 60,
		RateLimitPublic:   config.RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000},
		RateLimitSession:  config.RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000},
	}
}

func newTestRouter(stub *stubAdmissions) http.Handler {
	sessions := session.NewManager(session.NewMemoryStore(), 60)
	tokens := auth.NewTokenManager("un-secreto-de-al-menos-32-caracteres!!", time.Hour)
	return NewRouter(testConfig(), sessions, tokens, stub, testMetrics)
}

type testEnvelope struct {
	Status  string              `json:"status"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	Errors  map[string][]string `json:"errors"`
}

func doJSON(t *testing.T, handler http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, testEnvelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var env testEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("respuesta no es envelope JSON: %s", rec.Body.String())
	}
	return rec, env
}

func login(t *testing.T, handler http.Handler) string {
	t.Helper()

	rec, env := doJSON(t, handler, http.MethodPost, "/api/auth/search", "",
		map[string]string{"dni": "12345678", "email": "maria@example.com"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login falló: %d %s", rec.Code, rec.Body.String())
	}

	var data struct {
		Session struct {
			Token string `json:"token"`
		} `json:"session"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if data.Session.Token == "" {
		t.Fatal("login sin token de sesión")
	}
	return data.Session.Token
}

func TestSearchLoginFlow(t *testing.T) {
	handler := newTestRouter(&stubAdmissions{applicant: freshApplicant()})
	token := login(t, handler)

	rec, env := doJSON(t, handler, http.MethodGet, "/api/session", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/session: %d %s", rec.Code, rec.Body.String())
	}

	var data struct {
		Applicant        admissions.Applicant `json:"applicant"`
		RemainingSeconds int64                `json:"remaining_seconds"`
		Process          struct {
			FullyConfirmed bool `json:"fully_confirmed"`
		} `json:"process"`
		IsVirtual *bool `json:"is_virtual"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if data.Applicant.UUID != "u-1" {
		t.Fatalf("postulante cacheado incorrecto: %+v", data.Applicant)
	}
	if data.RemainingSeconds <= 0 {
		t.Fatal("sesión recién creada sin tiempo restante")
	}
	if data.Process.FullyConfirmed {
		t.Fatal("postulante fresco reportado como confirmado")
	}
	if data.IsVirtual == nil || !*data.IsVirtual {
		t.Fatal("la modalidad del registro no quedó cacheada")
	}
}

func TestSearchValidation(t *testing.T) {
	handler := newTestRouter(&stubAdmissions{applicant: freshApplicant()})

	rec, env := doJSON(t, handler, http.MethodPost, "/api/auth/search", "",
		map[string]string{"dni": "123", "email": "no-es-correo"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(env.Errors["dni"]) == 0 || len(env.Errors["email"]) == 0 {
		t.Fatalf("errores de campo ausentes: %+v", env.Errors)
	}
}

func TestSearchMissGuidesToRegistration(t *testing.T) {
	handler := newTestRouter(&stubAdmissions{searchErr: admissions.ErrNotFound})

	rec, env := doJSON(t, handler, http.MethodPost, "/api/auth/search", "",
		map[string]string{"dni": "12345678", "email": "maria@example.com"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if env.Status != "error" || env.Message == "" {
		t.Fatalf("envelope inesperado: %+v", env)
	}
}

func TestGuardedRequiresToken(t *testing.T) {
	handler := newTestRouter(&stubAdmissions{applicant: freshApplicant()})

	rec, _ := doJSON(t, handler, http.MethodGet, "/api/session", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("sin token: %d", rec.Code)
	}
}

func TestNavigationDecisions(t *testing.T) {
	handler := newTestRouter(&stubAdmissions{applicant: freshApplicant()})

	// Sin sesión: redirigir al landing, nunca 401.
	rec, env := doJSON(t, handler, http.MethodGet,
		"/api/session/navigation?page=/intranet/payments-data", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("navegación sin sesión: %d", rec.Code)
	}
	var decision guard.Decision
	if err := json.Unmarshal(env.Data, &decision); err != nil {
		t.Fatal(err)
	}
	if decision.State != guard.StateUnauthenticated || decision.Redirect != guard.PageLanding {
		t.Fatalf("decisión sin sesión: %+v", decision)
	}

	// Con sesión fresca: wizard permitido, final bloqueada.
	token := login(t, handler)

	_, env = doJSON(t, handler, http.MethodGet,
		"/api/session/navigation?page=/intranet/payments-data", token, nil)
	if err := json.Unmarshal(env.Data, &decision); err != nil {
		t.Fatal(err)
	}
	if !decision.Allow {
		t.Fatalf("wizard bloqueado: %+v", decision)
	}

	_, env = doJSON(t, handler, http.MethodGet,
		"/api/session/navigation?page=/intranet/final", token, nil)
	if err := json.Unmarshal(env.Data, &decision); err != nil {
		t.Fatal(err)
	}
	if decision.Allow || decision.Redirect != guard.PagePersonalDataConfirm {
		t.Fatalf("final sin confirmar: %+v", decision)
	}

	// Página desconocida se rechaza.
	rec, _ = doJSON(t, handler, http.MethodGet, "/api/session/navigation?page=/otra", token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("página desconocida: %d", rec.Code)
	}
}

func TestNavigationLockedToFinal(t *testing.T) {
	applicant := freshApplicant()
	applicant.Process = admissions.Process{
		PreRegistration: ts("t1"),
		Payment:         ts("t2"),
		Confirmation:    ts("t4"),
	}
	handler := newTestRouter(&stubAdmissions{applicant: applicant})
	token := login(t, handler)

	_, env := doJSON(t, handler, http.MethodGet,
		"/api/session/navigation?page=/intranet/personal-photo", token, nil)
	var decision guard.Decision
	if err := json.Unmarshal(env.Data, &decision); err != nil {
		t.Fatal(err)
	}
	if decision.State != guard.StateLockedToFinal || decision.Redirect != guard.PageFinal {
		t.Fatalf("confirmado no bloqueado hacia la final: %+v", decision)
	}
}

func TestApplicantUUIDMismatch(t *testing.T) {
	handler := newTestRouter(&stubAdmissions{applicant: freshApplicant()})
	token := login(t, handler)

	rec, _ := doJSON(t, handler, http.MethodGet, "/api/applicants/otro-uuid/status", token, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("uuid ajeno: %d", rec.Code)
	}
}

func TestProcessStatusRefreshesEvaluation(t *testing.T) {
	stub := &stubAdmissions{
		applicant: freshApplicant(),
		process: &admissions.Process{
			PreRegistration: ts("t1"),
			Payment:         ts("t2"),
		},
	}
	handler := newTestRouter(stub)
	token := login(t, handler)

	rec, env := doJSON(t, handler, http.MethodGet, "/api/applicants/u-1/status", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d %s", rec.Code, rec.Body.String())
	}

	var data struct {
		Evaluation struct {
			HasPayment     bool `json:"has_payment"`
			FullyConfirmed bool `json:"fully_confirmed"`
		} `json:"evaluation"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if !data.Evaluation.HasPayment || data.Evaluation.FullyConfirmed {
		t.Fatalf("evaluación inesperada: %+v", data.Evaluation)
	}

	// El registro cacheado quedó actualizado con los hitos frescos.
	_, env = doJSON(t, handler, http.MethodGet, "/api/session", token, nil)
	var info struct {
		Process struct {
			HasPayment bool `json:"has_payment"`
		} `json:"process"`
	}
	if err := json.Unmarshal(env.Data, &info); err != nil {
		t.Fatal(err)
	}
	if !info.Process.HasPayment {
		t.Fatal("los hitos frescos no se reflejaron en la sesión")
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	handler := newTestRouter(&stubAdmissions{applicant: freshApplicant()})
	token := login(t, handler)

	rec, _ := doJSON(t, handler, http.MethodPost, "/api/auth/logout", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout: %d", rec.Code)
	}

	rec, _ = doJSON(t, handler, http.MethodGet, "/api/session", token, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("sesión sobrevivió al logout: %d", rec.Code)
	}
}

func TestRestartClearsApplicant(t *testing.T) {
	handler := newTestRouter(&stubAdmissions{applicant: freshApplicant()})
	token := login(t, handler)

	rec, _ := doJSON(t, handler, http.MethodPost, "/api/session/restart", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("restart: %d", rec.Code)
	}

	rec, _ = doJSON(t, handler, http.MethodGet, "/api/session", token, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("postulante sobrevivió al reinicio: %d", rec.Code)
	}
}

func TestExamSimulationsCachesModality(t *testing.T) {
	presencial := false
	examDate := "15/01/2026"
	stub := &stubAdmissions{
		applicant: freshApplicant(),
		status: &admissions.SimulationStatus{
			IsActive:  true,
			IsVirtual: &presencial,
			ExamDate:  &examDate,
		},
	}
	// El postulante no trae modalidad propia: debe salir del estado del
	// simulacro.
	stub.applicant.ExamIsVirtual = nil

	handler := newTestRouter(stub)
	token := login(t, handler)

	rec, _ := doJSON(t, handler, http.MethodGet, "/api/exam-simulations", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("exam-simulations: %d", rec.Code)
	}

	_, env := doJSON(t, handler, http.MethodGet, "/api/session", token, nil)
	var info struct {
		IsVirtual         *bool  `json:"is_virtual"`
		ExamDate          string `json:"exam_date"`
		ExamDateFormatted string `json:"exam_date_formatted"`
	}
	if err := json.Unmarshal(env.Data, &info); err != nil {
		t.Fatal(err)
	}
	if info.IsVirtual == nil || *info.IsVirtual {
		t.Fatal("modalidad presencial no quedó cacheada")
	}
	if info.ExamDate != "2026-01-15" {
		t.Fatalf("fecha no normalizada: %q", info.ExamDate)
	}
	if !strings.Contains(info.ExamDateFormatted, "Enero") {
		t.Fatalf("fecha formateada: %q", info.ExamDateFormatted)
	}
}

func TestHealthz(t *testing.T) {
	handler := newTestRouter(&stubAdmissions{})
	rec, _ := doJSON(t, handler, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz: %d", rec.Code)
	}
}
