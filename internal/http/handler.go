package http

import (
	"context"
	"io"

	"github.com/admisionuni/simulacro-intranet/internal/admissions"
	"github.com/admisionuni/simulacro-intranet/internal/auth"
	"github.com/admisionuni/simulacro-intranet/internal/config"
	"github.com/admisionuni/simulacro-intranet/internal/metrics"
	"github.com/admisionuni/simulacro-intranet/internal/session"
)

// admissionsClient es la porción del cliente de admisión que los handlers
// consumen; como interfaz, las pruebas la sustituyen por un stub.
type admissionsClient interface {
	SimulationStatus(ctx context.Context) (*admissions.SimulationStatus, error)
	SearchApplicant(ctx context.Context, dni, email string) (*admissions.Applicant, error)
	GetApplicant(ctx context.Context, uuid string) (*admissions.Applicant, error)
	ProcessStatus(ctx context.Context, uuid string) (*admissions.Process, error)
	CreateApplicant(ctx context.Context, req admissions.CreateApplicantRequest) (*admissions.Applicant, error)
	UpdateApplicant(ctx context.Context, uuid string, req admissions.CreateApplicantRequest) (*admissions.Applicant, error)
	ConfirmApplicant(ctx context.Context, uuid string) (*admissions.Applicant, error)
	PhotoReview(ctx context.Context, uuid string) (*admissions.PhotoReview, error)
	UploadPhoto(ctx context.Context, uuid, filename string, photo io.Reader) (*admissions.UploadResult, error)
	Genders(ctx context.Context) ([]admissions.Gender, error)
	Departments(ctx context.Context) ([]admissions.NamedItem, error)
	Provinces(ctx context.Context, departmentCode string) ([]admissions.NamedItem, error)
	Districts(ctx context.Context, provinceCode string) ([]admissions.NamedItem, error)
}

// Handler concentra las dependencias de los handlers HTTP.
type Handler struct {
	cfg        *config.Config
	sessions   *session.Manager
	tokens     *auth.TokenManager
	admissions admissionsClient
	metrics    *metrics.Metrics
}

// NewHandler crea el conjunto de handlers.
func NewHandler(cfg *config.Config, sessions *session.Manager, tokens *auth.TokenManager, client admissionsClient, m *metrics.Metrics) *Handler {
	return &Handler{
		cfg:        cfg,
		sessions:   sessions,
		tokens:     tokens,
		admissions: client,
		metrics:    m,
	}
}
