package admissions

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

var (
	// ErrNotFound se devuelve cuando la búsqueda no encuentra postulante.
	// Es un resultado negativo normal, no una falla del API.
	ErrNotFound = errors.New("postulante no encontrado")
)

// Error normaliza cualquier falla del API de admisión en un valor único
// que los handlers pueden inspeccionar sin conocer detalles de transporte.
type Error struct {
	Status  int
	Message string
	Fields  map[string][]string
	Timeout bool
}

func (e *Error) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("admissions: status %d", e.Status)
	}
	return e.Message
}

// Client encapsula llamadas al API remoto de admisión. No implementa
// reintentos: una sola llamada acotada por timeout.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// Config describe los parámetros esenciales del cliente.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// New crea un cliente listo para consumir el API de admisión.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("admissions: base URL obligatoria")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		timeout:    timeout,
	}, nil
}

// SimulationStatus consulta el estado del simulacro activo.
func (c *Client) SimulationStatus(ctx context.Context) (*SimulationStatus, error) {
	var status SimulationStatus
	if err := c.doJSON(ctx, http.MethodGet, "/exam-simulations", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// SearchApplicant busca un postulante por DNI y correo. Devuelve
// ErrNotFound cuando no existe registro con esos datos.
func (c *Client) SearchApplicant(ctx context.Context, dni, email string) (*Applicant, error) {
	body := map[string]string{"dni": dni, "email": email}

	var applicant Applicant
	if err := c.doJSON(ctx, http.MethodPost, "/simulation-applicants/search", body, &applicant); err != nil {
		// El API responde la búsqueda fallida como envelope de error sin
		// errores de campo; se traduce a resultado negativo normal.
		var apiErr *Error
		if errors.As(err, &apiErr) && len(apiErr.Fields) == 0 &&
			(apiErr.Status == http.StatusNotFound || apiErr.Status == http.StatusUnprocessableEntity) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &applicant, nil
}

// GetApplicant recupera el registro completo de un postulante.
func (c *Client) GetApplicant(ctx context.Context, uuid string) (*Applicant, error) {
	var applicant Applicant
	path := "/simulation-applicants/" + url.PathEscape(uuid)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &applicant); err != nil {
		return nil, err
	}
	return &applicant, nil
}

// ProcessStatus consulta sólo los hitos del proceso de un postulante.
func (c *Client) ProcessStatus(ctx context.Context, uuid string) (*Process, error) {
	var payload struct {
		Process Process `json:"process"`
	}
	path := "/simulation-applicants/" + url.PathEscape(uuid) + "/status"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}
	return &payload.Process, nil
}

// CreateApplicant registra un nuevo postulante.
func (c *Client) CreateApplicant(ctx context.Context, req CreateApplicantRequest) (*Applicant, error) {
	var applicant Applicant
	if err := c.doJSON(ctx, http.MethodPost, "/simulation-applicants", req, &applicant); err != nil {
		return nil, err
	}
	return &applicant, nil
}

// UpdateApplicant actualiza los datos personales de un postulante.
func (c *Client) UpdateApplicant(ctx context.Context, uuid string, req CreateApplicantRequest) (*Applicant, error) {
	var applicant Applicant
	path := "/simulation-applicants/" + url.PathEscape(uuid)
	if err := c.doJSON(ctx, http.MethodPut, path, req, &applicant); err != nil {
		return nil, err
	}
	return &applicant, nil
}

// ConfirmApplicant confirma el resumen final del postulante.
func (c *Client) ConfirmApplicant(ctx context.Context, uuid string) (*Applicant, error) {
	body := map[string]string{"uuid": uuid}

	var applicant Applicant
	if err := c.doJSON(ctx, http.MethodPost, "/simulation-applicants/confirm", body, &applicant); err != nil {
		return nil, err
	}
	return &applicant, nil
}

// PhotoReview consulta el estado de revisión de la foto.
func (c *Client) PhotoReview(ctx context.Context, uuid string) (*PhotoReview, error) {
	var review PhotoReview
	path := "/simulation-applicants/" + url.PathEscape(uuid) + "/photo-status"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// UploadPhoto reenvía la foto del postulante como multipart/form-data.
func (c *Client) UploadPhoto(ctx context.Context, uuid, filename string, photo io.Reader) (*UploadResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("photo", filename)
	if err != nil {
		return nil, fmt.Errorf("multipart: %w", err)
	}
	if _, err := io.Copy(part, photo); err != nil {
		return nil, fmt.Errorf("multipart: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("multipart: %w", err)
	}

	path := "/simulation-applicants/" + url.PathEscape(uuid) + "/upload-photo"

	env, err := c.doRaw(ctx, http.MethodPost, path, &buf, writer.FormDataContentType())
	if err != nil {
		return nil, err
	}

	result := UploadResult{Message: env.Message}
	if len(env.Data) > 0 {
		var data struct {
			PhotoURL *string `json:"photo_url"`
		}
		if err := json.Unmarshal(env.Data, &data); err == nil {
			result.PhotoURL = data.PhotoURL
		}
	}
	return &result, nil
}

// Genders lista las opciones de género.
func (c *Client) Genders(ctx context.Context) ([]Gender, error) {
	var genders []Gender
	if err := c.doJSON(ctx, http.MethodGet, "/genders", nil, &genders); err != nil {
		return nil, err
	}
	return genders, nil
}

// Departments lista departamentos de ubigeo normalizados.
func (c *Client) Departments(ctx context.Context) ([]NamedItem, error) {
	return c.ubigeos(ctx, "/ubigeos/departments")
}

// Provinces lista provincias del departamento indicado.
func (c *Client) Provinces(ctx context.Context, departmentCode string) ([]NamedItem, error) {
	return c.ubigeos(ctx, "/ubigeos/provinces?department_code="+url.QueryEscape(departmentCode))
}

// Districts lista distritos de la provincia indicada.
func (c *Client) Districts(ctx context.Context, provinceCode string) ([]NamedItem, error) {
	return c.ubigeos(ctx, "/ubigeos/districts?province_code="+url.QueryEscape(provinceCode))
}

// ubigeoItem tolera las distintas formas que el API usa para código y
// nombre según el endpoint y la revisión.
type ubigeoItem struct {
	ID       *int    `json:"id,omitempty"`
	Code     *string `json:"code,omitempty"`
	Name     *string `json:"name,omitempty"`
	Province *string `json:"province,omitempty"`
	District *string `json:"district,omitempty"`
}

func (c *Client) ubigeos(ctx context.Context, path string) ([]NamedItem, error) {
	var raw []ubigeoItem
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}

	items := make([]NamedItem, 0, len(raw))
	for _, item := range raw {
		normalized := NamedItem{}
		switch {
		case item.Code != nil && *item.Code != "":
			normalized.ID = *item.Code
		case item.ID != nil:
			normalized.ID = fmt.Sprintf("%d", *item.ID)
		}
		switch {
		case item.District != nil && *item.District != "":
			normalized.Name = *item.District
		case item.Province != nil && *item.Province != "":
			normalized.Name = *item.Province
		case item.Name != nil:
			normalized.Name = *item.Name
		}
		items = append(items, normalized)
	}
	return items, nil
}

// envelope es la forma estándar de respuesta del API de admisión.
type envelope struct {
	Status  string              `json:"status"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	Errors  map[string][]string `json:"errors"`
}

// doJSON ejecuta la llamada y decodifica envelope.Data en out.
func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	env, err := c.doRaw(ctx, method, path, reader, "application/json")
	if err != nil {
		return err
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &Error{Message: "respuesta inesperada del API de admisión"}
	}
	return nil
}

func (c *Client) doRaw(ctx context.Context, method, path string, body io.Reader, contentType string) (*envelope, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &Error{
				Status:  http.StatusRequestTimeout,
				Message: "la petición excedió el tiempo límite",
				Timeout: true,
			}
		}
		return nil, &Error{Message: "no se pudo contactar al API de admisión"}
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode >= 400 || env.Status == "error" {
		apiErr := &Error{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("error %d del API de admisión", resp.StatusCode),
			Fields:  env.Errors,
		}
		if strings.TrimSpace(env.Message) != "" {
			apiErr.Message = env.Message
		}
		if resp.StatusCode < 400 {
			// El API a veces responde 200 con status=error en el cuerpo.
			apiErr.Status = http.StatusUnprocessableEntity
		}
		return nil, apiErr
	}

	if decodeErr != nil {
		return nil, &Error{Message: "respuesta inesperada del API de admisión"}
	}
	return &env, nil
}
