package admissions

// PhotoStatus enumera los estados posibles de revisión de la foto.
type PhotoStatus string

const (
	PhotoPending  PhotoStatus = "pending"
	PhotoApproved PhotoStatus = "approved"
	PhotoRejected PhotoStatus = "rejected"
)

// Process agrupa los hitos del proceso de inscripción. Cada campo es nil
// mientras el hito no se haya completado; el API devuelve un timestamp
// cuando sí.
type Process struct {
	PreRegistration *string `json:"pre_registration"`
	Payment         *string `json:"payment"`
	PhotoReviewedAt *string `json:"photo_reviewed_at"`
	Confirmation    *string `json:"confirmation"`
	Registration    *string `json:"registration,omitempty"`

	// Campos que revisiones recientes del API pueden incluir.
	Photo               *string      `json:"photo,omitempty"`
	PhotoStatus         *PhotoStatus `json:"photo_status,omitempty"`
	PhotoRejectedReason *string      `json:"photo_rejected_reason,omitempty"`
}

// Tariff describe una tarifa disponible para la inscripción.
type Tariff struct {
	ID          int    `json:"id"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
}

// Applicant es el registro del postulante tal como lo entrega el API de
// admisión. El servicio lo cachea en la sesión pero nunca lo posee: la
// fuente de verdad es siempre remota.
type Applicant struct {
	ID             int     `json:"id"`
	UUID           string  `json:"uuid"`
	Code           *string `json:"code"`
	DNI            string  `json:"dni"`
	LastNameFather string  `json:"last_name_father"`
	LastNameMother string  `json:"last_name_mother"`
	FirstNames     string  `json:"first_names"`
	Email          string  `json:"email"`
	PhoneMobile    string  `json:"phone_mobile"`
	PhoneOther     *string `json:"phone_other"`

	ExamDescription string `json:"exam_description"`

	PhotoURL  *string `json:"photo_url,omitempty"`
	PhotoPath *string `json:"photo_path,omitempty"`

	Gender    *string `json:"gender,omitempty"`
	BirthDate *string `json:"birth_date,omitempty"`
	Ubigeo    *string `json:"ubigeo,omitempty"`
	Tariff    *Tariff `json:"tariff,omitempty"`

	IncludeVocational     *bool `json:"include_vocational,omitempty"`
	ExamIsVirtual         *bool `json:"exam_is_virtual,omitempty"`
	ExamIncludeVocational *bool `json:"exam_include_vocational,omitempty"`
	RequiresPhoto         *bool `json:"requires_photo,omitempty"`
	HasPhoto              *bool `json:"has_photo,omitempty"`

	ClassroomAssignment *string `json:"classroom_assignment,omitempty"`

	Process Process `json:"process"`
}

// SimulationStatus describe el estado general del simulacro activo.
// Los campos opcionales dependen de la revisión del API, por eso se
// modelan explícitos en lugar de confiar en la forma dinámica.
type SimulationStatus struct {
	IsActive          bool     `json:"is_active"`
	IsInscriptionOpen *bool    `json:"is_inscription_open,omitempty"`
	Description       *string  `json:"description,omitempty"`
	ExamDateStart     *string  `json:"exam_date_start,omitempty"`
	ExamDateEnd       *string  `json:"exam_date_end,omitempty"`
	ExamDate          *string  `json:"exam_date,omitempty"`
	IsVirtual         *bool    `json:"is_virtual,omitempty"`
	IsVocational      *bool    `json:"is_vocational,omitempty"`
	AvailableTariffs  []Tariff `json:"available_tariffs,omitempty"`
	Message           *string  `json:"message,omitempty"`
}

// CreateApplicantRequest contiene los datos personales del registro inicial.
type CreateApplicantRequest struct {
	DNI               string  `json:"dni"`
	LastNameFather    string  `json:"last_name_father"`
	LastNameMother    string  `json:"last_name_mother"`
	FirstNames        string  `json:"first_names"`
	Email             string  `json:"email"`
	PhoneMobile       string  `json:"phone_mobile"`
	PhoneOther        *string `json:"phone_other,omitempty"`
	GenderID          *int    `json:"gender_id,omitempty"`
	BirthDate         *string `json:"birth_date,omitempty"`
	Ubigeo            *string `json:"ubigeo,omitempty"`
	TariffID          *int    `json:"tariff_id,omitempty"`
	IncludeVocational *bool   `json:"include_vocational,omitempty"`
}

// PhotoReview resume el estado de revisión de la foto de un postulante.
type PhotoReview struct {
	Found          bool         `json:"found"`
	Status         *PhotoStatus `json:"photo_status,omitempty"`
	RejectedReason *string      `json:"photo_rejected_reason,omitempty"`
	Message        *string      `json:"message,omitempty"`
}

// UploadResult describe la respuesta al subir una foto.
type UploadResult struct {
	Message  string  `json:"message"`
	PhotoURL *string `json:"photo_url,omitempty"`
}

// Gender es una opción de género expuesta por el API.
type Gender struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// NamedItem es un ubigeo normalizado a par id/nombre, listo para un select.
// El API devuelve `code` o `id` y el nombre bajo claves distintas según el
// endpoint; la normalización vive en el cliente.
type NamedItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
