// Package process evalúa qué hitos del registro están completos a partir
// del sub-registro Process cacheado y la modalidad del simulacro.
package process

import "github.com/admisionuni/simulacro-intranet/internal/admissions"

// Modality es la modalidad del examen tal como la conoce la sesión.
type Modality int

const (
	// ModalityUnknown significa que el estado del simulacro nunca se
	// consultó. Se trata como virtual: no se bloquea por un requisito de
	// foto que no se confirmó que exista.
	ModalityUnknown Modality = iota
	ModalityVirtual
	ModalityPresencial
)

// ModalityFromFlag traduce el par (valor, conocido) del sobre de sesión.
func ModalityFromFlag(isVirtual, known bool) Modality {
	switch {
	case !known:
		return ModalityUnknown
	case isVirtual:
		return ModalityVirtual
	default:
		return ModalityPresencial
	}
}

// RequiresPhoto indica si la modalidad exige foto revisada. Sólo la
// modalidad presencial la exige.
func (m Modality) RequiresPhoto() bool {
	return m == ModalityPresencial
}

// Step identifica una acción pendiente del postulante, para mensajería.
type Step string

const (
	StepPersonalData Step = "personal_data"
	StepPayment      Step = "payment"
	StepPhotoReview  Step = "photo_review"
)

// StepLabels asocia cada paso pendiente a su mensaje para el wizard.
var StepLabels = map[Step]string{
	StepPersonalData: "Registrar datos personales",
	StepPayment:      "Registrar el pago",
	StepPhotoReview:  "Esperar la revisión de la foto",
}

// Status es el resultado de la evaluación.
type Status struct {
	HasPersonalData  bool   `json:"has_personal_data"`
	HasPayment       bool   `json:"has_payment"`
	RequiresPhoto    bool   `json:"requires_photo"`
	HasPhotoReviewed bool   `json:"has_photo_reviewed"`
	HasConfirmation  bool   `json:"has_confirmation"`
	FullyConfirmed   bool   `json:"fully_confirmed"`
	Outstanding      []Step `json:"outstanding,omitempty"`
}

// Evaluate rederiva cada hito de forma independiente. FullyConfirmed
// nunca se decide mirando sólo confirmation: el API puede marcarla antes
// que el resto de los hitos y el cliente se protege de esa inconsistencia.
func Evaluate(p admissions.Process, modality Modality) Status {
	status := Status{
		HasPersonalData: p.PreRegistration != nil,
		HasPayment:      p.Payment != nil,
		RequiresPhoto:   modality.RequiresPhoto(),
		HasConfirmation: p.Confirmation != nil,
	}
	status.HasPhotoReviewed = !status.RequiresPhoto || p.PhotoReviewedAt != nil

	status.FullyConfirmed = status.HasConfirmation &&
		status.HasPersonalData &&
		status.HasPayment &&
		status.HasPhotoReviewed

	if !status.HasPersonalData {
		status.Outstanding = append(status.Outstanding, StepPersonalData)
	}
	if !status.HasPayment {
		status.Outstanding = append(status.Outstanding, StepPayment)
	}
	if status.RequiresPhoto && p.PhotoReviewedAt == nil {
		status.Outstanding = append(status.Outstanding, StepPhotoReview)
	}

	return status
}
