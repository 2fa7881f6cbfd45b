// Package guard decide qué página del wizard puede alcanzar una sesión.
// La decisión es una función pura sobre el estado ya derivado; no hace
// I/O, así la tabla de transiciones se prueba sin framework alguno.
package guard

// State es el estado explícito del guard.
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateChecking        State = "checking"
	StateActiveWizard    State = "active_wizard"
	StateLockedToFinal   State = "locked_to_final"
)

// Páginas del wizard del intranet.
const (
	PageLanding             = "/"
	PagePersonalData        = "/intranet/personal-data"
	PagePersonalDataConfirm = "/intranet/personal-data-confirm"
	PagePersonalPhoto       = "/intranet/personal-photo"
	PagePaymentsData        = "/intranet/payments-data"
	PageFinal               = "/intranet/final"
)

// publicPages no exigen sesión: la página de datos personales es la
// puerta de entrada al wizard.
var publicPages = map[string]bool{
	PagePersonalData: true,
}

// wizardPages son las rutas custodiadas conocidas.
var wizardPages = map[string]bool{
	PagePersonalData:        true,
	PagePersonalDataConfirm: true,
	PagePersonalPhoto:       true,
	PagePaymentsData:        true,
	PageFinal:               true,
}

// Input es el estado ya derivado que alimenta la decisión.
type Input struct {
	Page           string
	SessionValid   bool
	FullyConfirmed bool
}

// Decision indica si se renderiza la página o hacia dónde redirigir.
type Decision struct {
	State    State  `json:"state"`
	Allow    bool   `json:"allow"`
	Redirect string `json:"redirect,omitempty"`
}

// IsPublicPage indica si la página está en la lista pública.
func IsPublicPage(page string) bool {
	return publicPages[page]
}

// IsWizardPage indica si la página pertenece al wizard custodiado.
func IsWizardPage(page string) bool {
	return wizardPages[page]
}

// Decide aplica la tabla de transiciones:
//   - página pública: siempre se permite;
//   - sesión inválida: Unauthenticated, redirigir al landing;
//   - confirmado por completo fuera de la página final: LockedToFinal,
//     redirigir a la final (estado terminal, sin vuelta a edición);
//   - no confirmado sobre la página final: redirigir al resumen de
//     confirmación en lugar de permitir la ficha suelta;
//   - en cualquier otro caso: ActiveWizard, renderizar.
func Decide(in Input) Decision {
	if IsPublicPage(in.Page) {
		return Decision{State: StateActiveWizard, Allow: true}
	}

	if !in.SessionValid {
		return Decision{State: StateUnauthenticated, Redirect: PageLanding}
	}

	if in.FullyConfirmed {
		if in.Page == PageFinal {
			return Decision{State: StateLockedToFinal, Allow: true}
		}
		return Decision{State: StateLockedToFinal, Redirect: PageFinal}
	}

	if in.Page == PageFinal {
		return Decision{State: StateActiveWizard, Redirect: PagePersonalDataConfirm}
	}

	return Decision{State: StateActiveWizard, Allow: true}
}
