package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/admisionuni/simulacro-intranet/internal/admissions"
)

// Retención física en el backend; la expiración lógica (TTL de sesión)
// es siempre más corta y se evalúa en el gate.
const storeRetention = 24 * time.Hour

// Envelope es el sobre de sesión: el único estado mutable del lado del
// servicio. El registro del postulante es un espejo del API de admisión,
// nunca la fuente de verdad.
type Envelope struct {
	ApplicantUUID string          `json:"applicant_uuid,omitempty"`
	Applicant     json.RawMessage `json:"applicant,omitempty"`
	IsVirtual     *bool           `json:"is_virtual,omitempty"`
	ExamDate      string          `json:"exam_date,omitempty"`
	TTLMinutes    int             `json:"ttl_minutes,omitempty"`
	ExpiresAt     string          `json:"expires_at,omitempty"`
}

// Manager fabrica sesiones atadas a un Store compartido.
type Manager struct {
	store      Store
	defaultTTL int
	now        func() time.Time
}

// NewManager crea el manager con el TTL por defecto en minutos (mínimo 1).
func NewManager(store Store, defaultTTLMinutes int) *Manager {
	if defaultTTLMinutes < 1 {
		defaultTTLMinutes = 1
	}
	return &Manager{store: store, defaultTTL: defaultTTLMinutes, now: time.Now}
}

// Session devuelve la vista de operaciones sobre una sesión concreta.
func (m *Manager) Session(id string) *Session {
	return &Session{m: m, id: id}
}

// Session expone las operaciones del sobre para un id dado. Toda falla de
// almacenamiento degrada a no-op: las lecturas devuelven valores cero y
// las escrituras se omiten, nunca se propaga un error al flujo del wizard.
type Session struct {
	m  *Manager
	id string
}

// ID devuelve el identificador de la sesión.
func (s *Session) ID() string {
	return s.id
}

func (s *Session) load(ctx context.Context) *Envelope {
	if s == nil || s.m == nil || s.m.store == nil {
		return &Envelope{}
	}
	payload, err := s.m.store.Get(ctx, s.id)
	if err != nil {
		log.Warn().Err(err).Msg("sesión: lectura fallida, se asume vacía")
		return &Envelope{}
	}
	if len(payload) == 0 {
		return &Envelope{}
	}
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		// Datos corruptos se tratan como ausencia de datos.
		log.Warn().Str("session", s.id).Msg("sesión: sobre corrupto descartado")
		return &Envelope{}
	}
	return &env
}

func (s *Session) save(ctx context.Context, env *Envelope) {
	if s == nil || s.m == nil || s.m.store == nil {
		return
	}
	payload, err := json.Marshal(env)
	if err != nil {
		log.Warn().Err(err).Msg("sesión: serialización fallida, escritura omitida")
		return
	}
	if err := s.m.store.Put(ctx, s.id, payload, storeRetention); err != nil {
		log.Warn().Err(err).Msg("sesión: escritura omitida")
	}
}

// SetVirtualFlag registra la modalidad del simulacro.
func (s *Session) SetVirtualFlag(ctx context.Context, isVirtual bool) {
	env := s.load(ctx)
	env.IsVirtual = &isVirtual
	s.save(ctx, env)
}

// VirtualFlag devuelve la modalidad y si ya fue conocida. known es false
// antes del primer fetch del estado del simulacro.
func (s *Session) VirtualFlag(ctx context.Context) (isVirtual bool, known bool) {
	env := s.load(ctx)
	if env.IsVirtual == nil {
		return false, false
	}
	return *env.IsVirtual, true
}

// SetExamDate normaliza y guarda la fecha del examen. Formatos no
// reconocidos se rechazan sin almacenar. Cadena vacía limpia la fecha.
func (s *Session) SetExamDate(ctx context.Context, raw string) error {
	env := s.load(ctx)
	if raw == "" {
		env.ExamDate = ""
		s.save(ctx, env)
		return nil
	}
	iso, err := NormalizeExamDate(raw)
	if err != nil {
		log.Warn().Str("raw", raw).Msg("sesión: fecha de examen rechazada")
		return err
	}
	env.ExamDate = iso
	s.save(ctx, env)
	return nil
}

// ExamDate devuelve la fecha ISO cacheada o cadena vacía.
func (s *Session) ExamDate(ctx context.Context) string {
	return s.load(ctx).ExamDate
}

// ExamDateFormatted devuelve la fecha larga en español
// ("Jueves, 15 de Enero de 2026") o cadena vacía si no hay fecha válida.
func (s *Session) ExamDateFormatted(ctx context.Context) string {
	iso := s.load(ctx).ExamDate
	if iso == "" {
		return ""
	}
	return FormatLongDate(iso)
}

// SetApplicantRecord reemplaza el registro cacheado, rederiva el uuid y
// reinicia la expiración de la sesión a ahora + TTL.
func (s *Session) SetApplicantRecord(ctx context.Context, applicant *admissions.Applicant) {
	if applicant == nil {
		return
	}
	payload, err := json.Marshal(applicant)
	if err != nil {
		log.Warn().Err(err).Msg("sesión: registro no serializable, escritura omitida")
		return
	}

	env := s.load(ctx)
	env.Applicant = payload
	env.ApplicantUUID = applicant.UUID

	ttl := env.TTLMinutes
	if ttl < 1 {
		ttl = s.m.defaultTTL
	}
	env.ExpiresAt = s.m.now().Add(time.Duration(ttl) * time.Minute).UTC().Format(time.RFC3339)
	s.save(ctx, env)
}

// ApplicantRecord devuelve el registro cacheado o nil si falta o está
// corrupto.
func (s *Session) ApplicantRecord(ctx context.Context) *admissions.Applicant {
	env := s.load(ctx)
	if len(env.Applicant) == 0 {
		return nil
	}
	var applicant admissions.Applicant
	if err := json.Unmarshal(env.Applicant, &applicant); err != nil {
		return nil
	}
	return &applicant
}

// ApplicantUUID devuelve el uuid cacheado o cadena vacía.
func (s *Session) ApplicantUUID(ctx context.Context) string {
	return s.load(ctx).ApplicantUUID
}

// HasApplicant indica si hay un postulante cacheado.
func (s *Session) HasApplicant(ctx context.Context) bool {
	return s.load(ctx).ApplicantUUID != ""
}

// SetTTLMinutes ajusta el TTL de la sesión; mínimo 1 minuto.
func (s *Session) SetTTLMinutes(ctx context.Context, minutes int) {
	if minutes < 1 {
		minutes = 1
	}
	env := s.load(ctx)
	env.TTLMinutes = minutes
	s.save(ctx, env)
}

// TTLMinutes devuelve el TTL vigente en minutos.
func (s *Session) TTLMinutes(ctx context.Context) int {
	env := s.load(ctx)
	if env.TTLMinutes < 1 {
		return s.m.defaultTTL
	}
	return env.TTLMinutes
}

// ClearApplicantOnly elimina uuid y registro pero conserva modalidad y
// fecha de examen. Se usa al reiniciar la inscripción sin perder el
// contexto virtual/presencial.
func (s *Session) ClearApplicantOnly(ctx context.Context) {
	env := s.load(ctx)
	env.ApplicantUUID = ""
	env.Applicant = nil
	s.save(ctx, env)
}

// ClearAll elimina el sobre completo (logout).
func (s *Session) ClearAll(ctx context.Context) {
	if s == nil || s.m == nil || s.m.store == nil {
		return
	}
	if err := s.m.store.Delete(ctx, s.id); err != nil {
		log.Warn().Err(err).Msg("sesión: borrado fallido")
	}
}
