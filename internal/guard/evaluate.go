package guard

import (
	"context"

	"github.com/admisionuni/simulacro-intranet/internal/process"
	"github.com/admisionuni/simulacro-intranet/internal/session"
)

// Evaluate corre el gate de validez y el evaluador de proceso sobre la
// sesión y decide la navegación para la página pedida. Sólo lee estado
// cacheado: nunca toca la red, así la evaluación no suspende.
//
// Cualquier falla al leer estado cacheado se trata como sesión inválida:
// la falta de datos bloquea navegación, jamás supone completitud.
func Evaluate(ctx context.Context, sess *session.Session, page string) Decision {
	in := Input{Page: page}

	if sess != nil && sess.IsValid(ctx) {
		record := sess.ApplicantRecord(ctx)
		if record != nil {
			in.SessionValid = true
			modality := process.ModalityFromFlag(sess.VirtualFlag(ctx))
			in.FullyConfirmed = process.Evaluate(record.Process, modality).FullyConfirmed
		}
	}

	return Decide(in)
}
