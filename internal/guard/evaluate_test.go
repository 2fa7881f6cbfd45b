package guard

import (
	"context"
	"testing"

	"github.com/admisionuni/simulacro-intranet/internal/admissions"
	"github.com/admisionuni/simulacro-intranet/internal/session"
)

func ts(v string) *string { return &v }

func seededSession(t *testing.T, applicant *admissions.Applicant, isVirtual *bool) *session.Session {
	t.Helper()
	m := session.NewManager(session.NewMemoryStore(), 60)
	sess := m.Session("s1")
	ctx := context.Background()
	if isVirtual != nil {
		sess.SetVirtualFlag(ctx, *isVirtual)
	}
	if applicant != nil {
		sess.SetApplicantRecord(ctx, applicant)
	}
	return sess
}

func TestEvaluateWithoutSession(t *testing.T) {
	got := Evaluate(context.Background(), nil, PagePaymentsData)
	if got.State != StateUnauthenticated || got.Redirect != PageLanding {
		t.Fatalf("sin sesión: %+v", got)
	}
}

func TestEvaluateFreshApplicantAllowsWizardBlocksFinal(t *testing.T) {
	virtual := true
	sess := seededSession(t, &admissions.Applicant{UUID: "u-1"}, &virtual)
	ctx := context.Background()

	if got := Evaluate(ctx, sess, PagePaymentsData); !got.Allow {
		t.Fatalf("wizard bloqueado para postulante sin confirmar: %+v", got)
	}
	got := Evaluate(ctx, sess, PageFinal)
	if got.Allow || got.Redirect != PagePersonalDataConfirm {
		t.Fatalf("ficha final permitida sin confirmación: %+v", got)
	}
}

func TestEvaluateFullyConfirmedLocksToFinal(t *testing.T) {
	presencial := false
	applicant := &admissions.Applicant{
		UUID: "u-1",
		Process: admissions.Process{
			PreRegistration: ts("t1"),
			Payment:         ts("t2"),
			PhotoReviewedAt: ts("t3"),
			Confirmation:    ts("t4"),
		},
	}
	sess := seededSession(t, applicant, &presencial)
	ctx := context.Background()

	got := Evaluate(ctx, sess, PagePersonalPhoto)
	if got.State != StateLockedToFinal || got.Redirect != PageFinal {
		t.Fatalf("confirmado no quedó bloqueado hacia la final: %+v", got)
	}
	if got := Evaluate(ctx, sess, PageFinal); !got.Allow {
		t.Fatalf("la ficha final no renderizó para confirmado: %+v", got)
	}
}

func TestEvaluatePresencialPendingPhotoStaysInWizard(t *testing.T) {
	presencial := false
	applicant := &admissions.Applicant{
		UUID: "u-1",
		Process: admissions.Process{
			PreRegistration: ts("t1"),
			Payment:         ts("t2"),
			Confirmation:    ts("t4"),
		},
	}
	sess := seededSession(t, applicant, &presencial)

	got := Evaluate(context.Background(), sess, PageFinal)
	if got.Allow {
		t.Fatalf("presencial sin foto revisada alcanzó la ficha final: %+v", got)
	}
}
