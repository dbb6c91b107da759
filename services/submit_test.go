package services_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"SafeEduBackend/database/memstore"
	"SafeEduBackend/logger"
	"SafeEduBackend/models"
	"SafeEduBackend/services"
)

// certWriteFailure is a store whose certificate writes always fail.
type certWriteFailure struct {
	*memstore.DB
}

func (certWriteFailure) CreateCertificate(context.Context, *models.Certificate) error {
	return errors.New("disk full")
}

func TestSubmit_CertificateFailureLeavesRepairableAttempt(t *testing.T) {
	f := newFixture(t, services.Options{})
	f.addQuestion(t, testCourse, 0)

	core, logs := observer.New(zapcore.InfoLevel)
	broken, err := services.NewPortal(certWriteFailure{f.store}, services.Options{}, logger.FromZap(zap.New(core)))
	if err != nil {
		t.Fatalf("NewPortal: %v", err)
	}

	_, err = broken.Assessments.Submit(f.ctx, "USR-1", testCourse, []int{0})
	assertKind(t, err, services.KindInternal)

	attempts, err := f.portal.Assessments.ListAttempts(f.ctx, "USR-1", testCourse)
	if err != nil || len(attempts) != 1 || !attempts[0].Passed {
		t.Fatalf("expected one stored passed attempt, got %+v, %v", attempts, err)
	}
	attemptID := attempts[0].ID

	entries := logs.FilterMessage("certificate not issued for passed attempt").All()
	if len(entries) != 1 {
		t.Fatalf("expected the failure to be logged once, got %d entries", len(entries))
	}
	if got := entries[0].ContextMap()["user_assessment_id"]; got != attemptID {
		t.Fatalf("logged attempt id %v, want %s", got, attemptID)
	}

	cert, err := f.portal.Certification.Issue(f.ctx, "USR-1", testCourse, attemptID)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if cert.UserAssessmentID != attemptID {
		t.Fatalf("certificate for %s, want %s", cert.UserAssessmentID, attemptID)
	}
	certs, _ := f.portal.Certification.ListForUser(f.ctx, "USR-1")
	if len(certs) != 1 {
		t.Fatalf("expected one certificate after repair, got %d", len(certs))
	}
}
