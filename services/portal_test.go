package services_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
	"golang.org/x/crypto/bcrypt"

	"SafeEduBackend/database/memstore"
	"SafeEduBackend/logger"
	"SafeEduBackend/models"
	"SafeEduBackend/services"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testCourse = "course-1"

func intPtr(v int) *int       { return &v }
func boolPtr(v bool) *bool    { return &v }
func strPtr(v string) *string { return &v }

type fixture struct {
	ctx    context.Context
	store  *memstore.DB
	portal *services.Portal
}

func newFixture(t *testing.T, opts services.Options) *fixture {
	t.Helper()
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.MinCost
	}
	store := memstore.Open()
	t.Cleanup(func() { store.Close() })

	portal, err := services.NewPortal(store, opts, logger.Nop())
	if err != nil {
		t.Fatalf("NewPortal: %v", err)
	}
	f := &fixture{ctx: context.Background(), store: store, portal: portal}

	if _, err := portal.Catalog.Create(f.ctx, models.CourseCreate{
		ID:          testCourse,
		Title:       "Aerial Work Platform Safety",
		Description: "Harness and emergency procedures",
		Type:        models.CourseWorkplaceSafety,
		Duration:    7,
	}); err != nil {
		t.Fatalf("create course: %v", err)
	}
	return f
}

func (f *fixture) addQuestion(t *testing.T, courseID string, correct int) *models.Assessment {
	t.Helper()
	q, err := f.portal.Assessments.CreateQuestion(f.ctx, models.AssessmentCreate{
		CourseID:      courseID,
		Question:      "What is the most important rule?",
		Options:       []string{"Wear a harness", "Work faster", "Skip checks", "Shorten breaks"},
		CorrectAnswer: correct,
	})
	if err != nil {
		t.Fatalf("create question: %v", err)
	}
	return q
}

func asError(err error, target **services.Error) bool {
	return errors.As(err, target)
}

// waitForClockTick blocks until the clock has moved past t so consecutive
// records get distinct timestamps.
func waitForClockTick(t time.Time) {
	for !time.Now().UTC().After(t) {
		time.Sleep(time.Millisecond)
	}
}

func assertKind(t *testing.T, err error, want services.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	if got := services.KindOf(err); got != want {
		t.Fatalf("expected %s error, got %s (%v)", want, got, err)
	}
}

func TestNewPortal_RejectsThreshold(t *testing.T) {
	for _, threshold := range []float64{-0.1, 1.01} {
		if _, err := services.NewPortal(memstore.Open(), services.Options{PassThreshold: threshold}, logger.Nop()); err == nil {
			t.Fatalf("expected threshold %v to be rejected", threshold)
		}
	}
}

func TestIdentity_RegisterAndAuthenticate(t *testing.T) {
	f := newFixture(t, services.Options{})
	id := f.portal.Identity

	user, err := id.Register(f.ctx, models.UserSignup{
		Username:   "alice",
		Email:      "alice@x.com",
		Password:   "secret1",
		Department: "Safety",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Password != "" {
		t.Fatal("registered user must not carry the password hash")
	}
	if user.Role != models.RoleUser {
		t.Fatalf("expected default role user, got %q", user.Role)
	}

	got, err := id.Authenticate(f.ctx, "alice@x.com", "secret1")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got.ID != user.ID || got.Password != "" {
		t.Fatalf("unexpected authenticated user: %+v", got)
	}

	_, err = id.Authenticate(f.ctx, "alice@x.com", "wrong-password")
	assertKind(t, err, services.KindUnauthorized)

	_, err = id.Authenticate(f.ctx, "nobody@x.com", "secret1")
	assertKind(t, err, services.KindUnauthorized)

	me, err := id.GetUser(f.ctx, user.ID)
	if err != nil || me.Email != "alice@x.com" {
		t.Fatalf("GetUser: %+v, %v", me, err)
	}
	_, err = id.GetUser(f.ctx, "USR-missing")
	assertKind(t, err, services.KindNotFound)
}

func TestIdentity_Register_Rejects(t *testing.T) {
	f := newFixture(t, services.Options{})
	valid := models.UserSignup{Username: "bob", Email: "bob@x.com", Password: "secret1", Department: "Ops"}
	if _, err := f.portal.Identity.Register(f.ctx, valid); err != nil {
		t.Fatalf("Register: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*models.UserSignup)
		want   services.Kind
	}{
		{"duplicate email", func(s *models.UserSignup) {}, services.KindConflict},
		{"duplicate email other case", func(s *models.UserSignup) { s.Email = "BOB@X.com" }, services.KindConflict},
		{"bad email", func(s *models.UserSignup) { s.Email = "bob" }, services.KindValidation},
		{"short password", func(s *models.UserSignup) { s.Email = "c@x.com"; s.Password = "12345" }, services.KindValidation},
		{"missing department", func(s *models.UserSignup) { s.Email = "d@x.com"; s.Department = "  " }, services.KindValidation},
		{"missing username", func(s *models.UserSignup) { s.Email = "e@x.com"; s.Username = "" }, services.KindValidation},
		{"unknown role", func(s *models.UserSignup) { s.Email = "f@x.com"; s.Role = "root" }, services.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			_, err := f.portal.Identity.Register(f.ctx, s)
			assertKind(t, err, tt.want)
		})
	}
}

func TestIdentity_ValidationReportsJSONFieldNames(t *testing.T) {
	f := newFixture(t, services.Options{})
	_, err := f.portal.Identity.Register(f.ctx, models.UserSignup{Username: "x", Email: "nope", Password: "secret1", Department: "Ops"})

	var svcErr *services.Error
	if !asError(err, &svcErr) {
		t.Fatalf("expected *services.Error, got %T", err)
	}
	if len(svcErr.Fields) != 1 || svcErr.Fields[0].Field != "email" {
		t.Fatalf("expected a single email field error, got %+v", svcErr.Fields)
	}
}

func TestCatalog(t *testing.T) {
	f := newFixture(t, services.Options{})
	cat := f.portal.Catalog

	inactive := false
	if _, err := cat.Create(f.ctx, models.CourseCreate{
		ID: "course-hidden", Title: "Retired", Description: "Old", Type: models.CourseTBM, Duration: 3, IsActive: &inactive,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := cat.Create(f.ctx, models.CourseCreate{
		Title: "Excavator Safety", Description: "Swing radius", Type: models.CourseHazardPrevention, Duration: 7,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !strings.HasPrefix(second.ID, "CRS-") || second.Color != "blue" || !second.IsActive {
		t.Fatalf("defaults not applied: %+v", second)
	}

	active, err := cat.ListActive(f.ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(active) != 2 || active[0].ID != testCourse || active[1].ID != second.ID {
		t.Fatalf("expected active courses in insertion order, got %+v", active)
	}

	_, err = cat.Get(f.ctx, "course-missing")
	assertKind(t, err, services.KindNotFound)

	_, err = cat.Create(f.ctx, models.CourseCreate{ID: testCourse, Title: "Dup", Description: "Dup", Type: models.CourseTBM, Duration: 1})
	assertKind(t, err, services.KindConflict)

	_, err = cat.Create(f.ctx, models.CourseCreate{Title: "Bad", Description: "Bad", Type: "cooking", Duration: 1})
	assertKind(t, err, services.KindValidation)

	_, err = cat.Create(f.ctx, models.CourseCreate{Title: "Bad", Description: "Bad", Type: models.CourseTBM, Duration: 0})
	assertKind(t, err, services.KindValidation)
}

func TestProgress_Scenario(t *testing.T) {
	f := newFixture(t, services.Options{})
	prog := f.portal.Progress

	p, err := prog.Upsert(f.ctx, "USR-1", testCourse, models.ProgressPatch{Progress: intPtr(50)})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if p.Progress != 50 || p.CurrentStep != 1 || p.TimeSpent != 0 || p.Completed {
		t.Fatalf("unexpected record after first upsert: %+v", p)
	}

	p, err = prog.Upsert(f.ctx, "USR-1", testCourse, models.ProgressPatch{CurrentStep: intPtr(2)})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if p.Progress != 50 || p.CurrentStep != 2 {
		t.Fatalf("expected progress 50 step 2, got %+v", p)
	}

	got, err := prog.Get(f.ctx, "USR-1", testCourse)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Progress != 50 || got.CurrentStep != 2 {
		t.Fatalf("stored record mismatch: %+v", got)
	}

	list, err := prog.ListForUser(f.ctx, "USR-1")
	if err != nil || len(list) != 1 {
		t.Fatalf("ListForUser: %+v, %v", list, err)
	}

	_, err = prog.Get(f.ctx, "USR-2", testCourse)
	assertKind(t, err, services.KindNotFound)
}

func TestProgress_Idempotent(t *testing.T) {
	f := newFixture(t, services.Options{})
	patch := models.ProgressPatch{Progress: intPtr(70), CurrentStep: intPtr(3), TimeSpent: intPtr(120), Completed: boolPtr(true)}

	first, err := f.portal.Progress.Upsert(f.ctx, "USR-1", testCourse, patch)
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	second, err := f.portal.Progress.Upsert(f.ctx, "USR-1", testCourse, patch)
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if first.Progress != second.Progress || first.CurrentStep != second.CurrentStep ||
		first.TimeSpent != second.TimeSpent || first.Completed != second.Completed {
		t.Fatalf("same patch gave different records: %+v vs %+v", first, second)
	}
	if first.ID != second.ID {
		t.Fatalf("upsert must not create a second record")
	}
}

func TestProgress_RejectsOutOfRange(t *testing.T) {
	f := newFixture(t, services.Options{})

	tests := []struct {
		name  string
		patch models.ProgressPatch
	}{
		{"progress below zero", models.ProgressPatch{Progress: intPtr(-1)}},
		{"progress above hundred", models.ProgressPatch{Progress: intPtr(101)}},
		{"step zero", models.ProgressPatch{CurrentStep: intPtr(0)}},
		{"step four", models.ProgressPatch{CurrentStep: intPtr(4)}},
		{"negative time", models.ProgressPatch{TimeSpent: intPtr(-5)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.portal.Progress.Upsert(f.ctx, "USR-1", testCourse, tt.patch)
			assertKind(t, err, services.KindValidation)
		})
	}

	// Nothing was written by the rejected patches.
	_, err := f.portal.Progress.Get(f.ctx, "USR-1", testCourse)
	assertKind(t, err, services.KindNotFound)

	for _, edge := range []models.ProgressPatch{
		{Progress: intPtr(0), CurrentStep: intPtr(1)},
		{Progress: intPtr(100), CurrentStep: intPtr(3)},
	} {
		if _, err := f.portal.Progress.Upsert(f.ctx, "USR-1", testCourse, edge); err != nil {
			t.Fatalf("boundary values should be accepted: %v", err)
		}
	}
}

func TestProgress_UnknownCourse(t *testing.T) {
	f := newFixture(t, services.Options{})
	_, err := f.portal.Progress.Upsert(f.ctx, "USR-1", "course-missing", models.ProgressPatch{Progress: intPtr(10)})
	assertKind(t, err, services.KindNotFound)
}

func TestProgress_CompletedIsSticky(t *testing.T) {
	f := newFixture(t, services.Options{})
	if _, err := f.portal.Progress.Upsert(f.ctx, "USR-1", testCourse, models.ProgressPatch{Completed: boolPtr(true)}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	p, err := f.portal.Progress.Upsert(f.ctx, "USR-1", testCourse, models.ProgressPatch{Completed: boolPtr(false)})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if !p.Completed {
		t.Fatal("completed must stay true once set")
	}
}

func TestProgress_ForwardOnlyPolicy(t *testing.T) {
	f := newFixture(t, services.Options{Progress: services.ProgressPolicy{ForwardOnlySteps: true}})
	if _, err := f.portal.Progress.Upsert(f.ctx, "USR-1", testCourse, models.ProgressPatch{CurrentStep: intPtr(3)}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	_, err := f.portal.Progress.Upsert(f.ctx, "USR-1", testCourse, models.ProgressPatch{CurrentStep: intPtr(2)})
	assertKind(t, err, services.KindValidation)

	// Without the policy, moving back is allowed.
	g := newFixture(t, services.Options{})
	g.portal.Progress.Upsert(g.ctx, "USR-1", testCourse, models.ProgressPatch{CurrentStep: intPtr(3)})
	p, err := g.portal.Progress.Upsert(g.ctx, "USR-1", testCourse, models.ProgressPatch{CurrentStep: intPtr(2)})
	if err != nil || p.CurrentStep != 2 {
		t.Fatalf("expected step 2 without policy, got %+v, %v", p, err)
	}
}

func TestProgress_ConcurrentUpserts(t *testing.T) {
	f := newFixture(t, services.Options{})

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.portal.Progress.Upsert(f.ctx, "USR-1", testCourse, models.ProgressPatch{TimeSpent: intPtr(i)})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent upsert failed: %v", err)
		}
	}

	list, err := f.portal.Progress.ListForUser(f.ctx, "USR-1")
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected exactly one record per (user, course), got %d", len(list))
	}
}

func TestAssessment_CreateQuestion_Rejects(t *testing.T) {
	f := newFixture(t, services.Options{})
	base := models.AssessmentCreate{CourseID: testCourse, Question: "Q?", Options: []string{"a", "b"}, CorrectAnswer: 1}

	tests := []struct {
		name   string
		mutate func(*models.AssessmentCreate)
		want   services.Kind
	}{
		{"correct answer past options", func(a *models.AssessmentCreate) { a.CorrectAnswer = 2 }, services.KindValidation},
		{"negative correct answer", func(a *models.AssessmentCreate) { a.CorrectAnswer = -1 }, services.KindValidation},
		{"single option", func(a *models.AssessmentCreate) { a.Options = []string{"a"}; a.CorrectAnswer = 0 }, services.KindValidation},
		{"empty option", func(a *models.AssessmentCreate) { a.Options = []string{"a", ""} }, services.KindValidation},
		{"unknown difficulty", func(a *models.AssessmentCreate) { a.Difficulty = "extreme" }, services.KindValidation},
		{"unknown course", func(a *models.AssessmentCreate) { a.CourseID = "course-missing" }, services.KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			in.Options = append([]string(nil), base.Options...)
			tt.mutate(&in)
			_, err := f.portal.Assessments.CreateQuestion(f.ctx, in)
			assertKind(t, err, tt.want)
		})
	}

	q, err := f.portal.Assessments.CreateQuestion(f.ctx, base)
	if err != nil {
		t.Fatalf("CreateQuestion: %v", err)
	}
	if q.Difficulty != models.DifficultyMedium {
		t.Fatalf("expected default difficulty medium, got %q", q.Difficulty)
	}
}

func TestAssessment_ScenarioPassIssuesCertificate(t *testing.T) {
	f := newFixture(t, services.Options{CertificateBaseURL: "https://certs.example"})
	q := f.addQuestion(t, testCourse, 0)

	res, err := f.portal.Assessments.Submit(f.ctx, "USR-1", testCourse, []int{q.CorrectAnswer})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Score != 1 || res.TotalQuestions != 1 || !res.Passed || res.AttemptNumber != 1 {
		t.Fatalf("unexpected attempt: %+v", res.UserAssessment)
	}
	if res.Certificate == nil {
		t.Fatal("expected a certificate for a passing attempt")
	}
	if !strings.Contains(res.Certificate.CertificateURL, res.ID) {
		t.Fatalf("certificate url %q should reference attempt %s", res.Certificate.CertificateURL, res.ID)
	}
	if res.Certificate.CertificateURL != "https://certs.example/certificates/"+res.ID+".pdf" {
		t.Fatalf("unexpected certificate url %q", res.Certificate.CertificateURL)
	}

	certs, err := f.portal.Certification.ListForUser(f.ctx, "USR-1")
	if err != nil || len(certs) != 1 {
		t.Fatalf("expected exactly one certificate, got %+v, %v", certs, err)
	}

	again, err := f.portal.Certification.Issue(f.ctx, "USR-1", testCourse, res.ID)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if again.ID != res.Certificate.ID {
		t.Fatalf("re-issuing must return the existing certificate")
	}
	certs, _ = f.portal.Certification.ListForUser(f.ctx, "USR-1")
	if len(certs) != 1 {
		t.Fatalf("re-issuing must not create another certificate, got %d", len(certs))
	}
}

func TestAssessment_Scoring(t *testing.T) {
	f := newFixture(t, services.Options{})
	for _, correct := range []int{0, 1, 2, 3} {
		f.addQuestion(t, testCourse, correct)
	}

	tests := []struct {
		name    string
		answers []int
		score   int
		passed  bool
	}{
		{"all correct", []int{0, 1, 2, 3}, 4, true},
		{"none correct", []int{1, 0, 3, 2}, 0, false},
		{"three of four passes at 0.7", []int{0, 1, 2, 0}, 3, true},
		{"half fails at 0.7", []int{0, 1, 0, 0}, 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.portal.Assessments.Submit(f.ctx, "USR-"+tt.name, testCourse, tt.answers)
			if err != nil {
				t.Fatalf("Submit: %v", err)
			}
			if res.Score != tt.score || res.Passed != tt.passed {
				t.Fatalf("got score %d passed %v, want %d %v", res.Score, res.Passed, tt.score, tt.passed)
			}
			if (res.Certificate != nil) != tt.passed {
				t.Fatalf("certificate presence should follow passed=%v", tt.passed)
			}
		})
	}
}

func TestAssessment_Submit_Rejects(t *testing.T) {
	f := newFixture(t, services.Options{})

	// No questions yet.
	_, err := f.portal.Assessments.Submit(f.ctx, "USR-1", testCourse, []int{0})
	assertKind(t, err, services.KindValidation)

	f.addQuestion(t, testCourse, 0)
	f.addQuestion(t, testCourse, 1)

	tests := []struct {
		name     string
		courseID string
		answers  []int
		want     services.Kind
	}{
		{"unknown course", "course-missing", []int{0, 1}, services.KindNotFound},
		{"too few answers", testCourse, []int{0}, services.KindValidation},
		{"too many answers", testCourse, []int{0, 1, 2}, services.KindValidation},
		{"nil answers", testCourse, nil, services.KindValidation},
		{"index out of range", testCourse, []int{0, 4}, services.KindValidation},
		{"negative index", testCourse, []int{-1, 0}, services.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.portal.Assessments.Submit(f.ctx, "USR-1", tt.courseID, tt.answers)
			assertKind(t, err, tt.want)
		})
	}

	attempts, _ := f.portal.Assessments.ListAttempts(f.ctx, "USR-1", testCourse)
	if len(attempts) != 0 {
		t.Fatalf("rejected submissions must not be recorded, got %d", len(attempts))
	}
}

func TestAssessment_AttemptNumbering(t *testing.T) {
	f := newFixture(t, services.Options{})
	f.addQuestion(t, testCourse, 0)

	for want := 1; want <= 3; want++ {
		res, err := f.portal.Assessments.Submit(f.ctx, "USR-1", testCourse, []int{1})
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		if res.AttemptNumber != want {
			t.Fatalf("expected attempt %d, got %d", want, res.AttemptNumber)
		}
	}
	// Another user starts at 1.
	res, _ := f.portal.Assessments.Submit(f.ctx, "USR-2", testCourse, []int{0})
	if res.AttemptNumber != 1 {
		t.Fatalf("attempt numbers are per user, got %d", res.AttemptNumber)
	}

	attempts, err := f.portal.Assessments.ListAttempts(f.ctx, "USR-1", testCourse)
	if err != nil || len(attempts) != 3 {
		t.Fatalf("ListAttempts: %+v, %v", attempts, err)
	}
	for i, a := range attempts {
		if a.AttemptNumber != i+1 {
			t.Fatalf("attempts out of order: %+v", attempts)
		}
	}
}

func TestAssessment_ConcurrentSubmissions(t *testing.T) {
	f := newFixture(t, services.Options{})
	f.addQuestion(t, testCourse, 0)

	const workers = 10
	var wg sync.WaitGroup
	results := make(chan *models.SubmissionResult, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.portal.Assessments.Submit(f.ctx, "USR-1", testCourse, []int{0})
			if err != nil {
				t.Errorf("Submit: %v", err)
				return
			}
			results <- res
		}()
	}
	wg.Wait()
	close(results)

	seen := map[int]bool{}
	for res := range results {
		if seen[res.AttemptNumber] {
			t.Fatalf("attempt number %d assigned twice", res.AttemptNumber)
		}
		seen[res.AttemptNumber] = true
	}
	for n := 1; n <= workers; n++ {
		if !seen[n] {
			t.Fatalf("missing attempt number %d", n)
		}
	}

	certs, _ := f.portal.Certification.ListForUser(f.ctx, "USR-1")
	if len(certs) != workers {
		t.Fatalf("expected one certificate per passing attempt, got %d", len(certs))
	}
}

func TestCertification_Issue_Rejects(t *testing.T) {
	f := newFixture(t, services.Options{})
	f.addQuestion(t, testCourse, 0)

	failed, err := f.portal.Assessments.Submit(f.ctx, "USR-1", testCourse, []int{1})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	passed, err := f.portal.Assessments.Submit(f.ctx, "USR-1", testCourse, []int{0})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	_, err = f.portal.Certification.Issue(f.ctx, "USR-1", testCourse, failed.ID)
	assertKind(t, err, services.KindValidation)

	// passed already holds a certificate from Submit; another caller must
	// not get it back.
	if passed.Certificate == nil {
		t.Fatalf("expected Submit to issue a certificate")
	}
	tests := []struct {
		name     string
		userID   string
		courseID string
	}{
		{"other user", "USR-2", testCourse},
		{"other course", "USR-1", "other-course"},
		{"other user and course", "USR-2", "other-course"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cert, err := f.portal.Certification.Issue(f.ctx, tt.userID, tt.courseID, passed.ID)
			if cert != nil {
				t.Fatalf("certificate leaked to %s/%s: %+v", tt.userID, tt.courseID, cert)
			}
			assertKind(t, err, services.KindValidation)
		})
	}

	again, err := f.portal.Certification.Issue(f.ctx, "USR-1", testCourse, passed.ID)
	if err != nil || again.ID != passed.Certificate.ID {
		t.Fatalf("owner reissue should return the existing certificate: %+v, %v", again, err)
	}

	_, err = f.portal.Certification.Issue(f.ctx, "USR-1", testCourse, "UAS-missing")
	assertKind(t, err, services.KindNotFound)
}

func TestNotices_CRUD(t *testing.T) {
	f := newFixture(t, services.Options{})
	nb := f.portal.Notices

	n, err := nb.Create(f.ctx, "ADM-1", models.NoticeCreate{Title: "  Launch  ", Content: "Platform is open"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if n.Title != "Launch" || n.ViewCount != 0 || n.AuthorID != "ADM-1" {
		t.Fatalf("unexpected notice: %+v", n)
	}

	got, err := nb.Get(f.ctx, n.ID)
	if err != nil || got.ViewCount != 0 {
		t.Fatalf("Get must not count a view: %+v, %v", got, err)
	}

	viewed, err := nb.RecordView(f.ctx, n.ID)
	if err != nil {
		t.Fatalf("RecordView: %v", err)
	}
	if viewed.ViewCount != 1 {
		t.Fatalf("expected viewCount 1, got %d", viewed.ViewCount)
	}

	updated, err := nb.Update(f.ctx, n.ID, models.NoticeUpdate{Content: strPtr("Now on mobile")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "Launch" || updated.Content != "Now on mobile" || updated.ViewCount != 1 {
		t.Fatalf("partial update went wrong: %+v", updated)
	}

	if err := nb.Delete(f.ctx, n.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	_, err = nb.Get(f.ctx, n.ID)
	assertKind(t, err, services.KindNotFound)
	assertKind(t, nb.Delete(f.ctx, n.ID), services.KindNotFound)
	_, err = nb.RecordView(f.ctx, n.ID)
	assertKind(t, err, services.KindNotFound)
	_, err = nb.Update(f.ctx, n.ID, models.NoticeUpdate{Title: strPtr("x")})
	assertKind(t, err, services.KindNotFound)
}

func TestNotices_Validation(t *testing.T) {
	f := newFixture(t, services.Options{})
	nb := f.portal.Notices

	tests := []struct {
		name string
		in   models.NoticeCreate
	}{
		{"empty title", models.NoticeCreate{Title: " ", Content: "body"}},
		{"long title", models.NoticeCreate{Title: strings.Repeat("t", 201), Content: "body"}},
		{"empty content", models.NoticeCreate{Title: "title", Content: ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := nb.Create(f.ctx, "ADM-1", tt.in)
			assertKind(t, err, services.KindValidation)
		})
	}

	n, _ := nb.Create(f.ctx, "ADM-1", models.NoticeCreate{Title: strings.Repeat("t", 200), Content: "body"})
	if n == nil {
		t.Fatal("a 200 character title should be accepted")
	}
	_, err := nb.Update(f.ctx, n.ID, models.NoticeUpdate{Title: strPtr("")})
	assertKind(t, err, services.KindValidation)

	_, err = nb.Create(f.ctx, "", models.NoticeCreate{Title: "t", Content: "c"})
	assertKind(t, err, services.KindUnauthorized)
}

func TestNotices_ListNewestFirst(t *testing.T) {
	f := newFixture(t, services.Options{})
	var ids []string
	for _, title := range []string{"first", "second", "third"} {
		n, err := f.portal.Notices.Create(f.ctx, "ADM-1", models.NoticeCreate{Title: title, Content: "c"})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		ids = append(ids, n.ID)
		waitForClockTick(n.CreatedAt)
	}

	list, err := f.portal.Notices.List(f.ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 3 || list[0].ID != ids[2] || list[1].ID != ids[1] || list[2].ID != ids[0] {
		t.Fatalf("expected newest first, got %+v", list)
	}
}

func TestNotices_ConcurrentViews(t *testing.T) {
	f := newFixture(t, services.Options{})
	n, _ := f.portal.Notices.Create(f.ctx, "ADM-1", models.NoticeCreate{Title: "t", Content: "c"})

	const views = 50
	var wg sync.WaitGroup
	for i := 0; i < views; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.portal.Notices.RecordView(f.ctx, n.ID); err != nil {
				t.Errorf("RecordView: %v", err)
			}
		}()
	}
	wg.Wait()

	got, _ := f.portal.Notices.Get(f.ctx, n.ID)
	if got.ViewCount != views {
		t.Fatalf("expected %d views, got %d", views, got.ViewCount)
	}
}
