// Package storetest holds the behaviour every services.Store implementation
// must share. Store packages call Run from their own tests.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"SafeEduBackend/models"
	"SafeEduBackend/services"
)

// Run executes the suite; newStore must return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) services.Store) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s services.Store)
	}{
		{"Users", testUsers},
		{"Courses", testCourses},
		{"Progress", testProgress},
		{"Assessments", testAssessments},
		{"Attempts", testAttempts},
		{"Certificates", testCertificates},
		{"Notices", testNotices},
		{"NoticeOrder", testNoticeOrder},
		{"ConcurrentViews", testConcurrentViews},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newStore(t))
		})
	}
}

// ts truncates to microseconds, the precision PostgreSQL keeps.
func ts(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

func mustCourse(t *testing.T, s services.Store, id string, active bool) *models.Course {
	t.Helper()
	c := models.NewCourse(models.CourseCreate{
		ID: id, Title: "Course " + id, Description: "d", Type: models.CourseTBM, Duration: 7, IsActive: &active,
	})
	if err := s.CreateCourse(context.Background(), c); err != nil {
		t.Fatalf("CreateCourse(%s): %v", id, err)
	}
	return c
}

func expectErr(t *testing.T, err, want error) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
}

func testUsers(t *testing.T, s services.Store) {
	ctx := context.Background()
	u, err := models.NewUser("alice", "Alice@X.com", "hash", "Safety", models.RoleUser)
	if err != nil {
		t.Fatalf("NewUser: %v", err)
	}
	u.CreatedAt = ts(u.CreatedAt)
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	byID, err := s.GetUserByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if byID.Email != "alice@x.com" || byID.Password != "hash" || byID.Role != models.RoleUser {
		t.Fatalf("unexpected user: %+v", byID)
	}
	if !byID.CreatedAt.Equal(u.CreatedAt) {
		t.Fatalf("createdAt mismatch: %v vs %v", byID.CreatedAt, u.CreatedAt)
	}

	byEmail, err := s.GetUserByEmail(ctx, "alice@x.com")
	if err != nil || byEmail.ID != u.ID {
		t.Fatalf("GetUserByEmail: %+v, %v", byEmail, err)
	}

	dup, _ := models.NewUser("alice2", "alice@x.com", "hash", "Ops", models.RoleUser)
	expectErr(t, s.CreateUser(ctx, dup), services.ErrDuplicate)

	_, err = s.GetUserByID(ctx, "USR-missing")
	expectErr(t, err, services.ErrRecordNotFound)
	_, err = s.GetUserByEmail(ctx, "missing@x.com")
	expectErr(t, err, services.ErrRecordNotFound)
}

func testCourses(t *testing.T, s services.Store) {
	ctx := context.Background()
	for _, id := range []string{"course-c", "course-a", "course-b"} {
		mustCourse(t, s, id, id != "course-a")
	}

	list, err := s.ListCourses(ctx)
	if err != nil {
		t.Fatalf("ListCourses: %v", err)
	}
	if len(list) != 3 || list[0].ID != "course-c" || list[1].ID != "course-a" || list[2].ID != "course-b" {
		t.Fatalf("expected insertion order, got %+v", list)
	}
	if list[1].IsActive {
		t.Fatal("isActive not persisted")
	}

	video := "/videos/a.mp4"
	c := models.NewCourse(models.CourseCreate{ID: "course-v", Title: "V", Description: "d", Type: models.CourseTBM, Duration: 1, VideoURL: &video})
	if err := s.CreateCourse(ctx, c); err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}
	got, err := s.GetCourse(ctx, "course-v")
	if err != nil {
		t.Fatalf("GetCourse: %v", err)
	}
	if got.VideoURL == nil || *got.VideoURL != video || got.DocumentURL != nil {
		t.Fatalf("nullable urls not round-tripped: %+v", got)
	}

	expectErr(t, s.CreateCourse(ctx, c), services.ErrDuplicate)
	_, err = s.GetCourse(ctx, "course-missing")
	expectErr(t, err, services.ErrRecordNotFound)
}

func testProgress(t *testing.T, s services.Store) {
	ctx := context.Background()
	mustCourse(t, s, "course-1", true)
	mustCourse(t, s, "course-2", true)

	now := ts(time.Now())
	p := models.NewUserProgress("USR-1", "course-1", now)
	p.Progress = 40
	if err := s.CreateProgress(ctx, p); err != nil {
		t.Fatalf("CreateProgress: %v", err)
	}
	expectErr(t, s.CreateProgress(ctx, models.NewUserProgress("USR-1", "course-1", now)), services.ErrDuplicate)

	got, err := s.GetProgress(ctx, "USR-1", "course-1")
	if err != nil {
		t.Fatalf("GetProgress: %v", err)
	}
	if got.Progress != 40 || got.CurrentStep != 1 || got.Completed {
		t.Fatalf("unexpected progress: %+v", got)
	}

	got.Progress = 90
	got.CurrentStep = 3
	got.TimeSpent = 300
	got.Completed = true
	got.LastAccessed = now.Add(time.Minute)
	if err := s.UpdateProgress(ctx, got); err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	again, _ := s.GetProgress(ctx, "USR-1", "course-1")
	if again.Progress != 90 || again.CurrentStep != 3 || again.TimeSpent != 300 || !again.Completed {
		t.Fatalf("update not persisted: %+v", again)
	}
	if !again.LastAccessed.Equal(now.Add(time.Minute)) {
		t.Fatalf("lastAccessed not persisted: %v", again.LastAccessed)
	}

	other := models.NewUserProgress("USR-1", "course-2", now)
	if err := s.CreateProgress(ctx, other); err != nil {
		t.Fatalf("CreateProgress: %v", err)
	}
	if err := s.CreateProgress(ctx, models.NewUserProgress("USR-2", "course-1", now)); err != nil {
		t.Fatalf("CreateProgress: %v", err)
	}
	list, err := s.ListProgressByUser(ctx, "USR-1")
	if err != nil || len(list) != 2 {
		t.Fatalf("ListProgressByUser: %+v, %v", list, err)
	}

	_, err = s.GetProgress(ctx, "USR-9", "course-1")
	expectErr(t, err, services.ErrRecordNotFound)
	expectErr(t, s.UpdateProgress(ctx, models.NewUserProgress("USR-9", "course-1", now)), services.ErrRecordNotFound)
}

func testAssessments(t *testing.T, s services.Store) {
	ctx := context.Background()
	mustCourse(t, s, "course-1", true)
	mustCourse(t, s, "course-2", true)

	for i, courseID := range []string{"course-1", "course-2", "course-1", "course-1"} {
		q := models.NewAssessment(models.AssessmentCreate{
			ID:            fmt.Sprintf("assessment-%d", i+1),
			CourseID:      courseID,
			Question:      fmt.Sprintf("Question %d", i+1),
			Options:       []string{"yes", "no", "it depends"},
			CorrectAnswer: i % 3,
			Difficulty:    models.DifficultyHard,
		})
		if err := s.CreateAssessment(ctx, q); err != nil {
			t.Fatalf("CreateAssessment: %v", err)
		}
	}

	list, err := s.ListAssessmentsByCourse(ctx, "course-1")
	if err != nil {
		t.Fatalf("ListAssessmentsByCourse: %v", err)
	}
	if len(list) != 3 || list[0].ID != "assessment-1" || list[1].ID != "assessment-3" || list[2].ID != "assessment-4" {
		t.Fatalf("expected stable insertion order, got %+v", list)
	}
	if len(list[1].Options) != 3 || list[1].Options[2] != "it depends" || list[1].CorrectAnswer != 2 {
		t.Fatalf("options not round-tripped: %+v", list[1])
	}
	if list[0].Difficulty != models.DifficultyHard {
		t.Fatalf("difficulty not persisted: %q", list[0].Difficulty)
	}

	empty, err := s.ListAssessmentsByCourse(ctx, "course-missing")
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected no questions, got %+v, %v", empty, err)
	}
}

func testAttempts(t *testing.T, s services.Store) {
	ctx := context.Background()
	mustCourse(t, s, "course-1", true)
	now := ts(time.Now())

	for n := 1; n <= 3; n++ {
		ua := models.NewUserAssessment("USR-1", "course-1", n-1, 2, n, n == 3, now)
		if err := s.CreateUserAssessment(ctx, ua); err != nil {
			t.Fatalf("CreateUserAssessment: %v", err)
		}
	}
	dup := models.NewUserAssessment("USR-1", "course-1", 0, 2, 2, false, now)
	expectErr(t, s.CreateUserAssessment(ctx, dup), services.ErrDuplicate)

	count, err := s.CountUserAssessments(ctx, "USR-1", "course-1")
	if err != nil || count != 3 {
		t.Fatalf("CountUserAssessments: %d, %v", count, err)
	}
	count, _ = s.CountUserAssessments(ctx, "USR-2", "course-1")
	if count != 0 {
		t.Fatalf("expected no attempts for another user, got %d", count)
	}

	list, err := s.ListUserAssessments(ctx, "USR-1", "course-1")
	if err != nil || len(list) != 3 {
		t.Fatalf("ListUserAssessments: %+v, %v", list, err)
	}
	for i, ua := range list {
		if ua.AttemptNumber != i+1 {
			t.Fatalf("expected attempts ordered by number, got %+v", list)
		}
	}
	if !list[2].Passed || list[0].Passed {
		t.Fatalf("passed flag not persisted: %+v", list)
	}

	got, err := s.GetUserAssessment(ctx, list[1].ID)
	if err != nil || got.Score != 1 || got.TotalQuestions != 2 {
		t.Fatalf("GetUserAssessment: %+v, %v", got, err)
	}
	_, err = s.GetUserAssessment(ctx, "UAS-missing")
	expectErr(t, err, services.ErrRecordNotFound)
}

func testCertificates(t *testing.T, s services.Store) {
	ctx := context.Background()
	mustCourse(t, s, "course-1", true)
	now := ts(time.Now())

	ua := models.NewUserAssessment("USR-1", "course-1", 1, 1, 1, true, now)
	if err := s.CreateUserAssessment(ctx, ua); err != nil {
		t.Fatalf("CreateUserAssessment: %v", err)
	}

	cert := models.NewCertificate("USR-1", "course-1", ua.ID, "", now)
	if err := s.CreateCertificate(ctx, cert); err != nil {
		t.Fatalf("CreateCertificate: %v", err)
	}
	second := models.NewCertificate("USR-1", "course-1", ua.ID, "", now)
	expectErr(t, s.CreateCertificate(ctx, second), services.ErrDuplicate)

	got, err := s.GetCertificateByUserAssessment(ctx, ua.ID)
	if err != nil || got.ID != cert.ID || got.CertificateURL != "/certificates/"+ua.ID+".pdf" {
		t.Fatalf("GetCertificateByUserAssessment: %+v, %v", got, err)
	}
	_, err = s.GetCertificateByUserAssessment(ctx, "UAS-missing")
	expectErr(t, err, services.ErrRecordNotFound)

	list, err := s.ListCertificatesByUser(ctx, "USR-1")
	if err != nil || len(list) != 1 {
		t.Fatalf("ListCertificatesByUser: %+v, %v", list, err)
	}
	list, _ = s.ListCertificatesByUser(ctx, "USR-2")
	if len(list) != 0 {
		t.Fatalf("expected no certificates for another user, got %d", len(list))
	}
}

func testNotices(t *testing.T, s services.Store) {
	ctx := context.Background()
	now := ts(time.Now())

	n := models.NewNotice("ADM-1", models.NoticeCreate{Title: "Launch", Content: "Open"}, now)
	if err := s.CreateNotice(ctx, n); err != nil {
		t.Fatalf("CreateNotice: %v", err)
	}
	other := models.NewNotice("ADM-1", models.NoticeCreate{Title: "Update", Content: "Mobile"}, now.Add(time.Second))
	if err := s.CreateNotice(ctx, other); err != nil {
		t.Fatalf("CreateNotice: %v", err)
	}

	viewed, err := s.IncrementNoticeViews(ctx, n.ID)
	if err != nil || viewed.ViewCount != 1 {
		t.Fatalf("IncrementNoticeViews: %+v, %v", viewed, err)
	}
	viewed, _ = s.IncrementNoticeViews(ctx, n.ID)
	if viewed.ViewCount != 2 {
		t.Fatalf("expected 2 views, got %d", viewed.ViewCount)
	}

	// UpdateNotice leaves the view counter alone.
	edit := *n
	edit.Title = "Launch (edited)"
	edit.ViewCount = 0
	edit.UpdatedAt = now.Add(time.Minute)
	if err := s.UpdateNotice(ctx, &edit); err != nil {
		t.Fatalf("UpdateNotice: %v", err)
	}
	got, err := s.GetNotice(ctx, n.ID)
	if err != nil {
		t.Fatalf("GetNotice: %v", err)
	}
	if got.Title != "Launch (edited)" || got.ViewCount != 2 || !got.UpdatedAt.Equal(now.Add(time.Minute)) {
		t.Fatalf("unexpected notice after update: %+v", got)
	}

	list, err := s.ListNotices(ctx)
	if err != nil || len(list) != 2 {
		t.Fatalf("ListNotices: %+v, %v", list, err)
	}

	if err := s.DeleteNotice(ctx, n.ID); err != nil {
		t.Fatalf("DeleteNotice: %v", err)
	}
	expectErr(t, s.DeleteNotice(ctx, n.ID), services.ErrRecordNotFound)
	_, err = s.GetNotice(ctx, n.ID)
	expectErr(t, err, services.ErrRecordNotFound)
	_, err = s.IncrementNoticeViews(ctx, n.ID)
	expectErr(t, err, services.ErrRecordNotFound)
	expectErr(t, s.UpdateNotice(ctx, &edit), services.ErrRecordNotFound)
}

func testNoticeOrder(t *testing.T, s services.Store) {
	ctx := context.Background()
	now := ts(time.Now())

	older := models.NewNotice("ADM-1", models.NoticeCreate{Title: "older", Content: "c"}, now.Add(-time.Hour))
	if err := s.CreateNotice(ctx, older); err != nil {
		t.Fatalf("CreateNotice: %v", err)
	}
	var tied []string
	for i := 0; i < 5; i++ {
		n := models.NewNotice("ADM-1", models.NoticeCreate{Title: fmt.Sprintf("tied %d", i), Content: "c"}, now)
		if err := s.CreateNotice(ctx, n); err != nil {
			t.Fatalf("CreateNotice: %v", err)
		}
		tied = append(tied, n.ID)
	}
	// Removing one from the middle must not disturb the rest.
	if err := s.DeleteNotice(ctx, tied[2]); err != nil {
		t.Fatalf("DeleteNotice: %v", err)
	}

	list, err := s.ListNotices(ctx)
	if err != nil {
		t.Fatalf("ListNotices: %v", err)
	}
	want := []string{tied[4], tied[3], tied[1], tied[0], older.ID}
	if len(list) != len(want) {
		t.Fatalf("expected %d notices, got %d", len(want), len(list))
	}
	for i, id := range want {
		if list[i].ID != id {
			t.Fatalf("position %d: got %s (%s), want %s", i, list[i].ID, list[i].Title, id)
		}
	}
}

func testConcurrentViews(t *testing.T, s services.Store) {
	ctx := context.Background()
	n := models.NewNotice("ADM-1", models.NoticeCreate{Title: "t", Content: "c"}, ts(time.Now()))
	if err := s.CreateNotice(ctx, n); err != nil {
		t.Fatalf("CreateNotice: %v", err)
	}

	const views = 25
	var wg sync.WaitGroup
	for i := 0; i < views; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.IncrementNoticeViews(ctx, n.ID); err != nil {
				t.Errorf("IncrementNoticeViews: %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := s.GetNotice(ctx, n.ID)
	if err != nil || got.ViewCount != views {
		t.Fatalf("expected %d views, got %+v, %v", views, got, err)
	}
}
