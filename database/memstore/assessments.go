package memstore

import (
	"context"
	"sort"

	"SafeEduBackend/models"
	"SafeEduBackend/services"
)

func copyAssessment(a *models.Assessment) models.Assessment {
	cp := *a
	cp.Options = append([]string(nil), a.Options...)
	return cp
}

func (db *DB) CreateAssessment(_ context.Context, a *models.Assessment) error {
	t := db.assessments
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if _, ok := t.t[a.ID]; ok {
		return services.ErrDuplicate
	}
	cp := copyAssessment(a)
	t.t[a.ID] = &cp
	t.byCourse[a.CourseID] = append(t.byCourse[a.CourseID], a.ID)
	return nil
}

// ListAssessmentsByCourse returns questions in the order they were added.
func (db *DB) ListAssessmentsByCourse(_ context.Context, courseID string) ([]models.Assessment, error) {
	t := db.assessments
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	ids := t.byCourse[courseID]
	res := make([]models.Assessment, 0, len(ids))
	for _, id := range ids {
		res = append(res, copyAssessment(t.t[id]))
	}
	return res, nil
}

func (db *DB) CreateUserAssessment(_ context.Context, ua *models.UserAssessment) error {
	t := db.attempts
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if _, ok := t.t[ua.ID]; ok {
		return services.ErrDuplicate
	}
	for _, existing := range t.t {
		if existing.UserID == ua.UserID && existing.CourseID == ua.CourseID && existing.AttemptNumber == ua.AttemptNumber {
			return services.ErrDuplicate
		}
	}
	cp := *ua
	t.t[ua.ID] = &cp
	t.order = append(t.order, ua.ID)
	return nil
}

func (db *DB) GetUserAssessment(_ context.Context, id string) (*models.UserAssessment, error) {
	t := db.attempts
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	if ua, ok := t.t[id]; ok {
		cp := *ua
		return &cp, nil
	}
	return nil, services.ErrRecordNotFound
}

func (db *DB) CountUserAssessments(_ context.Context, userID, courseID string) (int, error) {
	t := db.attempts
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	n := 0
	for _, ua := range t.t {
		if ua.UserID == userID && ua.CourseID == courseID {
			n++
		}
	}
	return n, nil
}

func (db *DB) ListUserAssessments(_ context.Context, userID, courseID string) ([]models.UserAssessment, error) {
	t := db.attempts
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	res := make([]models.UserAssessment, 0)
	for _, id := range t.order {
		ua := t.t[id]
		if ua.UserID == userID && ua.CourseID == courseID {
			res = append(res, *ua)
		}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].AttemptNumber < res[j].AttemptNumber })
	return res, nil
}
