package memstore

import (
	"context"
	"sort"

	"SafeEduBackend/models"
	"SafeEduBackend/services"
)

func (db *DB) GetProgress(_ context.Context, userID, courseID string) (*models.UserProgress, error) {
	t := db.progress
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	if p, ok := t.t[pairKey(userID, courseID)]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, services.ErrRecordNotFound
}

func (db *DB) ListProgressByUser(_ context.Context, userID string) ([]models.UserProgress, error) {
	t := db.progress
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	res := make([]models.UserProgress, 0)
	for _, p := range t.t {
		if p.UserID == userID {
			res = append(res, *p)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CourseID < res[j].CourseID })
	return res, nil
}

func (db *DB) CreateProgress(_ context.Context, p *models.UserProgress) error {
	t := db.progress
	t.mutex.Lock()
	defer t.mutex.Unlock()

	key := pairKey(p.UserID, p.CourseID)
	if _, ok := t.t[key]; ok {
		return services.ErrDuplicate
	}
	cp := *p
	t.t[key] = &cp
	return nil
}

func (db *DB) UpdateProgress(_ context.Context, p *models.UserProgress) error {
	t := db.progress
	t.mutex.Lock()
	defer t.mutex.Unlock()

	key := pairKey(p.UserID, p.CourseID)
	if _, ok := t.t[key]; !ok {
		return services.ErrRecordNotFound
	}
	cp := *p
	t.t[key] = &cp
	return nil
}
