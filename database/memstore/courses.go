package memstore

import (
	"context"

	"SafeEduBackend/models"
	"SafeEduBackend/services"
)

func (db *DB) CreateCourse(_ context.Context, c *models.Course) error {
	t := db.courses
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if _, ok := t.t[c.ID]; ok {
		return services.ErrDuplicate
	}
	cp := *c
	t.t[c.ID] = &cp
	t.order = append(t.order, c.ID)
	return nil
}

func (db *DB) GetCourse(_ context.Context, id string) (*models.Course, error) {
	t := db.courses
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	if c, ok := t.t[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, services.ErrRecordNotFound
}

func (db *DB) ListCourses(_ context.Context) ([]models.Course, error) {
	t := db.courses
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	res := make([]models.Course, 0, len(t.order))
	for _, id := range t.order {
		res = append(res, *t.t[id])
	}
	return res, nil
}
