package memstore

import (
	"context"
	"sort"

	"SafeEduBackend/models"
	"SafeEduBackend/services"
)

func (db *DB) CreateNotice(_ context.Context, n *models.Notice) error {
	t := db.notices
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if _, ok := t.t[n.ID]; ok {
		return services.ErrDuplicate
	}
	cp := *n
	t.t[n.ID] = &cp
	t.order = append(t.order, n.ID)
	return nil
}

func (db *DB) GetNotice(_ context.Context, id string) (*models.Notice, error) {
	t := db.notices
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	if n, ok := t.t[id]; ok {
		cp := *n
		return &cp, nil
	}
	return nil, services.ErrRecordNotFound
}

// ListNotices returns notices newest first; notices sharing a timestamp
// are listed latest created first.
func (db *DB) ListNotices(_ context.Context) ([]models.Notice, error) {
	t := db.notices
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	res := make([]models.Notice, 0, len(t.order))
	for i := len(t.order) - 1; i >= 0; i-- {
		res = append(res, *t.t[t.order[i]])
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})
	return res, nil
}

func (db *DB) UpdateNotice(_ context.Context, n *models.Notice) error {
	t := db.notices
	t.mutex.Lock()
	defer t.mutex.Unlock()

	existing, ok := t.t[n.ID]
	if !ok {
		return services.ErrRecordNotFound
	}
	existing.Title = n.Title
	existing.Content = n.Content
	existing.UpdatedAt = n.UpdatedAt
	return nil
}

func (db *DB) DeleteNotice(_ context.Context, id string) error {
	t := db.notices
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if _, ok := t.t[id]; !ok {
		return services.ErrRecordNotFound
	}
	delete(t.t, id)
	for i, nid := range t.order {
		if nid == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return nil
}

func (db *DB) IncrementNoticeViews(_ context.Context, id string) (*models.Notice, error) {
	t := db.notices
	t.mutex.Lock()
	defer t.mutex.Unlock()

	n, ok := t.t[id]
	if !ok {
		return nil, services.ErrRecordNotFound
	}
	n.ViewCount++
	cp := *n
	return &cp, nil
}
