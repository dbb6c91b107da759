package memstore

import (
	"context"

	"SafeEduBackend/models"
	"SafeEduBackend/services"
)

func (db *DB) CreateUser(_ context.Context, u *models.User) error {
	t := db.users
	t.mutex.Lock()
	defer t.mutex.Unlock()

	email := models.NormalizeEmail(u.Email)
	if _, ok := t.byEmail[email]; ok {
		return services.ErrDuplicate
	}
	if _, ok := t.t[u.ID]; ok {
		return services.ErrDuplicate
	}
	cp := *u
	cp.Email = email
	t.t[u.ID] = &cp
	t.byEmail[email] = u.ID
	return nil
}

func (db *DB) GetUserByID(_ context.Context, id string) (*models.User, error) {
	t := db.users
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	if u, ok := t.t[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, services.ErrRecordNotFound
}

func (db *DB) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	t := db.users
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	id, ok := t.byEmail[models.NormalizeEmail(email)]
	if !ok {
		return nil, services.ErrRecordNotFound
	}
	cp := *t.t[id]
	return &cp, nil
}
