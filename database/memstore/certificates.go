package memstore

import (
	"context"

	"SafeEduBackend/models"
	"SafeEduBackend/services"
)

func (db *DB) CreateCertificate(_ context.Context, c *models.Certificate) error {
	t := db.certificates
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if _, ok := t.byAssessment[c.UserAssessmentID]; ok {
		return services.ErrDuplicate
	}
	if _, ok := t.t[c.ID]; ok {
		return services.ErrDuplicate
	}
	cp := *c
	t.t[c.ID] = &cp
	t.byAssessment[c.UserAssessmentID] = c.ID
	t.order = append(t.order, c.ID)
	return nil
}

func (db *DB) GetCertificateByUserAssessment(_ context.Context, userAssessmentID string) (*models.Certificate, error) {
	t := db.certificates
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	id, ok := t.byAssessment[userAssessmentID]
	if !ok {
		return nil, services.ErrRecordNotFound
	}
	cp := *t.t[id]
	return &cp, nil
}

func (db *DB) ListCertificatesByUser(_ context.Context, userID string) ([]models.Certificate, error) {
	t := db.certificates
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	res := make([]models.Certificate, 0)
	for _, id := range t.order {
		if c := t.t[id]; c.UserID == userID {
			res = append(res, *c)
		}
	}
	return res, nil
}
