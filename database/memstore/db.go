// Package memstore keeps every entity in process memory. Each table has its
// own lock; records are copied in and out so callers never share state with
// the store.
package memstore

import (
	"sync"

	"SafeEduBackend/models"
	"SafeEduBackend/services"
)

type (
	DB struct {
		users        *userTable
		courses      *courseTable
		progress     *progressTable
		assessments  *assessmentTable
		attempts     *attemptTable
		certificates *certificateTable
		notices      *noticeTable
	}

	userTable struct {
		t       map[string]*models.User
		byEmail map[string]string
		mutex   sync.RWMutex
	}

	courseTable struct {
		t     map[string]*models.Course
		order []string
		mutex sync.RWMutex
	}

	progressTable struct {
		t     map[string]*models.UserProgress // keyed by user/course pair
		mutex sync.RWMutex
	}

	assessmentTable struct {
		t        map[string]*models.Assessment
		byCourse map[string][]string
		mutex    sync.RWMutex
	}

	attemptTable struct {
		t     map[string]*models.UserAssessment
		order []string
		mutex sync.RWMutex
	}

	certificateTable struct {
		t            map[string]*models.Certificate
		byAssessment map[string]string
		order        []string
		mutex        sync.RWMutex
	}

	noticeTable struct {
		t     map[string]*models.Notice
		order []string
		mutex sync.RWMutex
	}
)

var _ services.Store = (*DB)(nil)

func Open() *DB {
	return &DB{
		users:        &userTable{t: make(map[string]*models.User), byEmail: make(map[string]string)},
		courses:      &courseTable{t: make(map[string]*models.Course)},
		progress:     &progressTable{t: make(map[string]*models.UserProgress)},
		assessments:  &assessmentTable{t: make(map[string]*models.Assessment), byCourse: make(map[string][]string)},
		attempts:     &attemptTable{t: make(map[string]*models.UserAssessment)},
		certificates: &certificateTable{t: make(map[string]*models.Certificate), byAssessment: make(map[string]string)},
		notices:      &noticeTable{t: make(map[string]*models.Notice)},
	}
}

// Close is a no-op kept so both stores share a lifecycle.
func (db *DB) Close() error {
	return nil
}

func pairKey(userID, courseID string) string {
	return userID + "\x00" + courseID
}
