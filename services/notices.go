package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"SafeEduBackend/logger"
	"SafeEduBackend/models"
)

// NoticeService manages announcements. Reading a notice and counting a
// view are separate calls: Get never touches viewCount, RecordView does.
// Role checks happen in middleware before the mutating calls.
type NoticeService struct {
	notices NoticeRepository
	now     func() time.Time
	log     *logger.Logger
}

func NewNoticeService(notices NoticeRepository, log *logger.Logger) *NoticeService {
	return &NoticeService{
		notices: notices,
		now:     func() time.Time { return time.Now().UTC() },
		log:     log.With("service", "NoticeService"),
	}
}

// List returns notices newest first.
func (s *NoticeService) List(ctx context.Context) ([]models.Notice, error) {
	list, err := s.notices.ListNotices(ctx)
	if err != nil {
		return nil, NewInternalError("failed to fetch notices", err)
	}
	// Ties keep the store's order, which is latest created first.
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (s *NoticeService) Get(ctx context.Context, id string) (*models.Notice, error) {
	n, err := s.notices.GetNotice(ctx, id)
	if errors.Is(err, ErrRecordNotFound) {
		return nil, NewNotFoundError("notice not found")
	}
	if err != nil {
		return nil, NewInternalError("failed to fetch notice", err)
	}
	return n, nil
}

// RecordView adds one view and returns the notice as it is afterwards.
func (s *NoticeService) RecordView(ctx context.Context, id string) (*models.Notice, error) {
	n, err := s.notices.IncrementNoticeViews(ctx, id)
	if errors.Is(err, ErrRecordNotFound) {
		return nil, NewNotFoundError("notice not found")
	}
	if err != nil {
		return nil, NewInternalError("failed to fetch notice", err)
	}
	return n, nil
}

func (s *NoticeService) Create(ctx context.Context, authorID string, in models.NoticeCreate) (*models.Notice, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	if err := validateStruct("invalid notice data", in); err != nil {
		return nil, err
	}
	if authorID == "" {
		return nil, NewUnauthorizedError("author required")
	}

	n := models.NewNotice(authorID, in, s.now())
	if err := s.notices.CreateNotice(ctx, n); err != nil {
		return nil, NewInternalError("failed to create notice", err)
	}
	s.log.Info("notice created", "notice_id", n.ID, "author_id", authorID)
	return n, nil
}

func (s *NoticeService) Update(ctx context.Context, id string, in models.NoticeUpdate) (*models.Notice, error) {
	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		in.Title = &t
	}
	if in.Content != nil {
		c := strings.TrimSpace(*in.Content)
		in.Content = &c
	}
	if err := validateStruct("invalid notice data", in); err != nil {
		return nil, err
	}

	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	updated := *existing
	if in.Title != nil {
		updated.Title = *in.Title
	}
	if in.Content != nil {
		updated.Content = *in.Content
	}
	updated.UpdatedAt = s.now()

	if err := s.notices.UpdateNotice(ctx, &updated); err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, NewNotFoundError("notice not found")
		}
		return nil, NewInternalError("failed to update notice", err)
	}
	return s.Get(ctx, id)
}

func (s *NoticeService) Delete(ctx context.Context, id string) error {
	err := s.notices.DeleteNotice(ctx, id)
	if errors.Is(err, ErrRecordNotFound) {
		return NewNotFoundError("notice not found")
	}
	if err != nil {
		return NewInternalError("failed to delete notice", err)
	}
	s.log.Info("notice deleted", "notice_id", id)
	return nil
}
