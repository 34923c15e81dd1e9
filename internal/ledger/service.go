package ledger

import (
	"context"
	"fmt"
	"time"
)

// Store is the persistence surface the service needs.
type Store interface {
	LastDate(ctx context.Context) (string, error)
	Insert(ctx context.Context, rec LectureRecord) (LectureRecord, error)
	ListByDate(ctx context.Context) ([]LectureRecord, error)
}

// Service coordinates date advancement and attendance submission.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService creates a service backed by a store.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// ActiveDate resolves the date currently eligible for submission.
func (s *Service) ActiveDate(ctx context.Context) (date, day string, err error) {
	last, err := s.store.LastDate(ctx)
	if err != nil {
		return "", "", err
	}
	date, day = ActiveDate(last, s.now())
	return date, day, nil
}

// Submit validates, normalizes and appends one lecture record.
// Cancelled lectures are stored with no entries regardless of input.
// Returns ErrValidation on malformed input and ErrDuplicateDate when the
// date is already recorded.
func (s *Service) Submit(ctx context.Context, date, day string, status LectureStatus, entries []Entry, submittedBy string) (LectureRecord, error) {
	parsed, err := time.Parse(DateLayout, date)
	if err != nil {
		return LectureRecord{}, fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrValidation, date)
	}
	derivedDay := parsed.Weekday().String()
	if day != "" && day != derivedDay {
		return LectureRecord{}, fmt.Errorf("%w: %s is a %s, not a %s", ErrValidation, date, derivedDay, day)
	}

	switch status {
	case LectureConducted, LectureCancelled:
	default:
		return LectureRecord{}, fmt.Errorf("%w: unknown lecture status %q", ErrValidation, status)
	}

	if status == LectureCancelled {
		entries = nil
	}
	for _, e := range entries {
		if e.StudentID == "" {
			return LectureRecord{}, fmt.Errorf("%w: entry without student", ErrValidation)
		}
		if e.Status != Present && e.Status != Absent {
			return LectureRecord{}, fmt.Errorf("%w: unknown presence status %q", ErrValidation, e.Status)
		}
	}

	return s.store.Insert(ctx, LectureRecord{
		Date:        date,
		Day:         derivedDay,
		Status:      status,
		Entries:     entries,
		SubmittedBy: submittedBy,
	})
}

// Records returns the full ledger in date order.
func (s *Service) Records(ctx context.Context) ([]LectureRecord, error) {
	return s.store.ListByDate(ctx)
}
