package ledger

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
)

// memStore is an in-memory Store enforcing the unique-date contract.
type memStore struct {
	records []LectureRecord
}

func (m *memStore) LastDate(ctx context.Context) (string, error) {
	last := ""
	for _, rec := range m.records {
		if rec.Date > last {
			last = rec.Date
		}
	}
	return last, nil
}

func (m *memStore) Insert(ctx context.Context, rec LectureRecord) (LectureRecord, error) {
	for _, existing := range m.records {
		if existing.Date == rec.Date {
			return LectureRecord{}, ErrDuplicateDate
		}
	}
	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Now()
	m.records = append(m.records, rec)
	return rec, nil
}

func (m *memStore) ListByDate(ctx context.Context) ([]LectureRecord, error) {
	out := append([]LectureRecord(nil), m.records...)
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func TestSubmitDuplicateDate(t *testing.T) {
	svc := NewService(&memStore{})
	ctx := context.Background()

	entries := []Entry{{StudentID: "s1", Status: Present}}
	if _, err := svc.Submit(ctx, "2024-03-05", "", LectureConducted, entries, "admin"); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	if _, err := svc.Submit(ctx, "2024-03-06", "", LectureConducted, entries, "admin"); err != nil {
		t.Fatalf("submit for a different date failed: %v", err)
	}
	if _, err := svc.Submit(ctx, "2024-03-05", "", LectureConducted, entries, "admin"); !errors.Is(err, ErrDuplicateDate) {
		t.Fatalf("second submit for same date: got %v, want ErrDuplicateDate", err)
	}
}

func TestSubmitNormalizesCancelled(t *testing.T) {
	store := &memStore{}
	svc := NewService(store)

	rec, err := svc.Submit(context.Background(), "2024-03-05", "", LectureCancelled,
		[]Entry{{StudentID: "s1", Status: Present}}, "admin")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if len(rec.Entries) != 0 {
		t.Errorf("cancelled record kept %d entries, want 0", len(rec.Entries))
	}
	if rec.Day != "Tuesday" {
		t.Errorf("derived day = %s, want Tuesday", rec.Day)
	}
}

func TestSubmitValidation(t *testing.T) {
	svc := NewService(&memStore{})
	ctx := context.Background()

	tests := []struct {
		name    string
		date    string
		day     string
		status  LectureStatus
		entries []Entry
	}{
		{name: "malformed date", date: "05-03-2024", status: LectureConducted},
		{name: "day inconsistent with date", date: "2024-03-05", day: "Friday", status: LectureConducted},
		{name: "unknown lecture status", date: "2024-03-05", status: "Postponed"},
		{name: "unknown presence status", date: "2024-03-05", status: LectureConducted,
			entries: []Entry{{StudentID: "s1", Status: "Late"}}},
		{name: "entry without student", date: "2024-03-05", status: LectureConducted,
			entries: []Entry{{Status: Present}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Submit(ctx, tt.date, tt.day, tt.status, tt.entries, "admin"); !errors.Is(err, ErrValidation) {
				t.Errorf("got %v, want ErrValidation", err)
			}
		})
	}
}

func TestServiceActiveDate(t *testing.T) {
	store := &memStore{}
	svc := NewService(store)
	svc.now = func() time.Time { return day(t, "2024-03-02") } // Saturday

	if _, err := svc.Submit(context.Background(), "2024-03-01", "", LectureConducted, nil, "admin"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	date, dayName, err := svc.ActiveDate(context.Background())
	if err != nil {
		t.Fatalf("ActiveDate failed: %v", err)
	}
	if date != "2024-03-05" || dayName != "Tuesday" {
		t.Errorf("got (%s, %s), want (2024-03-05, Tuesday)", date, dayName)
	}
}
