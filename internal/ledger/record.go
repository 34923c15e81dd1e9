package ledger

import (
	"errors"
	"time"
)

// LectureStatus tells whether a lecture actually happened on a date.
type LectureStatus string

const (
	LectureConducted LectureStatus = "Conducted"
	LectureCancelled LectureStatus = "Cancelled"
)

// PresenceStatus is a single student's state for a conducted lecture.
type PresenceStatus string

const (
	Present PresenceStatus = "Present"
	Absent  PresenceStatus = "Absent"
)

var (
	// ErrDuplicateDate is returned when a record already exists for the date.
	ErrDuplicateDate = errors.New("attendance already exists for this date")
	// ErrValidation wraps malformed input rejected before any write.
	ErrValidation = errors.New("invalid attendance submission")
)

// Entry records one student's presence within a lecture record.
type Entry struct {
	StudentID string         `json:"studentId"`
	Status    PresenceStatus `json:"status"`
}

// LectureRecord is the ledger's unit: one lecture date, immutable once written.
// Entries are empty for cancelled lectures. A student missing from Entries of
// a conducted lecture counts as absent at read time; the gap is never
// backfilled so the stored entries stay an honest audit of what was marked.
type LectureRecord struct {
	ID          string        `json:"id"`
	Date        string        `json:"date"` // YYYY-MM-DD
	Day         string        `json:"day"`
	Status      LectureStatus `json:"lectureStatus"`
	Entries     []Entry       `json:"records,omitempty"`
	SubmittedBy string        `json:"submittedBy,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
}
