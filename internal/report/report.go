// Package report derives statistics, matrices and trends from the attendance
// ledger. Everything here is a pure function over (students, records): nothing
// is cached between calls and nothing mutates the ledger, so all of it is safe
// to run concurrently with reads and writes.
package report

import (
	"math"

	"cohortattend/internal/ledger"
	"cohortattend/internal/roster"
)

// CancelledMark is the matrix cell value for dates with no lecture.
const CancelledMark = "N/A"

// StudentStatistics summarizes one student's attendance. Cancelled lectures
// are counted separately and never enter the percentage denominator.
type StudentStatistics struct {
	TotalLectures        int     `json:"totalLectures"`
	PresentCount         int     `json:"presentCount"`
	AbsentCount          int     `json:"absentCount"`
	CancelledCount       int     `json:"cancelledCount"`
	AttendancePercentage float64 `json:"attendancePercentage"`
}

// CohortStatistics is the admin dashboard headline view.
type CohortStatistics struct {
	TotalStudents int `json:"totalStudents"`
	ConductedDays int `json:"conductedDays"`
	CancelledDays int `json:"cancelledDays"`
}

// DayRecord is one row of a student's per-date attendance listing.
type DayRecord struct {
	Date          string `json:"date"`
	Day           string `json:"day"`
	Status        string `json:"status"`
	LectureStatus string `json:"lectureStatus"`
}

// MatrixDate is one column of the cohort matrix.
type MatrixDate struct {
	ID     string `json:"id"`
	Date   string `json:"date"`
	Status string `json:"status"`
}

// MatrixStudent is one row of the cohort matrix: a student plus their
// date -> status mapping across every recorded date.
type MatrixStudent struct {
	ID           string            `json:"id"`
	EnrollmentNo string            `json:"enrollmentNo"`
	Name         string            `json:"name"`
	Attendance   map[string]string `json:"attendance"`
}

// Matrix is the dense students x dates view used for review and export.
type Matrix struct {
	Dates    []MatrixDate    `json:"dates"`
	Students []MatrixStudent `json:"students"`
}

// HistoryRow is one ledger record with per-record presence counts.
type HistoryRow struct {
	ID           string `json:"id"`
	Date         string `json:"date"`
	Day          string `json:"day"`
	Status       string `json:"status"`
	SubmittedBy  string `json:"submittedBy,omitempty"`
	PresentCount int    `json:"presentCount"`
	AbsentCount  int    `json:"absentCount"`
}

// TrendPoint is one month's attendance percentage.
type TrendPoint struct {
	Month      string  `json:"month"` // YYYY-MM
	Percentage float64 `json:"percentage"`
}

// presenceOf resolves a student's status within one conducted record.
// A student never given an explicit entry counts as absent; the ledger is
// read with that convention instead of backfilling entries at write time.
func presenceOf(studentID string, rec ledger.LectureRecord) ledger.PresenceStatus {
	for _, e := range rec.Entries {
		if e.StudentID == studentID {
			return e.Status
		}
	}
	return ledger.Absent
}

// ForStudent walks the ledger in date order and produces one student's
// statistics plus their per-date rows. presentCount+absentCount always equals
// totalLectures, and totalLectures+cancelledCount equals len(records).
func ForStudent(studentID string, records []ledger.LectureRecord) (StudentStatistics, []DayRecord) {
	var stats StudentStatistics
	rows := make([]DayRecord, 0, len(records))

	for _, rec := range records {
		if rec.Status == ledger.LectureCancelled {
			stats.CancelledCount++
			rows = append(rows, DayRecord{
				Date:          rec.Date,
				Day:           rec.Day,
				Status:        string(ledger.LectureCancelled),
				LectureStatus: string(ledger.LectureCancelled),
			})
			continue
		}

		stats.TotalLectures++
		status := presenceOf(studentID, rec)
		if status == ledger.Present {
			stats.PresentCount++
		} else {
			stats.AbsentCount++
		}
		rows = append(rows, DayRecord{
			Date:          rec.Date,
			Day:           rec.Day,
			Status:        string(status),
			LectureStatus: string(rec.Status),
		})
	}

	if stats.TotalLectures > 0 {
		raw := float64(stats.PresentCount) / float64(stats.TotalLectures) * 100
		stats.AttendancePercentage = math.Round(raw*100) / 100
	}
	return stats, rows
}

// Cohort counts conducted and cancelled days across the whole ledger.
func Cohort(totalStudents int, records []ledger.LectureRecord) CohortStatistics {
	stats := CohortStatistics{TotalStudents: totalStudents}
	for _, rec := range records {
		if rec.Status == ledger.LectureCancelled {
			stats.CancelledDays++
		} else {
			stats.ConductedDays++
		}
	}
	return stats
}

// BuildMatrix produces the dense students x dates attendance view. Cancelled
// dates are marked N/A for every student; conducted dates fall back to Absent
// when a student has no explicit entry.
func BuildMatrix(students []roster.Student, records []ledger.LectureRecord) Matrix {
	m := Matrix{
		Dates:    make([]MatrixDate, 0, len(records)),
		Students: make([]MatrixStudent, 0, len(students)),
	}
	for _, rec := range records {
		m.Dates = append(m.Dates, MatrixDate{ID: rec.ID, Date: rec.Date, Status: string(rec.Status)})
	}
	for _, st := range students {
		row := MatrixStudent{
			ID:           st.ID,
			EnrollmentNo: st.EnrollmentNo,
			Name:         st.Name,
			Attendance:   make(map[string]string, len(records)),
		}
		for _, rec := range records {
			if rec.Status == ledger.LectureCancelled {
				row.Attendance[rec.Date] = CancelledMark
			} else {
				row.Attendance[rec.Date] = string(presenceOf(st.ID, rec))
			}
		}
		m.Students = append(m.Students, row)
	}
	return m
}

// History lists the ledger newest-first with per-record presence counts.
func History(records []ledger.LectureRecord) []HistoryRow {
	rows := make([]HistoryRow, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]
		row := HistoryRow{
			ID:          rec.ID,
			Date:        rec.Date,
			Day:         rec.Day,
			Status:      string(rec.Status),
			SubmittedBy: rec.SubmittedBy,
		}
		for _, e := range rec.Entries {
			if e.Status == ledger.Present {
				row.PresentCount++
			} else {
				row.AbsentCount++
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// MonthlyTrend groups a student's conducted rows by YYYY-MM and computes the
// attendance percentage per month, rounded to one decimal. Months without a
// conducted lecture simply do not appear.
func MonthlyTrend(rows []DayRecord) []TrendPoint {
	type bucket struct{ present, total int }
	buckets := map[string]*bucket{}
	var months []string

	for _, row := range rows {
		if row.LectureStatus == string(ledger.LectureCancelled) || len(row.Date) < 7 {
			continue
		}
		month := row.Date[:7]
		b, ok := buckets[month]
		if !ok {
			b = &bucket{}
			buckets[month] = b
			months = append(months, month)
		}
		b.total++
		if row.Status == string(ledger.Present) {
			b.present++
		}
	}

	// Rows arrive in ledger date order, so insertion order is chronological.
	trend := make([]TrendPoint, 0, len(months))
	for _, month := range months {
		b := buckets[month]
		raw := float64(b.present) / float64(b.total) * 100
		trend = append(trend, TrendPoint{Month: month, Percentage: math.Round(raw*10) / 10})
	}
	return trend
}
