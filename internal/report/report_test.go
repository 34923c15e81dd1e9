package report

import (
	"fmt"
	"testing"

	"cohortattend/internal/ledger"
	"cohortattend/internal/roster"
)

func conducted(date, day string, entries ...ledger.Entry) ledger.LectureRecord {
	return ledger.LectureRecord{ID: "rec-" + date, Date: date, Day: day, Status: ledger.LectureConducted, Entries: entries}
}

func cancelled(date, day string) ledger.LectureRecord {
	return ledger.LectureRecord{ID: "rec-" + date, Date: date, Day: day, Status: ledger.LectureCancelled}
}

func TestForStudentCounts(t *testing.T) {
	// Ten conducted lectures, present in seven, one cancelled in between.
	var records []ledger.LectureRecord
	for i := 0; i < 10; i++ {
		status := ledger.Present
		if i >= 7 {
			status = ledger.Absent
		}
		date := fmt.Sprintf("2024-03-%02d", i+1)
		records = append(records, conducted(date, "", ledger.Entry{StudentID: "s1", Status: status}))
		if i == 4 {
			records = append(records, cancelled("2024-03-20", ""))
		}
	}

	stats, rows := ForStudent("s1", records)
	if stats.TotalLectures != 10 || stats.PresentCount != 7 || stats.AbsentCount != 3 || stats.CancelledCount != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.AttendancePercentage != 70.00 {
		t.Errorf("percentage = %v, want 70.00", stats.AttendancePercentage)
	}
	if len(rows) != len(records) {
		t.Errorf("rows = %d, want %d", len(rows), len(records))
	}

	// Invariants hold regardless of the data shape.
	if stats.PresentCount+stats.AbsentCount != stats.TotalLectures {
		t.Error("present + absent != total lectures")
	}
	if stats.TotalLectures+stats.CancelledCount != len(records) {
		t.Error("total lectures + cancelled != ledger size")
	}
}

func TestForStudentAbsentByDefault(t *testing.T) {
	// s2 has no entry at all; still counted absent, never missing.
	records := []ledger.LectureRecord{
		conducted("2024-03-05", "Tuesday", ledger.Entry{StudentID: "s1", Status: ledger.Present}),
	}
	stats, rows := ForStudent("s2", records)
	if stats.AbsentCount != 1 || stats.TotalLectures != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if rows[0].Status != string(ledger.Absent) {
		t.Errorf("row status = %s, want Absent", rows[0].Status)
	}
}

func TestForStudentPercentage(t *testing.T) {
	tests := []struct {
		name    string
		present int
		total   int
		want    float64
	}{
		{name: "empty ledger guards division", present: 0, total: 0, want: 0},
		{name: "two decimal rounding", present: 1, total: 3, want: 33.33},
		{name: "rounds up", present: 2, total: 3, want: 66.67},
		{name: "full attendance", present: 4, total: 4, want: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var records []ledger.LectureRecord
			for i := 0; i < tt.total; i++ {
				status := ledger.Absent
				if i < tt.present {
					status = ledger.Present
				}
				date := fmt.Sprintf("2024-04-%02d", i+1)
				records = append(records, conducted(date, "", ledger.Entry{StudentID: "s1", Status: status}))
			}
			stats, _ := ForStudent("s1", records)
			if stats.AttendancePercentage != tt.want {
				t.Errorf("percentage = %v, want %v", stats.AttendancePercentage, tt.want)
			}
		})
	}
}

func TestCohort(t *testing.T) {
	records := []ledger.LectureRecord{
		conducted("2024-03-05", ""),
		cancelled("2024-03-06", ""),
		conducted("2024-03-07", ""),
	}
	stats := Cohort(42, records)
	if stats.TotalStudents != 42 || stats.ConductedDays != 2 || stats.CancelledDays != 1 {
		t.Errorf("unexpected cohort stats: %+v", stats)
	}
}

func TestBuildMatrix(t *testing.T) {
	students := []roster.Student{
		{ID: "s1", EnrollmentNo: "240280107036", Name: "Asha"},
		{ID: "s2", EnrollmentNo: "240280107043", Name: "Ravi"},
	}
	records := []ledger.LectureRecord{
		conducted("2024-03-05", "Tuesday", ledger.Entry{StudentID: "s1", Status: ledger.Present}),
		cancelled("2024-03-06", "Wednesday"),
	}

	m := BuildMatrix(students, records)
	if len(m.Dates) != 2 || len(m.Students) != 2 {
		t.Fatalf("matrix is %dx%d, want 2x2", len(m.Students), len(m.Dates))
	}

	s1 := m.Students[0].Attendance
	s2 := m.Students[1].Attendance
	if s1["2024-03-05"] != string(ledger.Present) {
		t.Errorf("s1 conducted cell = %s, want Present", s1["2024-03-05"])
	}
	if s2["2024-03-05"] != string(ledger.Absent) {
		t.Errorf("s2 missing-entry cell = %s, want Absent", s2["2024-03-05"])
	}
	if s1["2024-03-06"] != CancelledMark || s2["2024-03-06"] != CancelledMark {
		t.Error("cancelled date not marked N/A for every student")
	}
}

func TestHistory(t *testing.T) {
	records := []ledger.LectureRecord{
		conducted("2024-03-05", "Tuesday",
			ledger.Entry{StudentID: "s1", Status: ledger.Present},
			ledger.Entry{StudentID: "s2", Status: ledger.Absent}),
		cancelled("2024-03-06", "Wednesday"),
	}

	rows := History(records)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].Date != "2024-03-06" {
		t.Errorf("history not newest-first: first row is %s", rows[0].Date)
	}
	if rows[1].PresentCount != 1 || rows[1].AbsentCount != 1 {
		t.Errorf("conducted row counts = %d/%d, want 1/1", rows[1].PresentCount, rows[1].AbsentCount)
	}
}

func TestMonthlyTrend(t *testing.T) {
	records := []ledger.LectureRecord{
		conducted("2024-03-05", "", ledger.Entry{StudentID: "s1", Status: ledger.Present}),
		conducted("2024-03-06", "", ledger.Entry{StudentID: "s1", Status: ledger.Present}),
		conducted("2024-03-07", "", ledger.Entry{StudentID: "s1", Status: ledger.Absent}),
		cancelled("2024-03-08", ""),
		conducted("2024-04-02", "", ledger.Entry{StudentID: "s1", Status: ledger.Present}),
	}
	_, rows := ForStudent("s1", records)

	trend := MonthlyTrend(rows)
	if len(trend) != 2 {
		t.Fatalf("trend months = %d, want 2", len(trend))
	}
	if trend[0].Month != "2024-03" || trend[0].Percentage != 66.7 {
		t.Errorf("march = %+v, want 66.7", trend[0])
	}
	if trend[1].Month != "2024-04" || trend[1].Percentage != 100 {
		t.Errorf("april = %+v, want 100", trend[1])
	}
}

func TestMonthlyTrendSkipsEmptyMonths(t *testing.T) {
	records := []ledger.LectureRecord{
		cancelled("2024-05-07", ""),
	}
	_, rows := ForStudent("s1", records)
	if trend := MonthlyTrend(rows); len(trend) != 0 {
		t.Errorf("month with only cancelled lectures should be absent, got %+v", trend)
	}
}
