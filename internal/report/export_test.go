package report

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/xuri/excelize/v2"

	"cohortattend/internal/ledger"
	"cohortattend/internal/roster"
)

func exportFixture() Matrix {
	students := []roster.Student{
		{ID: "s1", EnrollmentNo: "240280107036", Name: "Asha"},
		{ID: "s2", EnrollmentNo: "240280107043", Name: "Ravi"},
	}
	records := []ledger.LectureRecord{
		conducted("2024-03-05", "Tuesday", ledger.Entry{StudentID: "s1", Status: ledger.Present}),
		cancelled("2024-03-06", "Wednesday"),
	}
	return BuildMatrix(students, records)
}

func TestMatrixCSV(t *testing.T) {
	data, err := MatrixCSV(exportFixture())
	if err != nil {
		t.Fatalf("MatrixCSV failed: %v", err)
	}

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2 students", len(rows))
	}

	wantHeader := []string{"Enrollment No", "Student Name", "2024-03-05", "2024-03-06"}
	for i, col := range wantHeader {
		if rows[0][i] != col {
			t.Errorf("header[%d] = %q, want %q", i, rows[0][i], col)
		}
	}
	if rows[1][2] != "Present" || rows[2][2] != "Absent" {
		t.Errorf("conducted column = %q/%q, want Present/Absent", rows[1][2], rows[2][2])
	}
	if rows[1][3] != CancelledMark || rows[2][3] != CancelledMark {
		t.Errorf("cancelled column = %q/%q, want %s for every student", rows[1][3], rows[2][3], CancelledMark)
	}
}

func TestMatrixXLSX(t *testing.T) {
	buf, err := MatrixXLSX(exportFixture())
	if err != nil {
		t.Fatalf("MatrixXLSX failed: %v", err)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	cells := map[string]string{
		"A1": "Enrollment No",
		"C1": "2024-03-05",
		"A2": "240280107036",
		"C2": "Present",
		"D3": CancelledMark,
	}
	for cell, want := range cells {
		got, err := f.GetCellValue("Attendance", cell)
		if err != nil {
			t.Fatalf("read %s: %v", cell, err)
		}
		if got != want {
			t.Errorf("%s = %q, want %q", cell, got, want)
		}
	}
}
