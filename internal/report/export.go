package report

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// MatrixCSV renders the cohort matrix as CSV: one row per student, one column
// per recorded date, preceded by enrollment number and name. Layout matches
// the admin dashboard export.
func MatrixCSV(m Matrix) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Enrollment No", "Student Name"}
	for _, d := range m.Dates {
		header = append(header, d.Date)
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, st := range m.Students {
		row := []string{st.EnrollmentNo, st.Name}
		for _, d := range m.Dates {
			cell, ok := st.Attendance[d.Date]
			if !ok {
				cell = "Absent"
			}
			row = append(row, cell)
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// MatrixXLSX renders the cohort matrix as an Excel workbook with a single
// "Attendance" sheet, bold header row, and one column per recorded date.
func MatrixXLSX(m Matrix) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Attendance"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}

	header := []string{"Enrollment No", "Student Name"}
	for _, d := range m.Dates {
		header = append(header, d.Date)
	}
	for col, title := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, err
		}
	}
	endHeader, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(sheet, "A1", endHeader, headerStyle); err != nil {
		return nil, err
	}

	for i, st := range m.Students {
		rowNum := i + 2
		values := []string{st.EnrollmentNo, st.Name}
		for _, d := range m.Dates {
			cell, ok := st.Attendance[d.Date]
			if !ok {
				cell = "Absent"
			}
			values = append(values, cell)
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}
