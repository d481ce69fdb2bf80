package reports

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// RenderTimesheetPDF renders a monthly summary as a one-page PDF.
func RenderTimesheetPDF(summary *MonthlySummary) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Timesheet")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", summary.EmployeeID))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s %d", summary.Month, summary.Year))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(40, 7, "Date", "1", 0, "", false, 0, "")
	pdf.CellFormat(35, 7, "Status", "1", 0, "", false, 0, "")
	pdf.CellFormat(35, 7, "Worked", "1", 0, "", false, 0, "")
	pdf.CellFormat(35, 7, "Breaks", "1", 1, "", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, day := range summary.Days {
		pdf.CellFormat(40, 7, day.Date, "1", 0, "", false, 0, "")
		pdf.CellFormat(35, 7, string(day.Status), "1", 0, "", false, 0, "")
		pdf.CellFormat(35, 7, formatSeconds(day.WorkedSeconds), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, formatSeconds(day.BreakSeconds), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(5)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total worked: %s over %d days", formatSeconds(summary.WorkedSeconds), summary.DaysWorked))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Total breaks: %s", formatSeconds(summary.BreakSeconds)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatSeconds(seconds int64) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	return fmt.Sprintf("%dh %02dm", hours, minutes)
}
