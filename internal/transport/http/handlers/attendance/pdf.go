package attendancehandler

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"herohub/internal/domain/attendance"
)

func renderSummaryPDF(w io.Writer, employeeName string, summary *attendance.MonthSummary) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Attendance Report")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", employeeName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s %d", summary.Month.String(), summary.Year))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Worked: %d days, %d minutes", summary.WorkedDays, summary.WorkedMinutes))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Late: %d days, Missing: %d days", summary.LateDays, summary.MissingDays))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(25, 7, "Day", "1", 0, "", false, 0, "")
	pdf.CellFormat(30, 7, "Check-in", "1", 0, "", false, 0, "")
	pdf.CellFormat(30, 7, "Check-out", "1", 0, "", false, 0, "")
	pdf.CellFormat(25, 7, "Minutes", "1", 0, "", false, 0, "")
	pdf.CellFormat(30, 7, "Status", "1", 1, "", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, day := range summary.Days {
		checkIn, checkOut := "-", "-"
		if day.CheckIn != nil {
			checkIn = day.CheckIn.Format("15:04")
		}
		if day.CheckOut != nil {
			checkOut = day.CheckOut.Format("15:04")
		}
		pdf.CellFormat(25, 6, day.Day.Format("2006-01-02"), "1", 0, "", false, 0, "")
		pdf.CellFormat(30, 6, checkIn, "1", 0, "", false, 0, "")
		pdf.CellFormat(30, 6, checkOut, "1", 0, "", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%d", day.WorkedMinutes), "1", 0, "", false, 0, "")
		pdf.CellFormat(30, 6, day.Status, "1", 1, "", false, 0, "")
	}

	return pdf.Output(w)
}
