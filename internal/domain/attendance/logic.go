package attendance

import "time"

// Workday boundaries used for late detection. A shift calendar would
// make these per-employee; the product currently runs one fixed shift.
const (
	workdayStartHour = 9
	lateGraceMinutes = 15
)

// BuildMonthSummary renders the calendar grid for one month out of the
// raw punch list. Weekends never count as missing, days after today are
// marked future and excluded from totals, a punch without a check-out is
// incomplete and contributes no minutes.
func BuildMonthSummary(year int, month time.Month, punches []Punch, now time.Time) MonthSummary {
	byDay := make(map[string]Punch, len(punches))
	for _, p := range punches {
		byDay[p.Day.Format("2006-01-02")] = p
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	first := time.Date(year, month, 1, 0, 0, 0, 0, now.Location())

	summary := MonthSummary{Year: year, Month: month}
	for day := first; day.Month() == month; day = day.AddDate(0, 0, 1) {
		cell := DaySummary{Day: day, Weekday: day.Weekday().String()}

		switch {
		case day.After(today):
			cell.Status = DayStatusFuture
		case day.Weekday() == time.Saturday || day.Weekday() == time.Sunday:
			cell.Status = DayStatusWeekend
		default:
			cell = workdayCell(cell, byDay[day.Format("2006-01-02")])
		}

		summary.WorkedMinutes += cell.WorkedMinutes
		switch cell.Status {
		case DayStatusOK, DayStatusLate:
			summary.WorkedDays++
		}
		if cell.Status == DayStatusLate {
			summary.LateDays++
		}
		if cell.Status == DayStatusMissing {
			summary.MissingDays++
		}
		summary.Days = append(summary.Days, cell)
	}
	return summary
}

func workdayCell(cell DaySummary, punch Punch) DaySummary {
	if punch.CheckIn == nil {
		cell.Status = DayStatusMissing
		return cell
	}
	cell.CheckIn = punch.CheckIn
	cell.CheckOut = punch.CheckOut

	if punch.CheckOut == nil {
		cell.Status = DayStatusIncomplete
		return cell
	}

	worked := punch.CheckOut.Sub(*punch.CheckIn)
	if worked > 0 {
		cell.WorkedMinutes = int(worked.Minutes())
	}

	deadline := time.Date(punch.CheckIn.Year(), punch.CheckIn.Month(), punch.CheckIn.Day(),
		workdayStartHour, lateGraceMinutes, 0, 0, punch.CheckIn.Location())
	if punch.CheckIn.After(deadline) {
		cell.Status = DayStatusLate
	} else {
		cell.Status = DayStatusOK
	}
	return cell
}
