package attendance

import "time"

const (
	DayStatusOK         = "ok"
	DayStatusLate       = "late"
	DayStatusIncomplete = "incomplete"
	DayStatusMissing    = "missing"
	DayStatusWeekend    = "weekend"
	DayStatusFuture     = "future"
)

type Punch struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employeeId"`
	Day        time.Time  `json:"day"`
	CheckIn    *time.Time `json:"checkIn,omitempty"`
	CheckOut   *time.Time `json:"checkOut,omitempty"`
	Source     string     `json:"source,omitempty"`
	Note       string     `json:"note,omitempty"`
}

// DaySummary is one cell of the monthly attendance calendar.
type DaySummary struct {
	Day           time.Time  `json:"day"`
	Weekday       string     `json:"weekday"`
	CheckIn       *time.Time `json:"checkIn,omitempty"`
	CheckOut      *time.Time `json:"checkOut,omitempty"`
	WorkedMinutes int        `json:"workedMinutes"`
	Status        string     `json:"status"`
}

type MonthSummary struct {
	Year          int          `json:"year"`
	Month         time.Month   `json:"month"`
	Days          []DaySummary `json:"days"`
	WorkedMinutes int          `json:"workedMinutes"`
	WorkedDays    int          `json:"workedDays"`
	LateDays      int          `json:"lateDays"`
	MissingDays   int          `json:"missingDays"`
}
