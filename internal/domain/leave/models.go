package leave

import "time"

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

type LeaveType struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	IsPaid    bool      `json:"isPaid"`
	CreatedAt time.Time `json:"createdAt"`
}

type Request struct {
	ID          string     `json:"id"`
	EmployeeID  string     `json:"employeeId"`
	LeaveTypeID string     `json:"leaveTypeId"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     time.Time  `json:"endDate"`
	StartHalf   bool       `json:"startHalf"`
	EndHalf     bool       `json:"endHalf"`
	Days        float64    `json:"days"`
	Reason      string     `json:"reason"`
	Status      string     `json:"status"`
	DecidedBy   string     `json:"decidedBy,omitempty"`
	DecidedAt   *time.Time `json:"decidedAt,omitempty"`
	DecisionNote string    `json:"decisionNote,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type Balance struct {
	EmployeeID  string  `json:"employeeId"`
	LeaveTypeID string  `json:"leaveTypeId"`
	Days        float64 `json:"days"`
}

type RequestInput struct {
	LeaveTypeID string `json:"leaveTypeId" validate:"required,uuid"`
	StartDate   string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate     string `json:"endDate" validate:"required,datetime=2006-01-02"`
	StartHalf   bool   `json:"startHalf"`
	EndHalf     bool   `json:"endHalf"`
	Reason      string `json:"reason" validate:"max=500"`
}
