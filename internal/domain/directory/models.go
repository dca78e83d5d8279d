package directory

import "time"

type Employee struct {
	ID         string     `json:"id"`
	TenantID   string     `json:"-"`
	UserID     string     `json:"userId,omitempty"`
	FirstName  string     `json:"firstName"`
	LastName   string     `json:"lastName"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone,omitempty"`
	Department string     `json:"department,omitempty"`
	Title      string     `json:"title,omitempty"`
	ManagerID  string     `json:"managerId,omitempty"`
	AvatarURL  string     `json:"avatarUrl,omitempty"`
	StartDate  *time.Time `json:"startDate,omitempty"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

type EmployeeInput struct {
	FirstName  string `json:"firstName" validate:"required,max=120"`
	LastName   string `json:"lastName" validate:"required,max=120"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"max=32"`
	Department string `json:"department" validate:"max=120"`
	Title      string `json:"title" validate:"max=120"`
	ManagerID  string `json:"managerId" validate:"omitempty,uuid"`
	StartDate  string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
}
