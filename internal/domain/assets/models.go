package assets

import "time"

const (
	StatusAvailable = "available"
	StatusAssigned  = "assigned"
	StatusRetired   = "retired"
)

type Asset struct {
	ID           string     `json:"id"`
	Tag          string     `json:"tag"`
	Name         string     `json:"name"`
	Category     string     `json:"category,omitempty"`
	SerialNumber string     `json:"serialNumber,omitempty"`
	Status       string     `json:"status"`
	PurchasedAt  *time.Time `json:"purchasedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

type AssetInput struct {
	Tag          string `json:"tag" validate:"required,max=64"`
	Name         string `json:"name" validate:"required,max=200"`
	Category     string `json:"category" validate:"max=100"`
	SerialNumber string `json:"serialNumber" validate:"max=100"`
	PurchasedAt  string `json:"purchasedAt" validate:"omitempty,datetime=2006-01-02"`
}

type Assignment struct {
	ID         string     `json:"id"`
	AssetID    string     `json:"assetId"`
	EmployeeID string     `json:"employeeId"`
	AssignedAt time.Time  `json:"assignedAt"`
	ReturnedAt *time.Time `json:"returnedAt,omitempty"`
	Note       string     `json:"note,omitempty"`
}
