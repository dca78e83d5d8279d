package documents

import "time"

// MaxDocumentBytes caps uploaded payloads. Payslips and signed contracts fit
// comfortably; anything bigger belongs in object storage, not the database.
const MaxDocumentBytes = 10 << 20

var allowedContentTypes = map[string]bool{
	"application/pdf": true,
	"image/png":       true,
	"image/jpeg":      true,
	"text/plain":      true,
}

func AllowedContentType(ct string) bool {
	return allowedContentTypes[ct]
}

type Document struct {
	ID          string    `json:"id"`
	EmployeeID  string    `json:"employeeId,omitempty"`
	Title       string    `json:"title"`
	Category    string    `json:"category,omitempty"`
	ContentType string    `json:"contentType"`
	SizeBytes   int       `json:"sizeBytes"`
	UploadedBy  string    `json:"uploadedBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

type UploadInput struct {
	EmployeeID  string `validate:"omitempty,uuid"`
	Title       string `validate:"required,max=200"`
	Category    string `validate:"max=100"`
	ContentType string `validate:"required"`
	Content     []byte `validate:"required"`
}
