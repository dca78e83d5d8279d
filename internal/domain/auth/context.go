package auth

// UserContext is the authenticated caller as seen by handlers. Token carries
// the raw bearer token so logout and refresh can address the stored session.
type UserContext struct {
	UserID   string
	TenantID string
	Role     string
	Token    string
}
