package domain

// LeadRecord is the durable projection of a session. Password and Blueprint
// start empty and are set only by account conversion (or a password reset).
// Rows are never deleted by this service.
type LeadRecord struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Vision    string `json:"vision"`
	Timestamp string `json:"timestamp"`
	SessionID string `json:"session_id"`
	IP        string `json:"ip"`
	Device    string `json:"device"`
	Password  string `json:"-"`
	Blueprint string `json:"blueprint,omitempty"`
}
