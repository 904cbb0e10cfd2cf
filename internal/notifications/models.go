package notifications

// Notification is a proactive coaching prompt owed to the user
type Notification struct {
	Type       string `json:"type"`
	TimeWindow string `json:"time_window"`
	Message    string `json:"message"`
	Action     string `json:"action"`
}

// PendingResponse is the response for the pending-notification endpoint.
// Notification is null when nothing is owed.
type PendingResponse struct {
	Notification *Notification `json:"notification"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error code and message
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
