package dto

// ErrorResponse is the body of every non-2xx reply. Details is only filled
// for 500s.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
	OrgCount  int    `json:"orgCount"`
}
