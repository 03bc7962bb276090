package models

// Health is the backend's answer on its root endpoint.
type Health struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}
