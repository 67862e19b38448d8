package v1

import "time"

type SendMessageResponse struct {
	Success      bool      `json:"success"`
	Message      string    `json:"message"`
	Phone        string    `json:"phone"`
	Timestamp    time.Time `json:"timestamp"`
	ResponseTime float64   `json:"response_time"`
	Response     *string   `json:"response"`
}

// SendMessageFailure reports a bridge-level logical failure: the bridge
// itself worked, the destination lookup did not.
type SendMessageFailure struct {
	Success   bool      `json:"success"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Phone     string    `json:"phone"`
	Timestamp time.Time `json:"timestamp"`
}

type StatusResponse struct {
	Running bool     `json:"running"`
	Phones  []string `json:"phones"`
}
