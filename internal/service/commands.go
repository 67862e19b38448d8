package service

import "time"

type SendCommand struct {
	Destination string
	Message     string
	Phone       string
}

// SendResult is the outcome of one send-and-wait operation. Success means
// the bridge did its job: a timed-out wait is still a success with a nil
// Response, and a failed destination lookup is Success=false with Error set
// rather than a transport-level failure.
type SendResult struct {
	Success      bool
	Message      string
	Phone        string
	Timestamp    time.Time
	ResponseTime float64
	Response     *string
	Error        string
}

// DeliveryReport is the audit record published after every completed
// operation, whether or not the caller was still waiting for it.
type DeliveryReport struct {
	Phone        string    `json:"phone"`
	Destination  string    `json:"destination"`
	Text         string    `json:"text"`
	Success      bool      `json:"success"`
	Response     *string   `json:"response"`
	ResponseTime float64   `json:"response_time"`
	ErrorCode    *string   `json:"error_code"`
	Timestamp    time.Time `json:"timestamp"`
}
