package v1

type SendMessageRequest struct {
	Destination string `json:"destination"`
	Message     string `json:"message"`
	Phone       string `json:"phone"`
}
