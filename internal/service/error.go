package service

// Error carries a stable error code alongside its cause. The API layer maps
// codes to HTTP statuses via constants.GetHTTPStatus.
type Error struct {
	Code  string
	Cause error
}

func NewServiceError(code string, cause error) error {
	return Error{Code: code, Cause: cause}
}

func (e Error) Error() string {
	return e.Cause.Error()
}

func (e Error) Unwrap() error {
	return e.Cause
}
