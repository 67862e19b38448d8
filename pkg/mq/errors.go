package mq

// TempError marks a handler failure as retryable: the delivery is requeued
// instead of dropped.
type TempError struct {
	Err error
}

func (e TempError) Error() string {
	return e.Err.Error()
}

func (e TempError) Unwrap() error {
	return e.Err
}

func (e TempError) Temporary() bool {
	return true
}

func Temporary(err error) error {
	return TempError{Err: err}
}
