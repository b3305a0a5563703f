package service

import "fmt"

// ErrInvalidCloseRequest marks a request that can never succeed, however often it is retried
type ErrInvalidCloseRequest struct {
	Reason error
}

func (e ErrInvalidCloseRequest) Error() string {
	return fmt.Sprintf("invalid close request: %v", e.Reason)
}

func (e ErrInvalidCloseRequest) Unwrap() error {
	return e.Reason
}

func (e ErrInvalidCloseRequest) Is(target error) bool {
	_, ok := target.(ErrInvalidCloseRequest)
	return ok
}
