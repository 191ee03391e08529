package dogecloud

import "fmt"

// APIError is returned when the API answers with a non-200 application code
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API Error: %s (code %d)", e.Message, e.Code)
}

// TransportError is returned when the API could not be reached or its
// response could not be read
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
