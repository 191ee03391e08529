package uploader

import "fmt"

// UploadError records a single file that could not be uploaded
type UploadError struct {
	Key string
	Err error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("failed to upload %s: %v", e.Key, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// ListError records a directory that could not be enumerated
type ListError struct {
	Dir string
	Err error
}

func (e *ListError) Error() string {
	return fmt.Sprintf("failed to list %s: %v", e.Dir, e.Err)
}

func (e *ListError) Unwrap() error {
	return e.Err
}
