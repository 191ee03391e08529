package s3client

import (
	"errors"

	"github.com/aws/smithy-go"
)

// ErrorCode returns the S3 error code carried by err, or "" when err did not
// come from the service
func ErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}
