package s3

import (
	"errors"

	"github.com/aws/smithy-go"
)

// errorCode extracts the service error code from an AWS SDK error, for log
// fields and store-failure diagnostics. Returns "" for non-API errors.
func errorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}
