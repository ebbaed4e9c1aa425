package aws

import (
	"errors"

	"github.com/aws/smithy-go"
)

// Error codes meaning the target no longer exists, across the services used.
var notFoundCodes = []string{
	"ResourceNotFound",                   // SageMaker
	"ResourceNotFoundException",          // Lambda
	"InvalidNetworkInterfaceID.NotFound", // EC2
	"FileSystemNotFound",                 // EFS
	"MountTargetNotFound",                // EFS
}

// Error codes meaning the target is still referenced by something else.
var inUseCodes = []string{
	"ResourceInUse",                 // SageMaker
	"ResourceConflictException",     // Lambda
	"InvalidNetworkInterface.InUse", // EC2
	"FileSystemInUse",               // EFS
}

// isAPIErrorCode checks if the error is an AWS API error with one of the given codes.
func isAPIErrorCode(err error, codes ...string) bool {
	if err == nil {
		return false
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		for _, c := range codes {
			if code == c {
				return true
			}
		}
	}
	return false
}

// IsNotFound checks if an error indicates the resource is already gone.
func IsNotFound(err error) bool {
	return isAPIErrorCode(err, notFoundCodes...)
}

// IsInUse checks if an error indicates the resource is still attached or referenced.
func IsInUse(err error) bool {
	return isAPIErrorCode(err, inUseCodes...)
}

// ErrorCode returns the AWS error code of err, or "" if it is not an API error.
func ErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}
