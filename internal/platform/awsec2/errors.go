package awsec2

import (
	"errors"

	"github.com/aws/smithy-go"
)

// IsNotFound checks if an error indicates a resource was not found.
func IsNotFound(err error) bool {
	return isAPIErrorCode(err,
		"InvalidInstanceID.NotFound",
		"InvalidGroup.NotFound",
		"InvalidKeyPair.NotFound",
	)
}

// IsDuplicate checks if an error indicates the resource already exists.
func IsDuplicate(err error) bool {
	return isAPIErrorCode(err,
		"InvalidGroup.Duplicate",
		"InvalidKeyPair.Duplicate",
	)
}

// isInvalidParameter checks if an error indicates invalid parameters.
// These errors are fatal and should not be retried.
func isInvalidParameter(err error) bool {
	return isAPIErrorCode(err,
		"InvalidParameterValue",
		"InvalidParameterCombination",
		"InvalidAMIID.NotFound",
		"InvalidAMIID.Malformed",
		"Unsupported",
	)
}

// isDependencyViolation checks if a delete failed because another resource
// still references the target. Retryable: instances release their security
// group shortly after termination.
func isDependencyViolation(err error) bool {
	return isAPIErrorCode(err, "DependencyViolation")
}

// isAPIErrorCode checks if the error is an EC2 API error with one of the given codes.
func isAPIErrorCode(err error, codes ...string) bool {
	if err == nil {
		return false
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		for _, code := range codes {
			if apiErr.ErrorCode() == code {
				return true
			}
		}
	}
	return false
}
