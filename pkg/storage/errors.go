package storage

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
)

// Sentinel errors for the upload failure taxonomy. Callers translate
// these to API-facing errors; nothing here is retried.
var (
	// ErrNoCredentials covers missing or rejected storage credentials.
	ErrNoCredentials = errors.New("storage credentials not available")
	// ErrUnavailable covers transport-level failures reaching the store.
	ErrUnavailable = errors.New("storage unavailable")
	// ErrUnknown covers anything the other categories do not.
	ErrUnknown = errors.New("unexpected storage error")
)

// ClientError is a store-reported request failure (permission denial,
// missing object on a probe, quota). Message carries the store's own
// error text.
type ClientError struct {
	Code    string
	Message string
	Err     error
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("storage client error %s: %s", e.Code, e.Message)
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// Error codes the store reports for credential problems rather than
// request problems.
var credentialErrorCodes = map[string]bool{
	"InvalidAccessKeyId":         true,
	"SignatureDoesNotMatch":      true,
	"AccessDenied":               true,
	"ExpiredToken":               true,
	"InvalidToken":               true,
	"MissingAuthenticationToken": true,
}

// classify maps an SDK error onto the closed failure set. APIError is
// checked before OperationError because the latter wraps both service
// and transport failures.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if credentialErrorCodes[apiErr.ErrorCode()] {
			return fmt.Errorf("%w: %s", ErrNoCredentials, apiErr.ErrorMessage())
		}
		return &ClientError{
			Code:    apiErr.ErrorCode(),
			Message: apiErr.ErrorMessage(),
			Err:     err,
		}
	}

	var opErr *smithy.OperationError
	if errors.As(err, &opErr) {
		// Operation failed without a service response: transport layer.
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return fmt.Errorf("%w: %v", ErrUnknown, err)
}
