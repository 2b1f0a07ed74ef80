package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Catalog API errors
	ErrAPIRequest     = fmt.Errorf("API request failed")
	ErrTransient      = fmt.Errorf("transient upstream failure")
	ErrRetryExhausted = fmt.Errorf("transient retries exhausted")

	// Session errors
	ErrUserNotInitialized = fmt.Errorf("user session not initialized")
	ErrEmptyPlaylist      = fmt.Errorf("filter matched no songs")
	ErrGenreNotFound      = fmt.Errorf("genre not in dictionary")

	// Input validation errors
	ErrValidation      = fmt.Errorf("validation failed")
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)

// UpstreamError reports a non-retryable HTTP failure from the catalog API.
//
// Unwraps to [ErrAPIRequest] so callers can classify with [errors.Is].
type UpstreamError struct {
	Status   int
	Endpoint string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%v: status %d (%s)", ErrAPIRequest, e.Status, e.Endpoint)
}

func (e *UpstreamError) Unwrap() error {
	return ErrAPIRequest
}
