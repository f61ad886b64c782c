package llm

import "errors"

// Common client errors
var (
	// ErrEmptyPrompt indicates Chat was called with no messages.
	ErrEmptyPrompt = errors.New("no messages provided")

	// ErrEmptyResponse indicates the model returned an empty response.
	ErrEmptyResponse = errors.New("the model returned an empty response")
)

// ConfigurationError indicates an unusable configuration: an unknown provider
// tag or a missing required connection parameter. It is fatal and surfaced at
// construction time, before any network call.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// Is implements errors.Is support for ConfigurationError.
func (e *ConfigurationError) Is(target error) bool {
	_, ok := target.(*ConfigurationError)
	return ok
}

// NewConfigurationError creates a new configuration error.
func NewConfigurationError(message string) *ConfigurationError {
	return &ConfigurationError{Message: message}
}

// AuthenticationError indicates a missing or rejected credential. It is fatal
// per call and never retried.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	if e.Message == "" {
		return "authentication failed"
	}
	return e.Message
}

// Is implements errors.Is support for AuthenticationError.
func (e *AuthenticationError) Is(target error) bool {
	_, ok := target.(*AuthenticationError)
	return ok
}

// NewAuthenticationError creates a new authentication error.
func NewAuthenticationError(message string) *AuthenticationError {
	return &AuthenticationError{Message: message}
}

// RateLimitError indicates the provider signalled throttling. Transient; the
// retry layer backs off and retries with a bounded attempt count.
type RateLimitError struct {
	Message string
}

func (e *RateLimitError) Error() string {
	if e.Message == "" {
		return "rate limit exceeded. Please try again later"
	}
	return e.Message
}

// Is implements errors.Is support for RateLimitError.
func (e *RateLimitError) Is(target error) bool {
	_, ok := target.(*RateLimitError)
	return ok
}

// NewRateLimitError creates a new rate limit error with optional custom message.
func NewRateLimitError(message ...string) *RateLimitError {
	err := &RateLimitError{}
	if len(message) > 0 {
		err.Message = message[0]
	}
	return err
}

// TransportError indicates a network failure or timeout. Transient; subject
// to bounded retry.
type TransportError struct {
	Message string
	Cause   error
}

func (e *TransportError) Error() string {
	if e.Message == "" {
		return "transport failure"
	}
	return e.Message
}

// Unwrap exposes the underlying network error.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is support for TransportError.
func (e *TransportError) Is(target error) bool {
	_, ok := target.(*TransportError)
	return ok
}

// NewTransportError creates a new transport error wrapping cause.
func NewTransportError(message string, cause error) *TransportError {
	return &TransportError{Message: message, Cause: cause}
}

// ProviderError indicates a well-formed error payload from the vendor that is
// neither an auth failure nor throttling.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return e.Message
}

// Is implements errors.Is support for ProviderError.
func (e *ProviderError) Is(target error) bool {
	_, ok := target.(*ProviderError)
	return ok
}

// NewProviderError creates a new provider error.
func NewProviderError(statusCode int, message string) *ProviderError {
	return &ProviderError{StatusCode: statusCode, Message: message}
}

// classifyStatus maps an HTTP status and body into the error taxonomy.
// Shared by the hand-rolled HTTP backends (gemini, llamacpp) and the
// SDK-backed ones when the SDK exposes a status code.
func classifyStatus(status int, body string) error {
	switch {
	case status == 401 || status == 403:
		return NewAuthenticationError(body)
	case status == 429:
		return NewRateLimitError(body)
	default:
		return NewProviderError(status, body)
	}
}

// IsFatal reports whether err is unusable regardless of retries or chunking.
func IsFatal(err error) bool {
	return errors.Is(err, &ConfigurationError{}) || errors.Is(err, &AuthenticationError{})
}

// IsTransient reports whether err is worth retrying with backoff.
func IsTransient(err error) bool {
	return errors.Is(err, &RateLimitError{}) || errors.Is(err, &TransportError{})
}
