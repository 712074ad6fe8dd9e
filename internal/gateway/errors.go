package gateway

import "fmt"

// ConfigurationError means the endpoint for an operation is not set.
// No request is made.
type ConfigurationError struct {
	Operation string
	Setting   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s endpoint is not configured (set %s)", e.Operation, e.Setting)
}

// TransportError is a failure before any response was received.
type TransportError struct {
	Operation string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport failure: %v", e.Operation, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RemoteError is a failure reported by the backend.
type RemoteError struct {
	StatusCode int
	Message    string
	Hint       string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// ParseError means a response could not be decoded.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
