package model

// ErrorClass classifies a session failure for the caller.
type ErrorClass int

const (
	// ErrClientSetup covers failures that never reach the network:
	// missing file, unsupported type, bad local state.
	ErrClientSetup ErrorClass = iota
	// ErrNetworkUnreachable means the request was sent but no response arrived.
	ErrNetworkUnreachable
	// ErrServerRejected is a 4xx rejection carrying a structured reason.
	ErrServerRejected
	// ErrServerFailure is a 5xx, a malformed success payload, or an
	// explicit FAILURE job status.
	ErrServerFailure
)

func (c ErrorClass) String() string {
	switch c {
	case ErrClientSetup:
		return "client_setup"
	case ErrNetworkUnreachable:
		return "network_unreachable"
	case ErrServerRejected:
		return "server_rejected"
	case ErrServerFailure:
		return "server_failure"
	default:
		return "unknown"
	}
}

// ErrorInfo is the single typed error surfaced to callers. Components
// classify locally and return one of these rather than raising past the
// session.
type ErrorInfo struct {
	Class   ErrorClass
	Message string
}

func (e *ErrorInfo) Error() string {
	return e.Message
}

// NewError builds a classified error with a human-readable message.
func NewError(class ErrorClass, message string) *ErrorInfo {
	return &ErrorInfo{Class: class, Message: message}
}

// AsErrorInfo normalizes any error into an ErrorInfo, defaulting the class
// when the error is not already classified.
func AsErrorInfo(err error, fallback ErrorClass) *ErrorInfo {
	if err == nil {
		return nil
	}
	if ei, ok := err.(*ErrorInfo); ok {
		return ei
	}
	return &ErrorInfo{Class: fallback, Message: err.Error()}
}
