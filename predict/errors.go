package predict

import (
	"errors"
	"fmt"
)

// FallbackMessage is shown when the service rejects a request without
// saying why.
const FallbackMessage = "Prediction failed"

type Kind int

const (
	// KindPermission means the microphone was denied or unavailable.
	KindPermission Kind = iota + 1
	// KindNetwork means the request was not sent or the response not received.
	KindNetwork
	// KindServer means a non-2xx status or an ok=false payload.
	KindServer
	// KindParse means the response body was not the expected JSON.
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindPermission:
		return "permission"
	case KindNetwork:
		return "network"
	case KindServer:
		return "server"
	case KindParse:
		return "parse"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error ends one submission attempt. None of them are fatal to the session.
type Error struct {
	Kind    Kind
	Message string
	// StatusCode is set for KindServer.
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status is the line shown to the user.
func (e *Error) Status() string {
	if e.Kind == KindPermission {
		return "Mic error: " + e.Message
	}
	return "Error: " + e.Message
}

func PermissionError(err error) *Error {
	return &Error{Kind: KindPermission, Message: err.Error(), Err: err}
}

func networkError(err error) *Error {
	return &Error{Kind: KindNetwork, Message: err.Error(), Err: err}
}

func parseError(err error) *Error {
	return &Error{Kind: KindParse, Message: err.Error(), Err: err}
}

func serverError(statusCode int, message string) *Error {
	if message == "" {
		message = FallbackMessage
	}
	return &Error{Kind: KindServer, Message: message, StatusCode: statusCode}
}

// KindOf returns the kind of err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return 0
}

// StatusOf renders any error as a status line.
func StatusOf(err error) string {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Status()
	}
	return "Error: " + err.Error()
}
