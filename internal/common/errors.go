package common

import "errors"

// AppError is the error shape the HTTP layer renders: a stable machine
// code, a client-safe message, and the status to answer with. The wrapped
// cause never reaches the client.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
	Details    any
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap keeps errors.Is/As working against the wrapped cause.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewAppError builds an AppError around cause. A nil cause is fine; the
// message then doubles as the error string.
func NewAppError(code, message string, status int, cause error) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Err: cause}
}

// AsAppError extracts an AppError from anywhere in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var app *AppError
	if errors.As(err, &app) {
		return app, true
	}
	return nil, false
}
