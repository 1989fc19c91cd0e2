// Package errs provides the error type returned by HTTP handlers and its
// wire encoding.
package errs

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"

	"github.com/iancoleman/strcase"
)

// ErrCode is a machine readable error code with its HTTP status.
type ErrCode struct {
	name   string
	status int
}

// String returns the wire form of the code, e.g. INVALID_CREDENTIALS.
func (ec ErrCode) String() string {
	return strcase.ToScreamingSnake(ec.name)
}

// HTTPStatus returns the status sent for this code.
func (ec ErrCode) HTTPStatus() int {
	return ec.status
}

// Error codes returned to clients.
var (
	BadRequest           = ErrCode{name: "BadRequest", status: http.StatusBadRequest}
	ValidationError      = ErrCode{name: "ValidationError", status: http.StatusBadRequest}
	InvalidPassword      = ErrCode{name: "InvalidPassword", status: http.StatusBadRequest}
	SamePassword         = ErrCode{name: "SamePassword", status: http.StatusBadRequest}
	OAuthNoPassword      = ErrCode{name: "OauthNoPassword", status: http.StatusBadRequest}
	InvalidCredentials   = ErrCode{name: "InvalidCredentials", status: http.StatusUnauthorized}
	Unauthorized         = ErrCode{name: "Unauthorized", status: http.StatusUnauthorized}
	TokenInvalid         = ErrCode{name: "TokenInvalid", status: http.StatusUnauthorized}
	TokenExpired         = ErrCode{name: "TokenExpired", status: http.StatusUnauthorized}
	Forbidden            = ErrCode{name: "Forbidden", status: http.StatusForbidden}
	NotOwner             = ErrCode{name: "NotOwner", status: http.StatusForbidden}
	EmailNotVerified     = ErrCode{name: "EmailNotVerified", status: http.StatusForbidden}
	NotFound             = ErrCode{name: "NotFound", status: http.StatusNotFound}
	UserNotFound         = ErrCode{name: "UserNotFound", status: http.StatusNotFound}
	AlreadyExists        = ErrCode{name: "AlreadyExists", status: http.StatusConflict}
	UserAlreadyExists    = ErrCode{name: "UserAlreadyExists", status: http.StatusConflict}
	EmailAlreadyVerified = ErrCode{name: "EmailAlreadyVerified", status: http.StatusConflict}
	Internal             = ErrCode{name: "InternalError", status: http.StatusInternalServerError}

	// InternalOnlyLog is logged with its message but sent to the client as a
	// generic internal error.
	InternalOnlyLog = ErrCode{name: "InternalOnlyLog", status: http.StatusInternalServerError}
)

// Error represents an error in the system.
type Error struct {
	Code     ErrCode
	Message  string
	Details  any
	FuncName string
	FileName string
	err      error
}

// New constructs an error based on an app error.
func New(code ErrCode, err error) *Error {
	pc, filename, line, _ := runtime.Caller(1)

	return &Error{
		Code:     code,
		Message:  err.Error(),
		FuncName: runtime.FuncForPC(pc).Name(),
		FileName: fmt.Sprintf("%s:%d", filename, line),
		err:      err,
	}
}

// Newf constructs an error based on a error message.
func Newf(code ErrCode, format string, v ...any) *Error {
	pc, filename, line, _ := runtime.Caller(1)

	return &Error{
		Code:     code,
		Message:  fmt.Sprintf(format, v...),
		FuncName: runtime.FuncForPC(pc).Name(),
		FileName: fmt.Sprintf("%s:%d", filename, line),
	}
}

// Wrap constructs an error with a client facing message that keeps err as
// its cause for logging.
func Wrap(code ErrCode, message string, err error) *Error {
	pc, filename, line, _ := runtime.Caller(1)

	return &Error{
		Code:     code,
		Message:  message,
		FuncName: runtime.FuncForPC(pc).Name(),
		FileName: fmt.Sprintf("%s:%d", filename, line),
		err:      err,
	}
}

// NewWithDetails constructs an error that carries structured details, such
// as per field validation messages.
func NewWithDetails(code ErrCode, message string, details any) *Error {
	pc, filename, line, _ := runtime.Caller(1)

	return &Error{
		Code:     code,
		Message:  message,
		Details:  details,
		FuncName: runtime.FuncForPC(pc).Name(),
		FileName: fmt.Sprintf("%s:%d", filename, line),
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the wrapped error, if any.
func (e *Error) Unwrap() error {
	return e.err
}

type wireDetail struct {
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

type wireError struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Error   wireDetail `json:"error"`
}

// Encode implements the encoder interface.
func (e *Error) Encode() ([]byte, string, error) {
	data, err := json.Marshal(wireError{
		Success: false,
		Message: e.Message,
		Error: wireDetail{
			Code:    e.Code.String(),
			Details: e.Details,
		},
	})
	return data, "application/json; charset=utf-8", err
}

// HTTPStatus implements the web package httpStatus interface so the
// web package can respond with the correct status code.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// Equal provides support for the go-cmp package and testing.
func (e *Error) Equal(e2 *Error) bool {
	return e.Code == e2.Code && e.Message == e2.Message
}

// IsError tests the concrete error is of the Error type.
func IsError(err error) bool {
	var er *Error
	return errors.As(err, &er)
}

// GetError returns a copy of the Error pointer.
func GetError(err error) *Error {
	var er *Error
	if !errors.As(err, &er) {
		return nil
	}
	return er
}
