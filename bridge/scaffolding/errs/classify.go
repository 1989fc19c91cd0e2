package errs

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/kingjawir/marketplace/core/repositories"
	"github.com/kingjawir/marketplace/sdk/validation"
)

// FromDecode turns a web.Decode failure into a client error. Field
// validation failures keep their per field messages as details.
func FromDecode(err error) *Error {
	var fe validation.FieldErrors
	if errors.As(err, &fe) {
		return at(ValidationError, "Validasi gagal", map[string]string(fe), err)
	}
	return at(BadRequest, "Format request tidak valid", nil, err)
}

// FromRepo classifies a repository error by kind. A non-empty msg replaces
// the client message; unknown errors are logged and hidden.
func FromRepo(err error, msg string) *Error {
	if msg == "" {
		msg = err.Error()
	}

	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return at(NotFound, msg, nil, err)
	case errors.Is(err, repositories.ErrAlreadyExists):
		return at(AlreadyExists, msg, nil, err)
	case errors.Is(err, repositories.ErrNotOwner):
		return at(NotOwner, msg, nil, err)
	case errors.Is(err, repositories.ErrForbidden):
		return at(Forbidden, msg, nil, err)
	case errors.Is(err, repositories.ErrInvalid):
		return at(BadRequest, msg, nil, err)
	}
	return at(InternalOnlyLog, err.Error(), nil, err)
}

// at records the caller two frames up, the handler that asked for the error.
func at(code ErrCode, msg string, details any, err error) *Error {
	pc, filename, line, _ := runtime.Caller(2)
	return &Error{
		Code:     code,
		Message:  msg,
		Details:  details,
		FuncName: runtime.FuncForPC(pc).Name(),
		FileName: fmt.Sprintf("%s:%d", filename, line),
		err:      err,
	}
}
