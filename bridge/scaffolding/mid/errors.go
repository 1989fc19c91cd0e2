package mid

import (
	"context"
	"errors"
	"net/http"
	"path"

	"github.com/kingjawir/marketplace/bridge/scaffolding/errs"
	"github.com/kingjawir/marketplace/infrastructure/web"
	"github.com/kingjawir/marketplace/sdk/logger"
)

// Errors handles errors coming out of the call chain.
func Errors(log *logger.Logger) web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(ctx context.Context, r *http.Request) web.Encoder {
			resp := next(ctx, r)
			err := isError(resp)
			if err == nil {
				return resp
			}

			var appErr *errs.Error
			if !errors.As(err, &appErr) {
				appErr = errs.Newf(errs.Internal, "Internal server error")
			}

			level := log.InfoContext
			if appErr.Code.HTTPStatus() >= http.StatusInternalServerError {
				level = log.ErrorContext
			}
			attrs := []any{
				"err", err,
				"code", appErr.Code.String(),
				"source_err_file", path.Base(appErr.FileName),
				"source_err_func", path.Base(appErr.FuncName),
			}
			if cause := appErr.Unwrap(); cause != nil && cause.Error() != appErr.Message {
				attrs = append(attrs, "cause", cause)
			}
			level(ctx, "handled error during request", attrs...)

			if appErr.Code == errs.InternalOnlyLog {
				appErr = errs.Newf(errs.Internal, "Internal server error")
			}

			return appErr
		}
	}
}
