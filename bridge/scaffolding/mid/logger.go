package mid

import (
	"context"
	"fmt"
	"net/http"

	"github.com/kingjawir/marketplace/infrastructure/web"
	"github.com/kingjawir/marketplace/sdk/logger"
	"github.com/kingjawir/marketplace/sdk/telemetry"
)

type httpStatus interface {
	HTTPStatus() int
}

// Logger writes information about the request to the logs.
func Logger(log *logger.Logger) web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(ctx context.Context, r *http.Request) web.Encoder {
			p := r.URL.Path
			if r.URL.RawQuery != "" {
				p = fmt.Sprintf("%s?%s", p, r.URL.RawQuery)
			}

			log.InfoContext(ctx, "request started", "method", r.Method, "path", p, "remoteaddr", r.RemoteAddr)

			resp := next(ctx, r)

			status := http.StatusOK
			switch v := resp.(type) {
			case httpStatus:
				status = v.HTTPStatus()
			case nil:
				status = http.StatusNoContent
			}

			log.InfoContext(ctx, "request completed", "method", r.Method, "path", p, "remoteaddr", r.RemoteAddr,
				"statuscode", status, "since", telemetry.Since(ctx).String())

			return resp
		}
	}
}
