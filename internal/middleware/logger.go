package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/sakakuai/askbot/pkg/errorx"
	"github.com/sakakuai/askbot/pkg/router"
	"github.com/sakakuai/askbot/pkg/xcontext"
)

// Logger logs the outcome of every request after the response is written.
func Logger() router.CloserFunc {
	return func(ctx context.Context) {
		req := xcontext.HTTPRequest(ctx)
		info := fmt.Sprintf("%s | %s", req.Method, req.URL.Path)

		if err := xcontext.GetError(ctx); err != nil {
			var errx errorx.Error
			if errors.As(err, &errx) {
				xcontext.Logger(ctx).Warnf("%s | %d", info, errx.Code)
			} else {
				xcontext.Logger(ctx).Errorf("%s | %d", info, -1)
			}
		} else {
			xcontext.Logger(ctx).Infof(info)
		}
	}
}
