package xcontext

import "context"

type outcomeKey struct{}

// The outcome is a mutable holder shared between the handler and the after
// middlewares. The router installs it before handling the request.
type outcome struct {
	response any
	err      error
	deferred []func()
}

func WithOutcome(ctx context.Context) context.Context {
	return context.WithValue(ctx, outcomeKey{}, &outcome{})
}

func SetError(ctx context.Context, err error) {
	if o, ok := ctx.Value(outcomeKey{}).(*outcome); ok {
		o.err = err
	}
}

func GetError(ctx context.Context) error {
	if o, ok := ctx.Value(outcomeKey{}).(*outcome); ok {
		return o.err
	}

	return nil
}

func SetResponse(ctx context.Context, resp any) {
	if o, ok := ctx.Value(outcomeKey{}).(*outcome); ok {
		o.response = resp
	}
}

func GetResponse(ctx context.Context) any {
	if o, ok := ctx.Value(outcomeKey{}).(*outcome); ok {
		return o.response
	}

	return nil
}

// Defer schedules fn to run after the response has been written. Handlers
// use it for work that must not start before the caller has received its
// answer. Without an outcome holder fn runs immediately.
func Defer(ctx context.Context, fn func()) {
	if o, ok := ctx.Value(outcomeKey{}).(*outcome); ok {
		o.deferred = append(o.deferred, fn)
		return
	}

	fn()
}

func RunDeferred(ctx context.Context) {
	if o, ok := ctx.Value(outcomeKey{}).(*outcome); ok {
		for _, fn := range o.deferred {
			fn()
		}
		o.deferred = nil
	}
}
