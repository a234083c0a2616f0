package preview

import "context"

// ProgressFunc receives the stage messages Service.Preview emits for each
// URL: "Fetching <host>..." before the request and "Extracting metadata
// from <host>..." once the page is in. PreviewMany calls it from several
// goroutines, so implementations must be safe for concurrent use.
type ProgressFunc func(msg string)

type progressKey struct{}

// WithProgress returns a context carrying the given progress callback.
func WithProgress(ctx context.Context, fn ProgressFunc) context.Context {
	return context.WithValue(ctx, progressKey{}, fn)
}

// ReportProgress calls the progress callback in ctx, if any.
func ReportProgress(ctx context.Context, msg string) {
	if fn, ok := ctx.Value(progressKey{}).(ProgressFunc); ok && fn != nil {
		fn(msg)
	}
}
