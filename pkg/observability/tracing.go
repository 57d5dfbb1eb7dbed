// Package observability carries the metrics and tracing plumbing shared by
// the buses and the persistence layer.
package observability

import (
	"context"

	"github.com/aws/aws-xray-sdk-go/xray"
)

var tracingEnabled bool

// EnableTracing turns on X-Ray subsegments around persistence calls. Called
// once at startup; not safe to toggle concurrently with traffic.
func EnableTracing() {
	tracingEnabled = true
}

// Capture runs fn inside an X-Ray subsegment when tracing is enabled,
// otherwise it calls fn directly.
func Capture(ctx context.Context, name string, fn func(context.Context) error) error {
	if !tracingEnabled {
		return fn(ctx)
	}
	return xray.Capture(ctx, name, fn)
}
