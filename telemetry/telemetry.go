// Package telemetry collects hierarchical operation timings.
//
// Instrumentation is non-intrusive: a collector travels through the
// context, and code under measurement calls StartTimer without knowing
// whether anything is listening. Without a collector in the context every
// call is a no-op.
//
// Example usage:
//
//	collector := telemetry.NewTimingCollector()
//	ctx := telemetry.WithCollector(context.Background(), collector)
//
//	timer := telemetry.StartTimer(ctx, "load journal")
//	// ... work ...
//	timer.End()
//
//	collector.Report(os.Stderr, styles)
package telemetry

import (
	"context"
	"io"

	"github.com/blossomtext/blossom/output"
)

type contextKey struct{}

var collectorKey = contextKey{}

// Collector accumulates telemetry from instrumented operations.
type Collector interface {
	// Start begins timing an operation. End the returned timer when the
	// operation completes.
	Start(name string) Timer

	// Report writes the collected telemetry. Styles may be nil for plain
	// output.
	Report(w io.Writer, styles *output.Styles)
}

// Timer tracks one operation. Timers nest via Child.
type Timer interface {
	End()
	Child(name string) Timer
}

// WithCollector attaches a collector to the context.
func WithCollector(ctx context.Context, collector Collector) context.Context {
	return context.WithValue(ctx, collectorKey, collector)
}

// FromContext returns the context's collector, or a no-op collector when
// none is attached.
func FromContext(ctx context.Context) Collector {
	if collector, ok := ctx.Value(collectorKey).(Collector); ok {
		return collector
	}
	return noopCollector{}
}

// StartTimer begins timing an operation against the context's collector.
func StartTimer(ctx context.Context, name string) Timer {
	return FromContext(ctx).Start(name)
}

type noopCollector struct{}

func (noopCollector) Start(string) Timer               { return noopTimer{} }
func (noopCollector) Report(io.Writer, *output.Styles) {}

type noopTimer struct{}

func (noopTimer) End()               {}
func (noopTimer) Child(string) Timer { return noopTimer{} }
