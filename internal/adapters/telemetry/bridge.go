package telemetry

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/conductor/internal/core/ports"
)

// Bridge implements sdktrace.SpanProcessor and reports the duration of every
// finished span to a logger, indented by nesting depth.
type Bridge struct {
	logger ports.Logger

	mu     sync.Mutex
	depths map[trace.SpanID]int
}

// NewBridge returns a new Bridge.
func NewBridge(logger ports.Logger) *Bridge {
	return &Bridge{
		logger: logger,
		depths: make(map[trace.SpanID]int),
	}
}

// OnStart is called when a span starts.
func (b *Bridge) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	sc := s.SpanContext()
	if !sc.IsValid() {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	depth := 0
	if parentSpan := trace.SpanFromContext(parent); parentSpan.SpanContext().IsValid() {
		if d, ok := b.depths[parentSpan.SpanContext().SpanID()]; ok {
			depth = d + 1
		}
	}
	b.depths[sc.SpanID()] = depth
}

// OnEnd is called when a span ends.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	sc := s.SpanContext()
	if !sc.IsValid() {
		return
	}

	b.mu.Lock()
	depth := b.depths[sc.SpanID()]
	delete(b.depths, sc.SpanID())
	b.mu.Unlock()

	if b.logger == nil {
		return
	}

	line := fmt.Sprintf("[profile] %s%s: %s", strings.Repeat("  ", depth), s.Name(), formatDuration(s.EndTime().Sub(s.StartTime())))
	if s.Status().Code == codes.Error {
		line += " (failed)"
	}
	b.logger.Info(line)
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return d.Round(time.Microsecond).String()
	}
	return d.Round(time.Millisecond).String()
}

// Setup routes spans of every OTelTracer to logger through a Bridge when
// profile is set. The returned function flushes the provider.
func Setup(logger ports.Logger, profile bool) func(context.Context) error {
	if !profile {
		return func(context.Context) error { return nil }
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(NewBridge(logger)),
	)
	otel.SetTracerProvider(tp)

	return tp.Shutdown
}
