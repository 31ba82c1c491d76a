package tracing

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const instrumentation = "github.com/viant/tasksched"

// Kind represents a span kind
type Kind int

const (
	KindInternal Kind = iota
	KindServer
	KindClient
)

func (k Kind) spanKind() trace.SpanKind {
	switch k {
	case KindServer:
		return trace.SpanKindServer
	case KindClient:
		return trace.SpanKindClient
	}
	return trace.SpanKindInternal
}

var state struct {
	sync.Mutex
	provider *sdktrace.TracerProvider
	closer   io.Closer
}

// Init installs a provider exporting to outputFile, or to stdout when blank.
// Later calls are ignored once a provider is installed.
func Init(serviceName, serviceVersion, outputFile string) error {
	state.Lock()
	defer state.Unlock()
	if state.provider != nil {
		return nil
	}
	var writer io.Writer = os.Stdout
	var closer io.Closer
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create trace output %v: %w", outputFile, err)
		}
		writer, closer = f, f
	}
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(writer))
	if err != nil {
		return err
	}
	if err = install(serviceName, serviceVersion, exporter); err != nil {
		return err
	}
	state.closer = closer
	return nil
}

// InitWithExporter installs a provider using exporter
func InitWithExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) error {
	if exporter == nil {
		return nil
	}
	state.Lock()
	defer state.Unlock()
	if state.provider != nil {
		return nil
	}
	return install(serviceName, serviceVersion, exporter)
}

func install(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) error {
	res, err := resource.New(context.Background(), resource.WithAttributes(
		attribute.String("service.name", serviceName),
		attribute.String("service.version", serviceVersion),
	))
	if err != nil {
		return err
	}
	state.provider = sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(state.provider)
	return nil
}

// Shutdown flushes the installed provider and releases its output
func Shutdown(ctx context.Context) error {
	state.Lock()
	defer state.Unlock()
	if state.provider == nil {
		return nil
	}
	err := state.provider.Shutdown(ctx)
	if state.closer != nil {
		_ = state.closer.Close()
		state.closer = nil
	}
	return err
}

// Span wraps an OpenTelemetry span; a nil *Span is a valid no-op.
type Span struct {
	span trace.Span
}

// Set attaches an attribute, non scalar values are formatted with %v
func (s *Span) Set(key string, value interface{}) *Span {
	if s == nil {
		return s
	}
	var kv attribute.KeyValue
	switch actual := value.(type) {
	case string:
		kv = attribute.String(key, actual)
	case int:
		kv = attribute.Int(key, actual)
	case int64:
		kv = attribute.Int64(key, actual)
	case bool:
		kv = attribute.Bool(key, actual)
	case float64:
		kv = attribute.Float64(key, actual)
	case fmt.Stringer:
		kv = attribute.String(key, actual.String())
	default:
		kv = attribute.String(key, fmt.Sprintf("%v", value))
	}
	s.span.SetAttributes(kv)
	return s
}

// Fail records err on the span, nil marks it OK
func (s *Span) Fail(err error) {
	if s == nil {
		return
	}
	if err == nil {
		s.span.SetStatus(codes.Ok, "")
		return
	}
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// Status maps a response status code onto the span
func (s *Span) Status(code int) *Span {
	if s == nil {
		return s
	}
	s.span.SetAttributes(attribute.Int("status.code", code))
	switch {
	case code >= 500:
		s.span.SetStatus(codes.Error, "server error")
	case code >= 400:
		s.span.SetStatus(codes.Error, "client error")
	case code > 0:
		s.span.SetStatus(codes.Ok, "")
	}
	return s
}

// End finishes the span
func (s *Span) End() {
	if s == nil {
		return
	}
	s.span.End()
}

// StartSpan starts a child span of the span carried by ctx
func StartSpan(ctx context.Context, name string, kind Kind) (context.Context, *Span) {
	ctx, span := otel.Tracer(instrumentation).Start(ctx, name, trace.WithSpanKind(kind.spanKind()))
	return ctx, &Span{span: span}
}

// EndSpan records err and finishes the span
func EndSpan(span *Span, err error) {
	if span == nil {
		return
	}
	span.Fail(err)
	span.End()
}

// SpanFromContext returns the recording span carried by ctx
func SpanFromContext(ctx context.Context) (*Span, bool) {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return nil, false
	}
	return &Span{span: span}, true
}
