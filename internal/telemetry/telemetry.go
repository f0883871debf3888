// Package telemetry records audit spans and metrics with OpenTelemetry.
// A zero Telemetry or one built from nil providers records nothing.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/dshills/seoaudit/internal/audit"
)

const instrumentation = "github.com/dshills/seoaudit"

// Telemetry holds the tracer and metric instruments for audits.
type Telemetry struct {
	tracer trace.Tracer

	// score of each audit, 0 to 100
	score metric.Int64Histogram
	// audit duration in milliseconds
	duration metric.Float64Histogram
	// audits run, labelled by outcome
	count metric.Int64Counter
}

// New creates the audit instruments. Either provider may be nil.
func New(tp trace.TracerProvider, mp metric.MeterProvider) (*Telemetry, error) {
	t := &Telemetry{}
	if tp != nil {
		t.tracer = tp.Tracer(instrumentation)
	}
	if mp == nil {
		return t, nil
	}

	meter := mp.Meter(instrumentation)
	var err error

	t.score, err = meter.Int64Histogram(
		"audit.score",
		metric.WithDescription("Overall SEO audit score from 0 to 100"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry.New: audit.score: %w", err)
	}

	t.duration, err = meter.Float64Histogram(
		"audit.duration",
		metric.WithDescription("Audit duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry.New: audit.duration: %w", err)
	}

	t.count, err = meter.Int64Counter(
		"audit.count",
		metric.WithDescription("Number of audits performed"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry.New: audit.count: %w", err)
	}

	return t, nil
}

// Start opens an audit span. The returned finish func must be called with
// the result (nil on failure) and the error, if any.
func (t *Telemetry) Start(ctx context.Context, projectID, scope string) (context.Context, func(*audit.Result, error)) {
	begin := time.Now()
	var span trace.Span
	if t != nil && t.tracer != nil {
		ctx, span = t.tracer.Start(ctx, "audit.run", trace.WithAttributes(
			attribute.String("audit.project_id", projectID),
			attribute.String("audit.scope", scope),
		))
	}

	return ctx, func(r *audit.Result, err error) {
		if span != nil {
			defer span.End()
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			} else if r != nil {
				span.SetAttributes(
					attribute.String("audit.id", r.ID),
					attribute.Int("audit.score", r.Score),
					attribute.Int("audit.issue_count", len(r.Issues)),
				)
				for c, cr := range r.Breakdown {
					span.SetAttributes(attribute.Int("audit.category."+string(c)+".score", cr.Score))
				}
				span.SetStatus(codes.Ok, "")
			}
		}
		t.record(ctx, r, err, time.Since(begin))
	}
}

func (t *Telemetry) record(ctx context.Context, r *audit.Result, err error, elapsed time.Duration) {
	if t == nil || t.count == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	opts := metric.WithAttributes(attribute.String("outcome", outcome))

	t.count.Add(ctx, 1, opts)
	t.duration.Record(ctx, float64(elapsed.Microseconds())/1000, opts)
	if r != nil {
		t.score.Record(ctx, int64(r.Score), opts)
	}
}
