// Package observability wraps X-Ray tracing behind a switch so binaries
// run unchanged outside Lambda.
package observability

import (
	"context"
	"fmt"

	"github.com/aws/aws-xray-sdk-go/xray"
)

// Tracer opens trace segments around pipeline phases. A disabled tracer is
// valid and does nothing.
type Tracer struct {
	serviceName string
	enabled     bool
}

// NewTracer creates a tracer for the given service
func NewTracer(serviceName string, enabled bool) *Tracer {
	return &Tracer{serviceName: serviceName, enabled: enabled}
}

// StartSegment begins a root segment named service.name
func (t *Tracer) StartSegment(ctx context.Context, name string) (context.Context, *xray.Segment) {
	if !t.enabled {
		return ctx, nil
	}
	return xray.BeginSegment(ctx, fmt.Sprintf("%s.%s", t.serviceName, name))
}

// TraceFunction runs fn inside a subsegment and records its error
func (t *Tracer) TraceFunction(ctx context.Context, name string, fn func(context.Context) error) error {
	if !t.enabled {
		return fn(ctx)
	}

	ctx, seg := xray.BeginSubsegment(ctx, name)
	err := fn(ctx)
	if err != nil && seg != nil {
		seg.AddError(err)
	}
	if seg != nil {
		seg.Close(nil)
	}
	return err
}

// AddAnnotation attaches an indexed annotation to the current segment
func (t *Tracer) AddAnnotation(ctx context.Context, key, value string) {
	if !t.enabled {
		return
	}
	if seg := xray.GetSegment(ctx); seg != nil {
		seg.AddAnnotation(key, value)
	}
}
