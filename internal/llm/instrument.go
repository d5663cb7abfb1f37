package llm

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/jonathan/resume-tailor/internal/observability"
)

const tracerName = "github.com/jonathan/resume-tailor/internal/llm"

// instrumentedClient decorates a Client with logs, metrics and a span per call
type instrumentedClient struct {
	next   Client
	logger *zap.Logger
}

// Instrument wraps c so every Complete call is logged, counted, timed and traced
func Instrument(c Client, logger *zap.Logger) Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &instrumentedClient{next: c, logger: logger}
}

func (c *instrumentedClient) Complete(ctx context.Context, req *Request) (string, error) {
	op := req.Operation
	if op == "" {
		op = "unknown"
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "llm."+op)
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.tier", string(req.Tier)),
		attribute.Bool("llm.structured", req.Schema != nil),
	)

	start := time.Now()
	text, err := c.next.Complete(ctx, req)
	elapsed := time.Since(start)

	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	case strings.TrimSpace(text) == "":
		outcome = "empty"
	}

	observability.LLMRequests.WithLabelValues(op, outcome).Inc()
	observability.LLMDuration.WithLabelValues(op).Observe(elapsed.Seconds())

	fields := []zap.Field{
		zap.String("operation", op),
		zap.String("tier", string(req.Tier)),
		zap.Duration("duration", elapsed),
		zap.Int("response_bytes", len(text)),
	}
	if err != nil {
		c.logger.Warn("llm call failed", append(fields, zap.Error(err))...)
	} else {
		c.logger.Debug("llm call completed", fields...)
	}

	return text, err
}

func (c *instrumentedClient) Close() error {
	return c.next.Close()
}
