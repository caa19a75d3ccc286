package otel

import (
	"context"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"reactiquiz/backend/internal/audit"
)

// NewAuditEmitter returns an audit.AuditLogger that mirrors audit events to
// OTel log records via provider. A nil provider yields a no-op logger.
func NewAuditEmitter(provider *sdklog.LoggerProvider) audit.AuditLogger {
	if provider == nil {
		return noopEmitter{}
	}
	return &logEmitter{logger: provider.Logger("reactiquiz.audit")}
}

type noopEmitter struct{}

func (noopEmitter) LogEvent(context.Context, string, string, string, string) {}

type logEmitter struct {
	logger otellog.Logger
}

func (e *logEmitter) LogEvent(ctx context.Context, userID, action, resource, metadata string) {
	rec := otellog.Record{}
	rec.SetTimestamp(time.Now().UTC())
	if metadata != "" {
		rec.SetBody(otellog.StringValue(metadata))
	}
	if userID != "" {
		rec.AddAttributes(otellog.String("user_id", userID))
	}
	if action != "" {
		rec.AddAttributes(otellog.String("action", action))
	}
	if resource != "" {
		rec.AddAttributes(otellog.String("resource", resource))
	}
	e.logger.Emit(ctx, rec)
}

// Tee fans one audit event out to several loggers, typically the database
// logger plus the OTel emitter.
type Tee []audit.AuditLogger

func (t Tee) LogEvent(ctx context.Context, userID, action, resource, metadata string) {
	for _, l := range t {
		if l != nil {
			l.LogEvent(ctx, userID, action, resource, metadata)
		}
	}
}
