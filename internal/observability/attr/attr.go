package attr

import (
	"context"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/google/uuid"
)

type correlationIDKey struct{}

// WithCorrelationID stores a correlation ID on the context so downstream
// service calls can log it.
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, correlationID)
}

// ExtractCorrelationID returns a slog attr with the correlation ID held by
// the context, or "unknown" when none was set.
func ExtractCorrelationID(ctx context.Context) slog.Attr {
	if v, ok := ctx.Value(correlationIDKey{}).(string); ok && v != "" {
		return slog.String("correlation_id", v)
	}
	return slog.String("correlation_id", "unknown")
}

// CorrelationIDFromMsg returns a slog attr with the watermill correlation ID
// of a message.
func CorrelationIDFromMsg(msg *message.Message) slog.Attr {
	return slog.String("correlation_id", middleware.MessageCorrelationID(msg))
}

func String(key, value string) slog.Attr { return slog.String(key, value) }

func Int(key string, value int) slog.Attr { return slog.Int(key, value) }

func Int64(key string, value int64) slog.Attr { return slog.Int64(key, value) }

func Duration(key string, value time.Duration) slog.Attr { return slog.Duration(key, value) }

func Time(key string, value time.Time) slog.Attr { return slog.Time(key, value) }

func Float64(key string, value float64) slog.Attr { return slog.Float64(key, value) }

func Bool(key string, value bool) slog.Attr { return slog.Bool(key, value) }

func Any(key string, value any) slog.Attr { return slog.Any(key, value) }

func Error(err error) slog.Attr { return slog.Any("error", err) }

// UUID logs a uuid-typed identifier (track, room, team, criterion).
func UUID(key string, id uuid.UUID) slog.Attr { return slog.String(key, id.String()) }
