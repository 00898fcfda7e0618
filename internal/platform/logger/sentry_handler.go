package logger

import (
	"context"
	"log/slog"

	"github.com/getsentry/sentry-go"
)

// WrapWithSentry returns a logger that forwards error-level records to
// Sentry in addition to the wrapped handler.
func WrapWithSentry(base *slog.Logger) *slog.Logger {
	if base == nil {
		return base
	}
	return slog.New(&sentryHandler{next: base.Handler()})
}

type sentryHandler struct {
	next slog.Handler
}

func (h *sentryHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *sentryHandler) Handle(ctx context.Context, rec slog.Record) error {
	if rec.Level >= slog.LevelError {
		event := sentry.NewEvent()
		event.Level = sentry.LevelError
		event.Message = rec.Message
		event.Extra = map[string]any{}
		rec.Attrs(func(attr slog.Attr) bool {
			event.Extra[attr.Key] = attr.Value.Any()
			return true
		})
		if hub := sentry.GetHubFromContext(ctx); hub != nil {
			hub.CaptureEvent(event)
		} else {
			sentry.CaptureEvent(event)
		}
	}
	return h.next.Handle(ctx, rec)
}

func (h *sentryHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &sentryHandler{next: h.next.WithAttrs(attrs)}
}

func (h *sentryHandler) WithGroup(name string) slog.Handler {
	return &sentryHandler{next: h.next.WithGroup(name)}
}
