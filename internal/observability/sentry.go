package observability

import (
	"context"

	"github.com/getsentry/sentry-go"
)

func StartTransaction(ctx context.Context, name string, options ...sentry.SpanOption) *sentry.Span {
	tx := sentry.StartTransaction(ctx, name, options...)
	tx.Op = name
	return tx
}

func GetTraceIDFromContext(ctx context.Context) string {
	tx := sentry.TransactionFromContext(ctx)
	if tx == nil {
		return ""
	}
	return tx.ToSentryTrace()
}

func StartSpan(ctx context.Context, name string, data map[string]any) *sentry.Span {
	transaction := sentry.TransactionFromContext(ctx)
	if transaction == nil {
		return nil
	}
	return transaction.StartChild(name, func(s *sentry.Span) {
		s.Data = data
	})
}

func FinishSpan(span *sentry.Span) {
	if span != nil {
		span.Finish()
	}
}

// CaptureError sends err through the hub bound to ctx, or the global one.
func CaptureError(ctx context.Context, err error, tags map[string]string, extra map[string]any) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		scope.SetExtras(extra)
		hub.CaptureException(err)
	})
}
