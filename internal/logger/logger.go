package logger

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/linkit/relay/internal/config"
	"github.com/linkit/relay/internal/observability"
)

type contextKey int

const queryCtxKey contextKey = iota

type Logger interface {
	logrus.FieldLogger
	pgx.QueryTracer
}

type logger struct {
	logrus.FieldLogger
}

type runningQuery struct {
	start time.Time
	sql   string
	args  []any
	span  *sentry.Span
}

func newFormatter(format string) logrus.Formatter {
	if format == config.LogFormatJSON {
		return &logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano}
	}
	return &logrus.TextFormatter{DisableQuote: true, FullTimestamp: true}
}

// CreateLogger builds the process logger. Every entry is tagged with the service name.
func CreateLogger(conf *config.Config) *logger {
	log := logrus.New()
	log.SetFormatter(newFormatter(conf.LogFormat))
	log.SetLevel(conf.LogLevel)
	return &logger{
		FieldLogger: log.WithField("service", "relay"),
	}
}

func (l *logger) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	span := observability.StartSpan(ctx, "db.sql.query", map[string]any{
		"db.system":    "postgresql",
		"db.statement": data.SQL,
	})
	return context.WithValue(ctx, queryCtxKey, &runningQuery{
		start: time.Now(),
		sql:   data.SQL,
		args:  data.Args,
		span:  span,
	})
}

func (l *logger) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	query, ok := ctx.Value(queryCtxKey).(*runningQuery)
	if !ok {
		return
	}
	observability.FinishSpan(query.span)
	entry := l.WithFields(logrus.Fields{
		"sql":      query.sql,
		"args":     query.args,
		"duration": time.Since(query.start).String(),
		"rows":     data.CommandTag.RowsAffected(),
	})
	if data.Err != nil {
		entry.WithError(data.Err).Warn("sql query failed")
		return
	}
	entry.Trace("sql query")
}
