package mocks

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

type nullLogger struct {
	logrus.FieldLogger
	Hook *test.Hook
}

// NewNullLogger discards every entry. Entries stay inspectable through Hook.
func NewNullLogger() *nullLogger {
	logrusNullLogger, hook := test.NewNullLogger()
	logrusNullLogger.SetLevel(logrus.TraceLevel)
	return &nullLogger{FieldLogger: logrusNullLogger, Hook: hook}
}

func (l *nullLogger) TraceQueryStart(ctx context.Context, _ *pgx.Conn, _ pgx.TraceQueryStartData) context.Context {
	return ctx
}

func (l *nullLogger) TraceQueryEnd(context.Context, *pgx.Conn, pgx.TraceQueryEndData) {}
