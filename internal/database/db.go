package database

import (
	"context"
	"database/sql"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // postgres:// migration driver
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pkg/errors"
	"github.com/volatiletech/sqlboiler/v4/boil"

	"github.com/linkit/relay/internal/logger"
	"github.com/linkit/relay/migrations"
)

type Database interface {
	Connect() error
	Migrate() error
	DB() *sql.DB
	StartTransaction(context.Context) (*sql.Tx, context.Context, error)
	Close() error
}

type contextKey int

const (
	ContextTransaction contextKey = iota
)

type postgres struct {
	url *url.URL
	log logger.Logger
	db  *sql.DB
}

func NewPostgres(url *url.URL, log logger.Logger) *postgres {
	return &postgres{
		url: url,
		log: log,
	}
}

func (p *postgres) Connect() error {
	connConfig, err := pgx.ParseConfig(p.url.String())
	if err != nil {
		return errors.Wrap(err, "unable to parse database URL")
	}
	connConfig.Tracer = p.log
	connStr := stdlib.RegisterConnConfig(connConfig)
	database, err := sql.Open("pgx", connStr)
	if err != nil {
		return errors.Wrap(err, "unable to open a connection to the database")
	}
	err = database.Ping()
	if err != nil {
		return errors.Wrap(err, "unable to ping database")
	}

	p.db = database
	return nil
}

func (p *postgres) Migrate() error {
	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return errors.Wrap(err, "could not read database migration files")
	}
	migration, err := migrate.NewWithSourceInstance("iofs", source, p.url.String())
	if err != nil {
		return errors.Wrap(err, "failed to init migration")
	}
	defer migration.Close()

	p.log.Info("Running database migrations ...")
	err = migration.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "could not run migrations")
	}
	return nil
}

func (p *postgres) DB() *sql.DB {
	return p.db
}

func (p *postgres) StartTransaction(ctx context.Context) (*sql.Tx, context.Context, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, errors.Wrap(err, "unable to start transaction")
	}
	return tx, context.WithValue(ctx, ContextTransaction, tx), nil
}

func (p *postgres) Close() error {
	if p.db == nil {
		return nil
	}
	return errors.Wrap(p.db.Close(), "unable to close database")
}

// GetExecutor returns the transaction carried by ctx, or db.
func GetExecutor(ctx context.Context, db *sql.DB) boil.ContextExecutor {
	tx, ok := ctx.Value(ContextTransaction).(*sql.Tx)
	if ok {
		return tx
	}
	return db
}
