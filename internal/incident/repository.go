package incident

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/volatiletech/sqlboiler/v4/boil"
	"github.com/volatiletech/sqlboiler/v4/queries"
	"github.com/volatiletech/strmangle"

	"github.com/linkit/relay/internal/database"
	relayerrors "github.com/linkit/relay/internal/errors"
)

var (
	ErrNotFound     = errors.New("incident not found")
	errNotConnected = relayerrors.New("database is not connected")
)

//go:generate mockery --name Repository
type Repository interface {
	Save(context.Context, *Incident) error
	Get(ctx context.Context, id string) (*Incident, error)
}

type postgresRepository struct {
	db database.Database
}

func NewRepository(db database.Database) *postgresRepository {
	return &postgresRepository{db: db}
}

var incidentColumns = []string{"id", "kind", "message", "cause", "source", "task_type", "task_id", "created_at"}

//nolint:gochecknoglobals
var (
	insertIncident = fmt.Sprintf("INSERT INTO incidents (%s) VALUES (%s)",
		strings.Join(incidentColumns, ", "),
		strmangle.Placeholders(true, len(incidentColumns), 1, 1),
	)
	selectIncident = fmt.Sprintf("SELECT %s FROM incidents WHERE id = $1",
		strings.Join(incidentColumns, ", "),
	)
)

func (r *postgresRepository) executor(ctx context.Context) (boil.ContextExecutor, error) {
	db := r.db.DB()
	if db == nil {
		return nil, errNotConnected
	}
	return database.GetExecutor(ctx, db), nil
}

func (r *postgresRepository) Save(ctx context.Context, inc *Incident) error {
	executor, err := r.executor(ctx)
	if err != nil {
		return err
	}
	_, err = queries.Raw(insertIncident,
		inc.ID,
		inc.Kind,
		inc.Message,
		inc.Cause,
		string(inc.Source),
		inc.TaskType,
		inc.TaskID,
		inc.CreatedAt,
	).ExecContext(ctx, executor)
	if err != nil {
		return relayerrors.Wrap(err, "unable to save incident")
	}
	return nil
}

func (r *postgresRepository) Get(ctx context.Context, id string) (*Incident, error) {
	executor, err := r.executor(ctx)
	if err != nil {
		return nil, err
	}
	inc := &Incident{}
	err = queries.Raw(selectIncident, id).Bind(ctx, executor, inc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, relayerrors.Wrap(err, "unable to fetch incident from database")
	}
	return inc, nil
}
