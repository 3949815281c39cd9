package incident

import (
	"context"
	"time"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/linkit/relay/internal/cache"
	"github.com/linkit/relay/internal/logger"
	"github.com/linkit/relay/internal/metrics"
	"github.com/linkit/relay/internal/observability"
)

//go:generate mockery --name Reporter
type Reporter interface {
	Report(ctx context.Context, err error, opts ...ReportOption) Incident
	Get(ctx context.Context, id string) (*Incident, error)
}

type reporter struct {
	log   logger.Logger
	meter metrics.Meter
	repo  Repository
	cache cache.Cache[Incident]
	now   func() time.Time
	newID func() (uuid.UUID, error)
}

func NewReporter(
	log logger.Logger,
	meter metrics.Meter,
	repo Repository,
	cache cache.Cache[Incident],
) *reporter {
	return &reporter{
		log:   log,
		meter: meter,
		repo:  repo,
		cache: cache,
		now:   time.Now,
		newID: uuid.NewV4,
	}
}

// Report records err and returns the incident. Failing to store the incident
// is logged and never hides err. An incident whose id could not be generated
// is logged and captured but not stored, and comes back without an ID.
func (r *reporter) Report(ctx context.Context, err error, opts ...ReportOption) Incident {
	inc := FromError(err, SourceRelay)
	for _, opt := range opts {
		opt(&inc)
	}
	inc.CreatedAt = r.now().UTC()
	id, uuidErr := r.newID()
	if uuidErr != nil {
		r.log.WithError(uuidErr).Error("unable to generate an incident id")
	} else {
		inc.ID = id.String()
	}

	fields := logrus.Fields{
		"incident": inc.ID,
		"kind":     inc.Kind,
		"source":   inc.Source,
	}
	if inc.TaskType != "" {
		fields["task_type"] = inc.TaskType
		fields["task_id"] = inc.TaskID
	}
	r.log.WithFields(fields).WithError(err).Error("relay incident")

	observability.CaptureError(ctx, err,
		map[string]string{
			"relay.kind":   inc.Kind,
			"relay.source": string(inc.Source),
			"task_type":    inc.TaskType,
		},
		map[string]any{"incident_id": inc.ID},
	)
	r.meter.IncidentReported(inc.Kind, string(inc.Source))

	if inc.ID == "" {
		return inc
	}
	if saveErr := r.repo.Save(ctx, &inc); saveErr != nil {
		r.log.WithError(saveErr).WithField("incident", inc.ID).Warn("unable to persist incident")
	}
	if cacheErr := r.cache.Set(ctx, inc.ID, inc); cacheErr != nil {
		r.log.WithError(cacheErr).WithField("incident", inc.ID).Warn("unable to cache incident")
	}

	return inc
}

func (r *reporter) Get(ctx context.Context, id string) (*Incident, error) {
	if _, err := uuid.FromString(id); err != nil {
		return nil, ErrNotFound
	}
	cached, err := r.cache.Get(ctx, id)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		r.log.WithError(err).WithField("incident", id).Warn("unable to read incident from cache")
	}

	inc, err := r.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, id, *inc); err != nil {
		r.log.WithError(err).WithField("incident", id).Warn("unable to cache incident")
	}
	return inc, nil
}
