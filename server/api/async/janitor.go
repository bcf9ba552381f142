package async

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/hedisam/entrymeta/lib/chans"
	"github.com/hedisam/entrymeta/server/internal/store"
)

type FileStorage interface {
	DeleteObject(ctx context.Context, objectID string) error
}

// Janitor removes the blobs of objects the catalog no longer references.
type Janitor struct {
	logger         *logrus.Logger
	storage        FileStorage
	maxElapsedTime time.Duration
	drainTimeout   time.Duration
}

func NewJanitor(logger *logrus.Logger, storage FileStorage) *Janitor {
	return &Janitor{
		logger:         logger,
		storage:        storage,
		maxElapsedTime: time.Second * 3,
		drainTimeout:   time.Second * 5,
	}
}

// Run consumes in until it is closed or ctx is done. Records still queued when ctx is done are
// cleaned up within the drain timeout.
func (j *Janitor) Run(ctx context.Context, in <-chan *store.ObjectRecord) {
	j.logger.WithContext(ctx).Info("Running Janitor")

	var pending []*store.ObjectRecord
	for rec := range chans.ReceiveOrDoneSeq(ctx, in) {
		if ctx.Err() != nil {
			pending = append(pending, rec)
			break
		}
		j.cleanup(ctx, rec)
	}

	if ctx.Err() != nil {
		j.drain(ctx, append(pending, slices.Collect(chans.Drain(in))...))
	}

	j.logger.WithContext(ctx).Info("Janitor stopped")
}

func (j *Janitor) drain(ctx context.Context, records []*store.ObjectRecord) {
	if len(records) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), j.drainTimeout)
	defer cancel()

	for i, rec := range records {
		if ctx.Err() != nil {
			j.logger.WithContext(ctx).WithField("left", len(records)-i).Warn("Drain timed out, objects left behind")
			return
		}
		j.cleanup(ctx, rec)
	}
	j.logger.WithContext(ctx).WithField("count", len(records)).Info("Drained queued objects")
}

func (j *Janitor) cleanup(ctx context.Context, rec *store.ObjectRecord) {
	ctx, span := otel.Tracer("").Start(ctx, "janitor")
	defer span.End()
	span.SetAttributes(
		attribute.String("key", rec.Key),
		attribute.String("object_id", rec.ObjectID),
	)

	logger := j.logger.WithContext(ctx).WithFields(logrus.Fields{
		"object_id": rec.ObjectID,
		"key":       rec.Key,
	})
	logger.Debug("Cleaning up object")

	bk := backoff.NewExponentialBackOff(
		backoff.WithMaxElapsedTime(j.maxElapsedTime),
		backoff.WithMaxInterval(time.Second),
		backoff.WithInitialInterval(time.Millisecond*100),
		backoff.WithMultiplier(2),
		backoff.WithRandomizationFactor(0.2),
	)
	err := backoff.Retry(func() error {
		err := j.storage.DeleteObject(ctx, rec.ObjectID)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				logger.WithError(err).Error("Failed to cleanup object due to context cancellation")
				return backoff.Permanent(err)
			}
			logger.WithError(err).Error("Failed to delete object, retrying")
			return err
		}

		return nil
	}, backoff.WithContext(bk, ctx))
	if err != nil {
		span.RecordError(err)
		logger.WithError(err).Error("Failed to clean up object in janitor")
		return
	}
}
