package processor

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/horockey/rxprefs/internal/model"
	"github.com/horockey/rxprefs/internal/repository/namespace_entries"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
)

// Processor serves a single namespace: it serializes writes against the
// repository and publishes committed snapshots to subscribers.
type Processor struct {
	namespace string
	repo      namespace_entries.Repository
	hub       *snapshotHub
	writeSem  *semaphore.Weighted
	closed    atomic.Bool
	Logger    zerolog.Logger
	metrics   *metrics
}

func New(
	repo namespace_entries.Repository,
	logger zerolog.Logger,
) *Processor {
	pr := &Processor{
		namespace: repo.Namespace(),
		repo:      repo,
		writeSem:  semaphore.NewWeighted(1),
		Logger:    logger,
	}

	entries, err := repo.GetAll()
	if err != nil {
		// Reads degrade to defaults; writes still go to the repo key by key.
		pr.Logger.
			Warn().
			Err(fmt.Errorf("loading entries: %w", err)).
			Msg("starting namespace with empty view")
		entries = map[string]model.Entry{}
	}

	pr.hub = newSnapshotHub(model.NewSnapshot(1, entries))
	pr.metrics = newMetrics(pr)

	pr.Logger.Debug().Int("entries", len(entries)).Msg("namespace loaded")

	return pr
}

func (pr *Processor) Metrics() []prometheus.Collector {
	return pr.metrics.list()
}

func (pr *Processor) Namespace() string {
	return pr.namespace
}

func (pr *Processor) Closed() bool {
	return pr.closed.Load()
}

// Snapshot returns the last committed view of the namespace.
func (pr *Processor) Snapshot() *model.Snapshot {
	return pr.hub.load()
}

func (pr *Processor) Get(key string) (model.Entry, bool) {
	return pr.hub.load().Get(key)
}

// Subscribe replays the current snapshot and then every committed one.
// The channel is closed when ctx is done or the processor is closed.
func (pr *Processor) Subscribe(ctx context.Context) <-chan *model.Snapshot {
	return pr.hub.subscribe(ctx)
}

func (pr *Processor) Put(ctx context.Context, e model.Entry) error {
	if err := e.Kind.Validate(e.Raw); err != nil {
		return fmt.Errorf("validating entry %s: %w", e.Key, err)
	}
	if e.Modified.IsZero() {
		e.Modified = time.Now()
	}

	pr.Logger.Debug().Str("action", "put").Str("key", e.Key).Send()

	return pr.write(ctx, e.Key, func(s *model.Snapshot) (*model.Snapshot, error) {
		if err := pr.repo.Put(e); err != nil {
			return nil, err
		}
		return s.With(e), nil
	})
}

func (pr *Processor) Remove(ctx context.Context, key string) error {
	pr.Logger.Debug().Str("action", "remove").Str("key", key).Send()

	return pr.write(ctx, key, func(s *model.Snapshot) (*model.Snapshot, error) {
		if err := pr.repo.Remove(key); err != nil {
			return nil, err
		}
		return s.Without(key), nil
	})
}

// ReportTypeMismatch records a stored value that was replaced by its default on read.
func (pr *Processor) ReportTypeMismatch(err model.TypeMismatchError) {
	pr.metrics.typeMismatchCnt.Inc()
	pr.Logger.
		Debug().
		Err(err).
		Msg("falling back to default")
}

func (pr *Processor) Close() (resErr error) {
	if err := pr.writeSem.Acquire(context.Background(), 1); err != nil {
		return fmt.Errorf("acquiring write slot: %w", err)
	}
	defer pr.writeSem.Release(1)

	if pr.closed.Swap(true) {
		return nil
	}

	pr.hub.close()

	if err := pr.repo.Close(); err != nil {
		resErr = errors.Join(resErr, fmt.Errorf("closing repo: %w", err))
	}

	return resErr
}

func (pr *Processor) write(
	ctx context.Context,
	key string,
	apply func(*model.Snapshot) (*model.Snapshot, error),
) (resErr error) {
	defer func(ts time.Time) {
		pr.metrics.writeTimeHist.Observe(float64(time.Since(ts)))

		switch resErr {
		case nil:
			pr.metrics.writesCnt.Inc()
		default:
			pr.metrics.writeErrsCnt.Inc()
		}
	}(time.Now())

	if err := pr.writeSem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("acquiring write slot: %w", err)
	}
	defer pr.writeSem.Release(1)

	if pr.closed.Load() {
		return model.NamespaceClosedError{Namespace: pr.namespace}
	}

	next, err := apply(pr.hub.load())
	if err != nil {
		pr.Logger.
			Error().
			Err(err).
			Str("key", key).
			Msg("write not committed")
		return model.PersistenceWriteFailedError{
			Namespace: pr.namespace,
			Key:       key,
			Err:       err,
		}
	}

	pr.hub.publish(next)
	return nil
}
