package badger_namespace_entries

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger"
	"github.com/horockey/rxprefs/internal/model"
	"github.com/horockey/rxprefs/internal/repository/namespace_entries"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

var _ namespace_entries.Repository = &badgerNamespaceEntries{}

type badgerNamespaceEntries struct {
	db        *badger.DB
	namespace string
	logger    zerolog.Logger
	metrics   *metrics
}

// Opens badger db in dir and wraps it as namespace repo.
// Failures are reported as model.StorageUnavailableError.
func Open(
	dir string,
	namespace string,
	syncWrites bool,
	logger zerolog.Logger,
) (*badgerNamespaceEntries, error) {
	opts := badger.DefaultOptions(dir).
		WithSyncWrites(syncWrites).
		WithLogger(badgerLogger{l: logger})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, model.StorageUnavailableError{
			Namespace: namespace,
			Err:       fmt.Errorf("opening badger db: %w", err),
		}
	}

	repo := New(db, namespace, logger)

	all, err := repo.GetAll()
	if err != nil {
		_ = db.Close()
		return nil, model.StorageUnavailableError{
			Namespace: namespace,
			Err:       fmt.Errorf("scanning badger db: %w", err),
		}
	}
	repo.metrics.repoSizeItemsGauge.Set(float64(len(all)))

	return repo, nil
}

func New(db *badger.DB, namespace string, logger zerolog.Logger) *badgerNamespaceEntries {
	return &badgerNamespaceEntries{
		db:        db,
		namespace: namespace,
		logger:    logger,
		metrics:   newMetrics(db, namespace),
	}
}

func (repo *badgerNamespaceEntries) Metrics() []prometheus.Collector {
	return repo.metrics.list()
}

func (repo *badgerNamespaceEntries) Namespace() string {
	return repo.namespace
}

func (repo *badgerNamespaceEntries) Get(key string) (resEntry model.Entry, resErr error) {
	defer func(ts time.Time) {
		repo.metrics.requestsCnt.Inc()
		repo.metrics.handleTimeHist.Observe(float64(time.Since(ts)))

		switch {
		case resErr == nil:
			repo.metrics.successProcessCnt.Inc()
			repo.metrics.keyHitsCnt.Inc()
		case errors.As(resErr, &model.KeyNotFoundError{}):
			repo.metrics.keyMissesCnt.Inc()
			fallthrough
		default:
			repo.metrics.errProcessCnt.Inc()
		}
	}(time.Now())

	res := model.Entry{}
	if err := repo.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return model.KeyNotFoundError{Key: key}
			}
			return fmt.Errorf("getting item: %w", err)
		}

		if err := item.Value(func(val []byte) error {
			return decodeEntry(val, &res)
		}); err != nil {
			return fmt.Errorf("getting value: %w", err)
		}

		return nil
	}); err != nil {
		return model.Entry{}, fmt.Errorf("reading from db: %w", err)
	}

	return res, nil
}

func (repo *badgerNamespaceEntries) GetAll() (resEntries map[string]model.Entry, resErr error) {
	defer func(ts time.Time) {
		repo.metrics.requestsCnt.Inc()
		repo.metrics.handleTimeHist.Observe(float64(time.Since(ts)))

		switch resErr {
		case nil:
			repo.metrics.successProcessCnt.Inc()
		default:
			repo.metrics.errProcessCnt.Inc()
		}
	}(time.Now())

	resEntries = map[string]model.Entry{}

	err := repo.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()

			e := model.Entry{}
			err := item.Value(func(val []byte) error {
				return decodeEntry(val, &e)
			})
			if errors.Is(err, errUndecodable) {
				// Unreadable entries read as absent until overwritten.
				repo.logger.
					Warn().
					Err(err).
					Str("key", string(item.Key())).
					Msg("skipping undecodable entry")
				continue
			}
			if err != nil {
				return fmt.Errorf("getting value of %s: %w", string(item.Key()), err)
			}

			resEntries[string(item.Key())] = e
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("performing view txn: %w", err)
	}

	return resEntries, nil
}

// Puts entry in a single update txn.
// Other keys of the namespace are not touched.
func (repo *badgerNamespaceEntries) Put(e model.Entry) (resErr error) {
	created := false
	defer func(ts time.Time) {
		repo.metrics.requestsCnt.Inc()
		repo.metrics.handleTimeHist.Observe(float64(time.Since(ts)))

		switch resErr {
		case nil:
			repo.metrics.successProcessCnt.Inc()
			if created {
				repo.metrics.repoSizeItemsGauge.Inc()
			}
		default:
			repo.metrics.errProcessCnt.Inc()
		}
	}(time.Now())

	buf := bytes.NewBuffer(nil)
	if err := gob.NewEncoder(buf).Encode(e); err != nil {
		return fmt.Errorf("encoding gob: %w", err)
	}

	if err := repo.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(e.Key))
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
			created = true
		case err != nil:
			return fmt.Errorf("getting old item: %w", err)
		}

		if err := txn.Set([]byte(e.Key), buf.Bytes()); err != nil {
			return fmt.Errorf("setting item to db: %w", err)
		}
		return nil
	}); err != nil {
		created = false
		return fmt.Errorf("performing upd txn: %w", err)
	}

	return nil
}

func (repo *badgerNamespaceEntries) Remove(key string) (resErr error) {
	existed := false
	defer func(ts time.Time) {
		repo.metrics.requestsCnt.Inc()
		repo.metrics.handleTimeHist.Observe(float64(time.Since(ts)))

		switch resErr {
		case nil:
			repo.metrics.successProcessCnt.Inc()
			if existed {
				repo.metrics.repoSizeItemsGauge.Dec()
			}
		default:
			repo.metrics.errProcessCnt.Inc()
		}
	}(time.Now())

	if err := repo.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
			return nil
		case err != nil:
			return fmt.Errorf("getting old item: %w", err)
		}
		existed = true

		if err := txn.Delete([]byte(key)); err != nil {
			return fmt.Errorf("deleting item: %w", err)
		}
		return nil
	}); err != nil {
		existed = false
		return fmt.Errorf("performing del txn: %w", err)
	}

	return nil
}

func (repo *badgerNamespaceEntries) Close() error {
	if err := repo.db.Close(); err != nil {
		return fmt.Errorf("closing badger db: %w", err)
	}
	return nil
}

var errUndecodable = errors.New("undecodable entry")

func decodeEntry(val []byte, e *model.Entry) error {
	if err := gob.
		NewDecoder(bytes.NewBuffer(val)).
		Decode(e); err != nil {
		return errors.Join(errUndecodable, fmt.Errorf("decoding gob: %w", err))
	}
	return nil
}
