package inmemory_namespace_entries

import (
	"sync"
	"time"

	"github.com/horockey/rxprefs/internal/model"
	"github.com/horockey/rxprefs/internal/repository/namespace_entries"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
)

var _ namespace_entries.Repository = &inmemoryNamespaceEntries{}

// Non-persistent repo. Contents are lost on Close.
type inmemoryNamespaceEntries struct {
	namespace string
	storage   map[string]model.Entry
	mu        sync.RWMutex
	metrics   *metrics
}

func New(namespace string) *inmemoryNamespaceEntries {
	repo := inmemoryNamespaceEntries{
		namespace: namespace,
		storage:   map[string]model.Entry{},
	}

	repo.metrics = newMetrics(&repo)

	return &repo
}

func (repo *inmemoryNamespaceEntries) Metrics() []prometheus.Collector {
	return repo.metrics.list()
}

func (repo *inmemoryNamespaceEntries) Namespace() string {
	return repo.namespace
}

func (repo *inmemoryNamespaceEntries) Get(key string) (res model.Entry, resErr error) {
	repo.metrics.getRequestsCnt.Inc()
	defer repo.observe(time.Now(), &resErr)

	repo.mu.RLock()
	defer repo.mu.RUnlock()

	e, found := repo.storage[key]
	if !found {
		return model.Entry{}, model.KeyNotFoundError{Key: key}
	}

	return e, nil
}

func (repo *inmemoryNamespaceEntries) GetAll() (res map[string]model.Entry, resErr error) {
	repo.metrics.getRequestsCnt.Inc()
	defer repo.observe(time.Now(), &resErr)

	repo.mu.RLock()
	defer repo.mu.RUnlock()

	return lo.Assign(repo.storage), nil
}

func (repo *inmemoryNamespaceEntries) Put(e model.Entry) (resErr error) {
	repo.metrics.putRequestsCnt.Inc()
	defer repo.observe(time.Now(), &resErr)

	repo.mu.Lock()
	defer repo.mu.Unlock()

	repo.storage[e.Key] = e
	return nil
}

func (repo *inmemoryNamespaceEntries) Remove(key string) (resErr error) {
	repo.metrics.delRequestsCnt.Inc()
	defer repo.observe(time.Now(), &resErr)

	repo.mu.Lock()
	defer repo.mu.Unlock()

	delete(repo.storage, key)
	return nil
}

func (repo *inmemoryNamespaceEntries) Close() error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	repo.storage = map[string]model.Entry{}
	return nil
}

func (repo *inmemoryNamespaceEntries) observe(ts time.Time, resErr *error) {
	repo.metrics.handleTimeHist.Observe(float64(time.Since(ts)))
	switch *resErr {
	case nil:
		repo.metrics.successProcessCnt.Inc()
	default:
		repo.metrics.errProcessCnt.Inc()
	}
}
