package namespace_entries

import (
	"github.com/horockey/rxprefs/internal/model"
)

// Repository is the backing storage of a single namespace.
// Implementations must commit Put and Remove atomically.
type Repository interface {
	model.MetricsProvider
	Namespace() string
	GetAll() (map[string]model.Entry, error)
	Get(key string) (model.Entry, error)
	Put(model.Entry) error
	Remove(key string) error
	Close() error
}
