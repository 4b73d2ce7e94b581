package remote_prefs

import (
	"context"

	"github.com/horockey/rxprefs/internal/model"
)

// Gateway talks to the admin api of a running preference host.
type Gateway interface {
	model.MetricsProvider
	Namespaces(ctx context.Context) ([]string, error)
	GetAll(ctx context.Context, namespace string) ([]model.Entry, error)
	Get(ctx context.Context, namespace string, key string) (model.Entry, error)
	Put(ctx context.Context, namespace string, e model.Entry) error
	Remove(ctx context.Context, namespace string, key string) error
}
