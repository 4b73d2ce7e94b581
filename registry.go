package rxprefs

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
)

// Registry owns the namespaces of a host application.
// It is built once at startup and passed to whoever needs a namespace.
type Registry struct {
	mu         sync.Mutex
	opts       []Option
	namespaces map[string]*Namespace
}

func NewRegistry(opts ...Option) *Registry {
	return &Registry{
		opts:       opts,
		namespaces: map[string]*Namespace{},
	}
}

// Open returns the namespace handle, opening it on first use.
// Repeated calls return the same handle until it is closed.
func (reg *Registry) Open(name string) (*Namespace, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if ns, found := reg.namespaces[name]; found && !ns.Closed() {
		return ns, nil
	}

	ns, err := Open(name, reg.opts...)
	if err != nil {
		return nil, fmt.Errorf("opening namespace %s: %w", name, err)
	}

	reg.namespaces[name] = ns
	return ns, nil
}

// Lookup returns an already opened namespace.
func (reg *Registry) Lookup(name string) (*Namespace, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	ns, found := reg.namespaces[name]
	if !found || ns.Closed() {
		return nil, false
	}
	return ns, true
}

// Processor is Lookup for transport layers working with raw entries.
func (reg *Registry) Processor(name string) (*Processor, bool) {
	ns, found := reg.Lookup(name)
	if !found {
		return nil, false
	}
	return ns.Processor, true
}

// Names lists opened namespaces in lexical order.
func (reg *Registry) Names() []string {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	names := lo.Keys(lo.PickBy(reg.namespaces, func(_ string, ns *Namespace) bool {
		return !ns.Closed()
	}))
	slices.Sort(names)
	return names
}

func (reg *Registry) Metrics() []prometheus.Collector {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	return lo.FlatMap(lo.Values(reg.namespaces), func(ns *Namespace, _ int) []prometheus.Collector {
		return ns.Metrics()
	})
}

func (reg *Registry) Close() (resErr error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	for name, ns := range reg.namespaces {
		if err := ns.Close(); err != nil {
			resErr = errors.Join(resErr, fmt.Errorf("closing namespace %s: %w", name, err))
		}
		delete(reg.namespaces, name)
	}

	return resErr
}
