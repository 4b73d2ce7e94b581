package rxprefs

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/horockey/go-toolbox/options"
	"github.com/horockey/rxprefs/internal/model"
	"github.com/horockey/rxprefs/internal/processor"
	"github.com/horockey/rxprefs/internal/repository/namespace_entries"
	"github.com/horockey/rxprefs/internal/repository/namespace_entries/badger_namespace_entries"
	"github.com/horockey/rxprefs/internal/repository/namespace_entries/inmemory_namespace_entries"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// Namespace is a handle to one independently persisted preference mapping.
type Namespace struct {
	*processor.Processor
	repo namespace_entries.Repository
}

type openParams struct {
	rootDir    string
	syncWrites bool
	inMemory   bool
	logger     zerolog.Logger
	repo       namespace_entries.Repository
}

func defaultOpenParams() openParams {
	return openParams{
		rootDir:    "./prefs",
		syncWrites: true,
		logger: zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}).With().
			Timestamp().
			Str("scope", "rxprefs").
			Logger(),
	}
}

// Open opens namespace storage, creating an empty one if absent.
// Storage failures are reported as StorageUnavailableError.
func Open(name string, opts ...Option) (*Namespace, error) {
	if err := model.ValidateNamespace(name); err != nil {
		return nil, err
	}

	params := defaultOpenParams()
	if err := options.ApplyOptions(&params, opts...); err != nil {
		return nil, fmt.Errorf("applying opts: %w", err)
	}

	logger := params.logger.With().Str("namespace", name).Logger()

	repo, err := openRepo(name, params, logger)
	if err != nil {
		return nil, err
	}

	return &Namespace{
		Processor: processor.New(repo, logger),
		repo:      repo,
	}, nil
}

func openRepo(
	name string,
	params openParams,
	logger zerolog.Logger,
) (namespace_entries.Repository, error) {
	switch {
	case params.repo != nil:
		if params.repo.Namespace() != name {
			return nil, fmt.Errorf(
				"repository belongs to namespace %s, not %s",
				params.repo.Namespace(),
				name,
			)
		}
		return params.repo, nil

	case params.inMemory:
		return inmemory_namespace_entries.New(name), nil
	}

	if err := os.MkdirAll(params.rootDir, 0o700); err != nil { //nolint: mnd
		return nil, model.StorageUnavailableError{
			Namespace: name,
			Err:       fmt.Errorf("creating root dir: %w", err),
		}
	}

	repo, err := badger_namespace_entries.Open(
		filepath.Join(params.rootDir, name),
		name,
		params.syncWrites,
		logger.With().Str("subscope", "badger").Logger(),
	)
	if err != nil {
		return nil, fmt.Errorf("opening badger repo: %w", err)
	}

	return repo, nil
}

func (ns *Namespace) Name() string {
	return ns.Processor.Namespace()
}

func (ns *Namespace) Metrics() []prometheus.Collector {
	return slices.Concat(
		ns.Processor.Metrics(),
		ns.repo.Metrics(),
	)
}
