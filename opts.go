package rxprefs

import (
	"errors"

	"github.com/horockey/go-toolbox/options"
	"github.com/horockey/rxprefs/internal/repository/namespace_entries"
	"github.com/rs/zerolog"
)

type Option = options.Option[openParams]

// Sets custom root dir. Each namespace is stored in its own subdir.
// Default is ./prefs
func WithRootDir(dir string) Option {
	return func(target *openParams) error {
		if dir == "" {
			return errors.New("got empty root dir")
		}
		target.rootDir = dir
		return nil
	}
}

// Enables or disables fsync on every commit.
// Default is true.
func WithSyncWrites(sync bool) Option {
	return func(target *openParams) error {
		target.syncWrites = sync
		return nil
	}
}

// Sets custom logger.
// Default is stdout logger.
func WithLogger(l zerolog.Logger) Option {
	return func(target *openParams) error {
		target.logger = l
		return nil
	}
}

// Keeps namespaces in memory only. Nothing survives Close.
// Default is false.
func WithInMemory() Option {
	return func(target *openParams) error {
		target.inMemory = true
		return nil
	}
}

// Sets user-defined implementation of namespace repository.
// Repository namespace must match the opened one.
// Default is badger persistent repo.
//
// WARNING! Apply this opt only if you know what you are doing.
func WithRepository(repo namespace_entries.Repository) Option {
	return func(target *openParams) error {
		if repo == nil {
			return errors.New("got nil repository")
		}
		target.repo = repo
		return nil
	}
}
