package badger_namespace_entries

import (
	"strings"

	"github.com/dgraph-io/badger"
	"github.com/rs/zerolog"
)

var _ badger.Logger = badgerLogger{}

// badgerLogger forwards badger internals to zerolog.
// Badger's info chatter is demoted to debug.
type badgerLogger struct {
	l zerolog.Logger
}

func (bl badgerLogger) Errorf(format string, args ...interface{}) {
	bl.l.Error().Msgf(strings.TrimSpace(format), args...)
}

func (bl badgerLogger) Warningf(format string, args ...interface{}) {
	bl.l.Warn().Msgf(strings.TrimSpace(format), args...)
}

func (bl badgerLogger) Infof(format string, args ...interface{}) {
	bl.l.Debug().Msgf(strings.TrimSpace(format), args...)
}

func (bl badgerLogger) Debugf(format string, args ...interface{}) {
	bl.l.Trace().Msgf(strings.TrimSpace(format), args...)
}
