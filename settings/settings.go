package settings

import (
	"context"
	"fmt"
	"time"

	"github.com/horockey/rxprefs"
)

// Settings bundles every namespace the host app uses.
type Settings struct {
	Backup      *BackupSettings
	Theme       *ThemePreferences
	Transaction *TransactionPreferences
}

// OpenAll opens all app namespaces through reg.
func OpenAll(reg *rxprefs.Registry) (*Settings, error) {
	backup, err := reg.Open(BackupNamespace)
	if err != nil {
		return nil, fmt.Errorf("opening backup settings: %w", err)
	}

	theme, err := reg.Open(ThemeNamespace)
	if err != nil {
		return nil, fmt.Errorf("opening theme preferences: %w", err)
	}

	transaction, err := reg.Open(TransactionNamespace)
	if err != nil {
		return nil, fmt.Errorf("opening transaction preferences: %w", err)
	}

	return &Settings{
		Backup:      NewBackupSettings(backup),
		Theme:       NewThemePreferences(theme),
		Transaction: NewTransactionPreferences(transaction),
	}, nil
}

func toUnixMilli(ts time.Time) int64 {
	if ts.IsZero() {
		return 0
	}
	return ts.UnixMilli()
}

func fromUnixMilli(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

func mapStream[A, B any](ctx context.Context, in <-chan A, f func(A) B) <-chan B {
	out := make(chan B)
	go func() {
		defer close(out)
		for v := range in {
			select {
			case out <- f(v):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
