package rxprefs

import (
	"context"
	"fmt"

	"github.com/horockey/rxprefs/internal/model"
)

// Get returns the current effective value of key.
// It never fails: absent or unreadable entries yield the key default.
func Get[T any](ns *Namespace, key Key[T]) T {
	return resolve(ns, key, ns.Snapshot())
}

// Observe streams the effective value of key: the current value first,
// then every change caused by writes to the namespace.
// The channel is closed once ctx is done or the namespace is closed.
func Observe[T any](ctx context.Context, ns *Namespace, key Key[T]) <-chan T {
	out := make(chan T)
	snaps := ns.Subscribe(ctx)

	go func() {
		defer close(out)

		var (
			last    T
			emitted bool
		)
		for snap := range snaps {
			v := resolve(ns, key, snap)
			if emitted && key.equal(last, v) {
				continue
			}

			select {
			case out <- v:
				last, emitted = v, true
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

// Set durably stores value under key. Other keys are left untouched.
// Setting nil on a nullable key removes it.
func Set[T any](ctx context.Context, ns *Namespace, key Key[T], value T) error {
	raw, present := key.encode(value)
	if !present {
		return Remove(ctx, ns, key)
	}

	if err := ns.Put(ctx, model.Entry{
		Key:  key.name,
		Kind: key.kind,
		Raw:  raw,
	}); err != nil {
		return fmt.Errorf("setting %s: %w", key.name, err)
	}
	return nil
}

// Remove clears a nullable key, so reads yield nil rather than a default.
func Remove[T any](ctx context.Context, ns *Namespace, key Key[T]) error {
	if !key.nullable {
		return model.KeyNotNullableError{Key: key.name}
	}

	if err := ns.Processor.Remove(ctx, key.name); err != nil {
		return fmt.Errorf("removing %s: %w", key.name, err)
	}
	return nil
}

func SetOrRemove[T any](ctx context.Context, ns *Namespace, key Key[*T], value *T) error {
	if value == nil {
		return Remove(ctx, ns, key)
	}
	return Set(ctx, ns, key, value)
}

func resolve[T any](ns *Namespace, key Key[T], snap *model.Snapshot) T {
	v, mismatch := key.valueOf(snap)
	if mismatch != nil {
		ns.ReportTypeMismatch(*mismatch)
	}
	return v
}
