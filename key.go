package rxprefs

import (
	"strconv"

	"github.com/horockey/rxprefs/internal/model"
	"github.com/samber/lo"
)

// Key describes a typed preference: its name, declared kind and default.
// Keys are immutable and are meant to be declared once as package-level values.
type Key[T any] struct {
	name     string
	kind     model.Kind
	def      T
	nullable bool
	encode   func(T) (raw string, present bool)
	decode   func(raw string) (T, error)
	equal    func(a, b T) bool
}

func (k Key[T]) Name() string     { return k.name }
func (k Key[T]) Kind() model.Kind { return k.kind }
func (k Key[T]) Default() T       { return k.def }
func (k Key[T]) Nullable() bool   { return k.nullable }

// Resolves effective value of the key within snapshot.
// Absent entries and entries of foreign kind resolve to the default.
func (k Key[T]) valueOf(s *model.Snapshot) (T, *model.TypeMismatchError) {
	e, found := s.Get(k.name)
	if !found {
		return k.def, nil
	}

	mismatch := &model.TypeMismatchError{
		Key:  k.name,
		Want: k.kind,
		Got:  e.Kind,
		Raw:  e.Raw,
	}
	if e.Kind != k.kind {
		return k.def, mismatch
	}

	v, err := k.decode(e.Raw)
	if err != nil {
		return k.def, mismatch
	}
	return v, nil
}

func BoolKey(name string, def bool) Key[bool] {
	return Key[bool]{
		name: name,
		kind: model.KindBool,
		def:  def,
		encode: func(v bool) (string, bool) {
			return strconv.FormatBool(v), true
		},
		decode: strconv.ParseBool,
		equal:  eq[bool],
	}
}

func Int32Key(name string, def int32) Key[int32] {
	return Key[int32]{
		name: name,
		kind: model.KindInt32,
		def:  def,
		encode: func(v int32) (string, bool) {
			return strconv.FormatInt(int64(v), 10), true
		},
		decode: func(raw string) (int32, error) {
			v, err := strconv.ParseInt(raw, 10, 32)
			return int32(v), err
		},
		equal: eq[int32],
	}
}

// Int64Key is also used for unix-millis timestamps.
func Int64Key(name string, def int64) Key[int64] {
	return Key[int64]{
		name: name,
		kind: model.KindInt64,
		def:  def,
		encode: func(v int64) (string, bool) {
			return strconv.FormatInt(v, 10), true
		},
		decode: func(raw string) (int64, error) {
			return strconv.ParseInt(raw, 10, 64)
		},
		equal: eq[int64],
	}
}

func StringKey(name string, def string) Key[string] {
	return Key[string]{
		name: name,
		kind: model.KindString,
		def:  def,
		encode: func(v string) (string, bool) {
			return v, true
		},
		decode: func(raw string) (string, error) {
			return raw, nil
		},
		equal: eq[string],
	}
}

// NullableStringKey defaults to nil. A nil value means "not configured",
// which is distinct from an empty string.
func NullableStringKey(name string) Key[*string] {
	return Key[*string]{
		name:     name,
		kind:     model.KindString,
		nullable: true,
		encode: func(v *string) (string, bool) {
			if v == nil {
				return "", false
			}
			return *v, true
		},
		decode: func(raw string) (*string, error) {
			return lo.ToPtr(raw), nil
		},
		equal: func(a, b *string) bool {
			if a == nil || b == nil {
				return a == b
			}
			return *a == *b
		},
	}
}

func eq[T comparable](a, b T) bool {
	return a == b
}
