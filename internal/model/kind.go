package model

import (
	"fmt"
	"strconv"
)

// Kind is the declared scalar type of a preference key.
type Kind string

const (
	KindBool   Kind = "bool"
	KindInt32  Kind = "int32"
	KindInt64  Kind = "int64"
	KindString Kind = "string"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindBool, KindInt32, KindInt64, KindString:
		return k, nil
	default:
		return "", InvalidKindError{Kind: s}
	}
}

// Validate reports whether raw is a canonical text form of kind.
func (k Kind) Validate(raw string) error {
	var err error
	switch k {
	case KindBool:
		_, err = strconv.ParseBool(raw)
	case KindInt32:
		_, err = strconv.ParseInt(raw, 10, 32)
	case KindInt64:
		_, err = strconv.ParseInt(raw, 10, 64)
	case KindString:
	default:
		return InvalidKindError{Kind: string(k)}
	}
	if err != nil {
		return fmt.Errorf("parsing %q as %s: %w", raw, k, err)
	}
	return nil
}
