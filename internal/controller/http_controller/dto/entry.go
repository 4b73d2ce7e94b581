package dto

import (
	"fmt"
	"time"

	"github.com/horockey/rxprefs/internal/model"
	"github.com/samber/lo"
)

type Entry struct {
	Key          string `json:"key"`
	Kind         string `json:"kind"`
	Value        string `json:"value"`
	ModifiedUnix int64  `json:"modified,omitempty"`
}

type Namespaces struct {
	Namespaces []string `json:"namespaces"`
}

func EntryToModel(e Entry) (model.Entry, error) {
	kind, err := model.ParseKind(e.Kind)
	if err != nil {
		return model.Entry{}, fmt.Errorf("parsing kind: %w", err)
	}

	if err := kind.Validate(e.Value); err != nil {
		return model.Entry{}, fmt.Errorf("validating value: %w", err)
	}

	res := model.Entry{
		Key:  e.Key,
		Kind: kind,
		Raw:  e.Value,
	}
	if e.ModifiedUnix != 0 {
		res.Modified = time.Unix(e.ModifiedUnix, 0)
	}

	return res, nil
}

func NewEntry(e model.Entry) Entry {
	return Entry{
		Key:          e.Key,
		Kind:         string(e.Kind),
		Value:        e.Raw,
		ModifiedUnix: lo.Ternary(e.Modified.IsZero(), 0, e.Modified.Unix()),
	}
}
