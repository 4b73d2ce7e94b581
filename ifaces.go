package rxprefs

import (
	"github.com/horockey/rxprefs/internal/model"
	"github.com/horockey/rxprefs/internal/processor"
	"github.com/horockey/rxprefs/internal/repository/namespace_entries"
)

type (
	Processor  = processor.Processor
	Repository = namespace_entries.Repository
	Entry      = model.Entry
	Snapshot   = model.Snapshot
	Kind       = model.Kind
)

const (
	KindBool   = model.KindBool
	KindInt32  = model.KindInt32
	KindInt64  = model.KindInt64
	KindString = model.KindString
)
