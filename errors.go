package rxprefs

import "github.com/horockey/rxprefs/internal/model"

type (
	StorageUnavailableError     = model.StorageUnavailableError
	PersistenceWriteFailedError = model.PersistenceWriteFailedError
	TypeMismatchError           = model.TypeMismatchError
	KeyNotFoundError            = model.KeyNotFoundError
	KeyNotNullableError         = model.KeyNotNullableError
	InvalidNamespaceError       = model.InvalidNamespaceError
	NamespaceClosedError        = model.NamespaceClosedError
)
