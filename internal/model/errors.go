package model

import (
	"fmt"
)

var (
	_ error = KeyNotFoundError{}
	_ error = StorageUnavailableError{}
	_ error = PersistenceWriteFailedError{}
	_ error = TypeMismatchError{}
)

type KeyNotFoundError struct {
	Key string
}

func (err KeyNotFoundError) Error() string {
	return fmt.Sprintf("key %s not found", err.Key)
}

// Namespace backing storage could not be opened.
type StorageUnavailableError struct {
	Namespace string
	Err       error
}

func (err StorageUnavailableError) Error() string {
	return fmt.Sprintf("storage for namespace %s unavailable: %v", err.Namespace, err.Err)
}

func (err StorageUnavailableError) Unwrap() error {
	return err.Err
}

// A set or remove did not commit. Previously committed entries are untouched.
type PersistenceWriteFailedError struct {
	Namespace string
	Key       string
	Err       error
}

func (err PersistenceWriteFailedError) Error() string {
	return fmt.Sprintf("writing %s/%s: %v", err.Namespace, err.Key, err.Err)
}

func (err PersistenceWriteFailedError) Unwrap() error {
	return err.Err
}

type TypeMismatchError struct {
	Key  string
	Want Kind
	Got  Kind
	Raw  string
}

func (err TypeMismatchError) Error() string {
	return fmt.Sprintf("key %s: want %s, got %s (%q)", err.Key, err.Want, err.Got, err.Raw)
}

type KeyNotNullableError struct {
	Key string
}

func (err KeyNotNullableError) Error() string {
	return fmt.Sprintf("key %s is not nullable", err.Key)
}

type InvalidNamespaceError struct {
	Name string
}

func (err InvalidNamespaceError) Error() string {
	return fmt.Sprintf("invalid namespace name %q", err.Name)
}

type InvalidKindError struct {
	Kind string
}

func (err InvalidKindError) Error() string {
	return fmt.Sprintf("invalid kind %q", err.Kind)
}

type NamespaceClosedError struct {
	Namespace string
}

func (err NamespaceClosedError) Error() string {
	return fmt.Sprintf("namespace %s is closed", err.Namespace)
}
