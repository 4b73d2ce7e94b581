package rxprefs_test

import (
	"errors"

	"github.com/horockey/rxprefs"
)

type failingRepo struct {
	rxprefs.Repository
	fail bool
}

func (r *failingRepo) Put(e rxprefs.Entry) error {
	if r.fail {
		return errors.New("disk full")
	}
	return r.Repository.Put(e)
}

func (r *failingRepo) Remove(key string) error {
	if r.fail {
		return errors.New("disk full")
	}
	return r.Repository.Remove(key)
}
