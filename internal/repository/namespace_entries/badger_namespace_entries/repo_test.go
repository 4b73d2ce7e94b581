package badger_namespace_entries_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgraph-io/badger"
	"github.com/horockey/rxprefs/internal/model"
	"github.com/horockey/rxprefs/internal/repository/namespace_entries/badger_namespace_entries"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) (*badger.DB, func()) {
	dir := t.TempDir()

	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		t.Fatalf("failed to open badger db: %v", err)
	}

	return db, func() {
		_ = db.Close()
	}
}

func Test_Get_KeyNotFound(t *testing.T) {
	db, teardown := setupDB(t)
	defer teardown()

	repo := badger_namespace_entries.New(db, "test_ns", zerolog.Nop())

	e, err := repo.Get("nonexistent_key")

	assert.Empty(t, e)
	require.Error(t, err)
	assert.True(t, errors.As(err, &model.KeyNotFoundError{}))
}

func Test_Put_Get(t *testing.T) {
	db, teardown := setupDB(t)
	defer teardown()

	repo := badger_namespace_entries.New(db, "test_ns", zerolog.Nop())
	e := model.Entry{
		Key:      "theme_mode",
		Kind:     model.KindString,
		Raw:      "dark",
		Modified: time.Now(),
	}

	require.NoError(t, repo.Put(e))

	got, err := repo.Get(e.Key)
	require.NoError(t, err)

	assert.Equal(t, e.Key, got.Key)
	assert.Equal(t, e.Kind, got.Kind)
	assert.Equal(t, e.Raw, got.Raw)
	assert.WithinDuration(t, e.Modified, got.Modified, time.Millisecond)
}

func Test_Put_KeepsOtherKeys(t *testing.T) {
	db, teardown := setupDB(t)
	defer teardown()

	repo := badger_namespace_entries.New(db, "test_ns", zerolog.Nop())

	require.NoError(t, repo.Put(model.Entry{Key: "a", Kind: model.KindInt32, Raw: "1"}))
	require.NoError(t, repo.Put(model.Entry{Key: "b", Kind: model.KindInt32, Raw: "2"}))
	require.NoError(t, repo.Put(model.Entry{Key: "a", Kind: model.KindInt32, Raw: "3"}))

	all, err := repo.GetAll()
	require.NoError(t, err)

	require.Len(t, all, 2)
	assert.Equal(t, "3", all["a"].Raw)
	assert.Equal(t, "2", all["b"].Raw)
}

func Test_Remove(t *testing.T) {
	db, teardown := setupDB(t)
	defer teardown()

	repo := badger_namespace_entries.New(db, "test_ns", zerolog.Nop())
	key := "google_drive_account"

	require.NoError(t, repo.Put(model.Entry{Key: key, Kind: model.KindString, Raw: "user@example.com"}))
	require.NoError(t, repo.Remove(key))

	err := db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		return err
	})

	assert.Error(t, err)
	assert.True(t, errors.Is(err, badger.ErrKeyNotFound))

	// removing an absent key is a no-op
	assert.NoError(t, repo.Remove(key))
}

func Test_GetAll_SkipsUndecodable(t *testing.T) {
	db, teardown := setupDB(t)
	defer teardown()

	repo := badger_namespace_entries.New(db, "test_ns", zerolog.Nop())
	require.NoError(t, repo.Put(model.Entry{Key: "ok", Kind: model.KindBool, Raw: "true"}))

	require.NoError(t, db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte("broken"), []byte("definitely not gob"))
	}))

	all, err := repo.GetAll()
	require.NoError(t, err)

	assert.Len(t, all, 1)
	assert.Contains(t, all, "ok")
}

func Test_Open_Reopen(t *testing.T) {
	dir := t.TempDir()

	repo, err := badger_namespace_entries.Open(dir, "test_ns", true, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, repo.Put(model.Entry{Key: "backup_retention_count", Kind: model.KindInt32, Raw: "10"}))
	require.NoError(t, repo.Close())

	repo, err = badger_namespace_entries.Open(dir, "test_ns", true, zerolog.Nop())
	require.NoError(t, err)
	defer repo.Close()

	e, err := repo.Get("backup_retention_count")
	require.NoError(t, err)
	assert.Equal(t, "10", e.Raw)
}

func Test_Open_Unavailable(t *testing.T) {
	dir := t.TempDir()
	notADir := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(notADir, []byte("x"), 0o600))

	_, err := badger_namespace_entries.Open(filepath.Join(notADir, "ns"), "test_ns", true, zerolog.Nop())
	require.Error(t, err)

	target := model.StorageUnavailableError{}
	require.True(t, errors.As(err, &target))
	assert.Equal(t, "test_ns", target.Namespace)
}
