package processor_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/horockey/rxprefs/internal/model"
	"github.com/horockey/rxprefs/internal/processor"
	"github.com/horockey/rxprefs/internal/repository/namespace_entries"
	"github.com/horockey/rxprefs/internal/repository/namespace_entries/inmemory_namespace_entries"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingRepo struct {
	namespace_entries.Repository
	err error
}

func (r *failingRepo) Put(model.Entry) error {
	return r.err
}

func (r *failingRepo) Remove(string) error {
	return r.err
}

type brokenLoadRepo struct {
	namespace_entries.Repository
}

func (r *brokenLoadRepo) GetAll() (map[string]model.Entry, error) {
	return nil, errors.New("disk on fire")
}

func newProcessor(t *testing.T) *processor.Processor {
	t.Helper()
	pr := processor.New(inmemory_namespace_entries.New("test_ns"), zerolog.Nop())
	t.Cleanup(func() { _ = pr.Close() })
	return pr
}

func recv(t *testing.T, ch <-chan *model.Snapshot) *model.Snapshot {
	t.Helper()
	select {
	case s, ok := <-ch:
		require.True(t, ok, "channel closed")
		return s
	case <-time.After(time.Second):
		t.Fatal("no snapshot received")
		return nil
	}
}

func Test_Put_Get(t *testing.T) {
	pr := newProcessor(t)

	_, found := pr.Get("a")
	assert.False(t, found)

	require.NoError(t, pr.Put(context.Background(), model.Entry{Key: "a", Kind: model.KindInt32, Raw: "7"}))

	e, found := pr.Get("a")
	require.True(t, found)
	assert.Equal(t, "7", e.Raw)
	assert.False(t, e.Modified.IsZero())
}

func Test_Put_InvalidRaw(t *testing.T) {
	pr := newProcessor(t)

	err := pr.Put(context.Background(), model.Entry{Key: "a", Kind: model.KindInt32, Raw: "seven"})
	require.Error(t, err)

	_, found := pr.Get("a")
	assert.False(t, found)
}

func Test_Remove(t *testing.T) {
	pr := newProcessor(t)
	ctx := context.Background()

	require.NoError(t, pr.Put(ctx, model.Entry{Key: "a", Kind: model.KindString, Raw: "x"}))
	require.NoError(t, pr.Put(ctx, model.Entry{Key: "b", Kind: model.KindString, Raw: "y"}))
	require.NoError(t, pr.Remove(ctx, "a"))

	_, found := pr.Get("a")
	assert.False(t, found)
	_, found = pr.Get("b")
	assert.True(t, found)
}

func Test_Subscribe_ReplayAndUpdates(t *testing.T) {
	pr := newProcessor(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := pr.Subscribe(ctx)

	first := recv(t, ch)
	assert.Empty(t, first.Entries)

	for i := range 5 {
		require.NoError(t, pr.Put(ctx, model.Entry{Key: "cnt", Kind: model.KindInt64, Raw: fmt.Sprint(i)}))
	}

	prevVersion := first.Version
	for i := range 5 {
		s := recv(t, ch)
		assert.Greater(t, s.Version, prevVersion)
		prevVersion = s.Version
		assert.Equal(t, fmt.Sprint(i), s.Entries["cnt"].Raw)
	}
}

func Test_Subscribe_IndependentPacing(t *testing.T) {
	pr := newProcessor(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	slow := pr.Subscribe(ctx)
	fast := pr.Subscribe(ctx)

	recv(t, fast)
	for i := range 50 {
		require.NoError(t, pr.Put(ctx, model.Entry{Key: "k", Kind: model.KindInt32, Raw: fmt.Sprint(i)}))
		assert.Equal(t, fmt.Sprint(i), recv(t, fast).Entries["k"].Raw)
	}

	// slow subscriber has not read anything yet and still gets the whole sequence
	recv(t, slow)
	for i := range 50 {
		assert.Equal(t, fmt.Sprint(i), recv(t, slow).Entries["k"].Raw)
	}
}

func Test_Subscribe_Cancel(t *testing.T) {
	pr := newProcessor(t)
	ctx, cancel := context.WithCancel(context.Background())

	ch := pr.Subscribe(ctx)
	recv(t, ch)
	cancel()

	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)

	// other subscribers and state are unaffected
	require.NoError(t, pr.Put(context.Background(), model.Entry{Key: "a", Kind: model.KindBool, Raw: "true"}))
	other := pr.Subscribe(context.Background())
	assert.Contains(t, recv(t, other).Entries, "a")
}

func Test_Put_WriteFailed(t *testing.T) {
	inner := inmemory_namespace_entries.New("test_ns")
	require.NoError(t, inner.Put(model.Entry{Key: "a", Kind: model.KindString, Raw: "old"}))

	repo := &failingRepo{Repository: inner, err: errors.New("disk full")}
	pr := processor.New(repo, zerolog.Nop())
	defer pr.Close()

	before := pr.Snapshot()

	err := pr.Put(context.Background(), model.Entry{Key: "a", Kind: model.KindString, Raw: "new"})
	require.Error(t, err)

	target := model.PersistenceWriteFailedError{}
	require.True(t, errors.As(err, &target))
	assert.Equal(t, "test_ns", target.Namespace)
	assert.Equal(t, "a", target.Key)

	assert.Same(t, before, pr.Snapshot())
	e, _ := pr.Get("a")
	assert.Equal(t, "old", e.Raw)

	err = pr.Remove(context.Background(), "a")
	assert.True(t, errors.As(err, &target))
	_, found := pr.Get("a")
	assert.True(t, found)
}

func Test_New_LoadFailureDegrades(t *testing.T) {
	repo := &brokenLoadRepo{Repository: inmemory_namespace_entries.New("test_ns")}
	pr := processor.New(repo, zerolog.Nop())
	defer pr.Close()

	assert.Empty(t, pr.Snapshot().Entries)
	require.NoError(t, pr.Put(context.Background(), model.Entry{Key: "a", Kind: model.KindBool, Raw: "false"}))
	_, found := pr.Get("a")
	assert.True(t, found)
}

func Test_Put_Concurrent(t *testing.T) {
	pr := newProcessor(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%4)
			assert.NoError(t, pr.Put(ctx, model.Entry{Key: key, Kind: model.KindInt32, Raw: fmt.Sprint(i)}))
		}()
	}
	wg.Wait()

	snap := pr.Snapshot()
	assert.Len(t, snap.Entries, 4)
	assert.Equal(t, uint64(21), snap.Version)
}

func Test_Close(t *testing.T) {
	pr := processor.New(inmemory_namespace_entries.New("test_ns"), zerolog.Nop())

	ch := pr.Subscribe(context.Background())
	recv(t, ch)

	require.NoError(t, pr.Close())
	require.NoError(t, pr.Close())

	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)

	err := pr.Put(context.Background(), model.Entry{Key: "a", Kind: model.KindBool, Raw: "true"})
	assert.True(t, errors.As(err, &model.NamespaceClosedError{}))

	_, ok := <-pr.Subscribe(context.Background())
	assert.False(t, ok)
}
