package processor

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/horockey/rxprefs/internal/model"
	"github.com/samber/lo"
)

// snapshotHub holds the current snapshot and fans every replacement out
// to subscribers. Replacing and subscribing are serialized by mu, so a
// subscriber never misses a snapshot published after its replay.
type snapshotHub struct {
	mu      sync.Mutex
	current atomic.Pointer[model.Snapshot]
	subs    map[uint64]*subscriber
	nextID  uint64
	closed  bool
}

func newSnapshotHub(initial *model.Snapshot) *snapshotHub {
	h := &snapshotHub{
		subs: map[uint64]*subscriber{},
	}
	h.current.Store(initial)
	return h
}

func (h *snapshotHub) load() *model.Snapshot {
	return h.current.Load()
}

func (h *snapshotHub) publish(s *model.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.current.Store(s)
	for _, sub := range h.subs {
		sub.push(s)
	}
}

func (h *snapshotHub) subscribe(ctx context.Context) <-chan *model.Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make(chan *model.Snapshot)
	if h.closed {
		close(out)
		return out
	}

	id := h.nextID
	h.nextID++

	sub := &subscriber{
		queue:  []*model.Snapshot{h.current.Load()},
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
		out:    out,
	}
	h.subs[id] = sub

	go func() {
		defer h.unsubscribe(id)
		sub.run(ctx)
	}()

	return out
}

func (h *snapshotHub) unsubscribe(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, id)
}

func (h *snapshotHub) size() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *snapshotHub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true

	lo.ForEach(lo.Values(h.subs), func(sub *subscriber, _ int) {
		close(sub.done)
	})
}

// subscriber owns an unbounded FIFO, so publishers never wait on a slow reader.
type subscriber struct {
	mu     sync.Mutex
	queue  []*model.Snapshot
	signal chan struct{}
	done   chan struct{}
	out    chan *model.Snapshot
}

func (s *subscriber) push(snap *model.Snapshot) {
	s.mu.Lock()
	s.queue = append(s.queue, snap)
	s.mu.Unlock()

	select {
	case s.signal <- struct{}{}:
	default:
	}
}

func (s *subscriber) pop() (*model.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.queue) == 0 {
		return nil, false
	}

	snap := s.queue[0]
	s.queue[0] = nil
	s.queue = s.queue[1:]
	return snap, true
}

func (s *subscriber) run(ctx context.Context) {
	defer close(s.out)

	for {
		snap, ok := s.pop()
		if !ok {
			select {
			case <-s.signal:
				continue
			case <-ctx.Done():
				return
			case <-s.done:
				return
			}
		}

		select {
		case s.out <- snap:
		case <-ctx.Done():
			return
		case <-s.done:
			return
		}
	}
}
