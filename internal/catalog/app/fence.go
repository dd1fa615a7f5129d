package app

import (
	"context"
	"sync"
)

// Fence tags each catalog selection with a generation. Starting a new selection
// cancels the previous in-flight fetch, and responses carrying an old generation
// are rejected by Current.
type Fence struct {
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

func (f *Fence) Begin(ctx context.Context) (context.Context, uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cancel != nil {
		f.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	f.gen++
	f.cancel = cancel
	return ctx, f.gen
}

func (f *Fence) Current(gen uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gen == gen
}

// End releases the context of gen if it is still the current one.
func (f *Fence) End(gen uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gen == gen && f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
}

// Fences keeps one Fence per browser session while that session has a selection
// in flight. A session with nothing loading holds no memory.
type Fences struct {
	mu sync.Mutex
	m  map[string]*fenceRef
}

type fenceRef struct {
	fence *Fence
	refs  int
}

func NewFences() *Fences {
	return &Fences{m: make(map[string]*fenceRef)}
}

// Acquire returns the session's fence. Call release when the selection is done;
// the fence is dropped once no selection of the session is in flight.
func (fs *Fences) Acquire(sessionID string) (f *Fence, release func()) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	ref, ok := fs.m[sessionID]
	if !ok {
		ref = &fenceRef{fence: &Fence{}}
		fs.m[sessionID] = ref
	}
	ref.refs++

	return ref.fence, func() {
		fs.mu.Lock()
		defer fs.mu.Unlock()
		ref.refs--
		if ref.refs == 0 && fs.m[sessionID] == ref {
			delete(fs.m, sessionID)
		}
	}
}

func (fs *Fences) Forget(sessionID string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	delete(fs.m, sessionID)
}

// Len is the number of sessions currently holding a fence.
func (fs *Fences) Len() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return len(fs.m)
}
