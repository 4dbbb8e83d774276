package server

import "sync"

// registry tracks in-flight connection workers. It exists only so shutdown
// can drain: the lock is held for O(1) insert/remove, never across I/O.
type registry struct {
	mu      sync.Mutex
	drained *sync.Cond
	workers map[string]struct{}
}

func newRegistry() *registry {
	r := &registry{
		workers: make(map[string]struct{}),
	}
	r.drained = sync.NewCond(&r.mu)
	return r
}

func (r *registry) add(id string) {
	r.mu.Lock()
	r.workers[id] = struct{}{}
	r.mu.Unlock()
}

func (r *registry) remove(id string) {
	r.mu.Lock()
	delete(r.workers, id)
	if len(r.workers) == 0 {
		r.drained.Broadcast()
	}
	r.mu.Unlock()
}

// wait blocks until no workers remain registered.
func (r *registry) wait() {
	r.mu.Lock()
	for len(r.workers) > 0 {
		r.drained.Wait()
	}
	r.mu.Unlock()
}

func (r *registry) active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workers)
}
