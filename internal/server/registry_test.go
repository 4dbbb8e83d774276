package server

import (
	"fmt"
	"sync"
	"testing"
)

func TestRegistryAddRemove(t *testing.T) {
	r := newRegistry()
	r.add("a")
	r.add("b")
	if got := r.active(); got != 2 {
		t.Fatalf("active() = %d, want 2", got)
	}
	r.remove("a")
	if got := r.active(); got != 1 {
		t.Fatalf("active() = %d, want 1", got)
	}
	r.remove("b")
	if got := r.active(); got != 0 {
		t.Fatalf("active() = %d, want 0", got)
	}
}

func TestRegistryWaitOnEmpty(t *testing.T) {
	r := newRegistry()
	// must not block
	r.wait()
}

func TestRegistryConcurrentWorkers(t *testing.T) {
	r := newRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		id := fmt.Sprintf("worker-%d", i)
		r.add(id)
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.remove(id)
		}()
	}

	r.wait()
	wg.Wait()

	if got := r.active(); got != 0 {
		t.Errorf("active() = %d after drain, want 0", got)
	}
}
