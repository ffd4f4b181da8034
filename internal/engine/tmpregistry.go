package engine

import (
	"os"
	"sync"
)

// tmpRegistry tracks the temp files of one copier's in-flight copies.
type tmpRegistry struct {
	mu    sync.Mutex
	paths map[string]struct{}
}

func (r *tmpRegistry) register(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.paths == nil {
		r.paths = make(map[string]struct{})
	}
	r.paths[path] = struct{}{}
}

func (r *tmpRegistry) deregister(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.paths, path)
}

func (r *tmpRegistry) pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.paths)
}

// cleanup removes every registered temp file and clears the registry.
func (r *tmpRegistry) cleanup() {
	r.mu.Lock()
	paths := make([]string, 0, len(r.paths))
	for p := range r.paths {
		paths = append(paths, p)
	}
	r.paths = nil
	r.mu.Unlock()

	for _, p := range paths {
		_ = os.Remove(p)
	}
}
