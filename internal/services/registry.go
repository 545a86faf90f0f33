package services

import "sync"

// registry is an ordered set of listeners that can remove themselves.
type registry[F any] struct {
	mu      sync.Mutex
	next    int
	entries []registryEntry[F]
}

type registryEntry[F any] struct {
	id int
	fn F
}

// add registers fn and returns a function that unregisters it.
func (r *registry[F]) add(fn F) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.next
	r.next++
	r.entries = append(r.entries, registryEntry[F]{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			for i, e := range r.entries {
				if e.id == id {
					r.entries = append(r.entries[:i], r.entries[i+1:]...)
					return
				}
			}
		})
	}
}

// all returns the registered listeners in registration order.
func (r *registry[F]) all() []F {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]F, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.fn
	}
	return out
}
