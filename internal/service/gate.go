package service

import "sync"

// Gate serializes send-and-wait operations. In per-account mode each phone
// number has its own slot so different accounts can overlap; in global mode
// every scope collapses to one slot, restoring single-lock behaviour.
//
// TryAcquire never blocks: when the slot is taken the caller fails the
// request with a busy result instead of queueing.
type Gate struct {
	global bool

	mu   sync.Mutex
	held map[string]bool
}

func NewGate(global bool) *Gate {
	return &Gate{global: global, held: make(map[string]bool)}
}

func (g *Gate) TryAcquire(scope string) bool {
	key := g.key(scope)

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.held[key] {
		return false
	}

	g.held[key] = true
	return true
}

// Release frees the scope. Releasing a scope that is not held is a
// programmer error: every Release must be paired with a successful
// TryAcquire in a deferred cleanup.
func (g *Gate) Release(scope string) {
	key := g.key(scope)

	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.held[key] {
		panic("gate: release of scope not held: " + scope)
	}

	delete(g.held, key)
}

func (g *Gate) key(scope string) string {
	if g.global {
		return ""
	}
	return scope
}
