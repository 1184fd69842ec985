// Package registry implements the process-wide commitment registry: an
// authoritative mapping from (tokenId, commitment bytes) to the note it
// represents, with single-use consumption semantics.
package registry

import (
	"sync"

	"github.com/sip-protocol/private-token-transfer/pkg/ids"
	"github.com/sip-protocol/private-token-transfer/pkg/note"
)

// Registry is a process-wide mapping tokenId -> (commitment bytes -> Note).
// All four operations are safe for concurrent use; composite
// check-then-consume sequences are the caller's responsibility to
// serialize (see the transfer handler's step 6 defensive remove).
type Registry struct {
	mu    sync.RWMutex
	notes map[ids.TokenID]map[string]*note.Note
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		notes: make(map[ids.TokenID]map[string]*note.Note),
	}
}

// Put inserts or overwrites the entry at (note.TokenID, note.Commitment).
func (r *Registry) Put(n *note.Note) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inner, ok := r.notes[n.TokenID]
	if !ok {
		inner = make(map[string]*note.Note)
		r.notes[n.TokenID] = inner
	}
	inner[string(n.Commitment)] = n
}

// Get returns the note at (tokenID, commitment), or (nil, false) if absent.
func (r *Registry) Get(tokenID ids.TokenID, commitment []byte) (*note.Note, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inner, ok := r.notes[tokenID]
	if !ok {
		return nil, false
	}
	n, ok := inner[string(commitment)]
	return n, ok
}

// Remove deletes and returns the entry at (tokenID, commitment), or
// (nil, false) if it was already absent. When the inner mapping becomes
// empty, the outer entry for tokenID is dropped too.
func (r *Registry) Remove(tokenID ids.TokenID, commitment []byte) (*note.Note, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inner, ok := r.notes[tokenID]
	if !ok {
		return nil, false
	}
	key := string(commitment)
	n, ok := inner[key]
	if !ok {
		return nil, false
	}
	delete(inner, key)
	if len(inner) == 0 {
		delete(r.notes, tokenID)
	}
	return n, true
}

// Clear removes all entries. Intended for test isolation.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = make(map[ids.TokenID]map[string]*note.Note)
}
