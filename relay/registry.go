// Package relay implements the presence-aware delivery engine: who is
// online, where each message goes, and how its delivery status advances.
package relay

import (
	"sync"

	"daneth-messenger/contract"
)

// Registry maps identity ids to their single live sink. Last connection
// wins: a new registration replaces the previous sink without closing
// it, the superseded connection is responsible for its own teardown.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]contract.EventSink
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]contract.EventSink)}
}

func (r *Registry) Register(identityID string, sink contract.EventSink) {
	if identityID == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[identityID] = sink
}

// Unregister removes the entry only if sink still owns it. A late
// disconnect from a superseded connection must not evict the entry a
// newer connection installed; the check and the delete are one
// critical section for that reason.
func (r *Registry) Unregister(identityID string, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.sessions[identityID]; ok && current == sink {
		delete(r.sessions, identityID)
	}
}

func (r *Registry) Lookup(identityID string) (contract.EventSink, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sink, ok := r.sessions[identityID]
	return sink, ok
}

// Others snapshots every registered sink except the excluded identity's.
// Used by the broadcast fallback path.
func (r *Registry) Others(excludeID string) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var sinks []contract.EventSink
	for id, sink := range r.sessions {
		if id == excludeID {
			continue
		}
		sinks = append(sinks, sink)
	}
	return sinks
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
