package interview

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Registry holds the live sessions in process memory, keyed by an opaque ID
// stored in the browser's HTTP session. Nothing here is durable: a process
// restart discards every interview, which is acceptable since transcript
// durability is out of scope.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	oracle   Oracle
	logger   *slog.Logger
}

// NewRegistry creates an empty registry whose sessions talk to the given oracle.
func NewRegistry(oracle Oracle, logger *slog.Logger) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		oracle:   oracle,
		logger:   logger,
	}
}

// Get returns the session for the ID, or nil when none exists.
func (r *Registry) Get(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[id]
}

// Create registers a fresh uninitialized session and returns its ID.
func (r *Registry) Create() (string, *Session) {
	id := uuid.NewString()
	session := NewSession(r.oracle, r.logger)
	r.mu.Lock()
	r.sessions[id] = session
	r.mu.Unlock()
	return id, session
}

// Delete discards the session for the ID. Deleting an unknown ID is a no-op.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}
