package dialog

import "sync"

// Session is the dialogue state of one chat: the step it is waiting on and
// the fields collected so far. It exists only while a flow is in progress.
type Session struct {
	State  State
	Fields map[string]string
}

func newSession(state State) *Session {
	return &Session{State: state, Fields: make(map[string]string)}
}

// Store maps a chat id to its in-progress session. Idle chats have no entry,
// which is what keeps the "idle implies no accumulated fields" invariant
// trivially true. Implementations must be safe for concurrent use.
type Store interface {
	Get(id int64) *Session
	Put(id int64, s *Session)
	Delete(id int64)
}

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewMemoryStore returns the in-process session directory used for a
// single-process deployment.
func NewMemoryStore() Store {
	return &memoryStore{sessions: make(map[int64]*Session)}
}

func (m *memoryStore) Get(id int64) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id]
}

func (m *memoryStore) Put(id int64, s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = s
}

func (m *memoryStore) Delete(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}
