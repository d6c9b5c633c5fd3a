package registry

import (
	"sync"
	"time"
)

// SessionRecord tracks one active conferencing session. The registry hands
// out copies; only the registry itself mutates the stored records.
type SessionRecord struct {
	Id                  string
	Password            string
	SdkJwt              string
	BotName             string
	Participants        []string
	ConversationHistory []string
	IsActive            bool
	LastActivity        time.Time
}

// SessionRegistry is the in-memory mapping from session id to session
// record. Records are created on join, consulted and mutated on every audio
// event and swept periodically by the janitor. All access is guarded by a
// RWMutex since handlers and the janitor run on separate goroutines.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*SessionRecord
}

func New() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*SessionRecord),
	}
}

// Create inserts a record for the given session id, replacing any prior
// record for the same id. It always succeeds and returns a copy of the new
// record.
func (r *SessionRegistry) Create(id, password, sdkJwt, botName string) *SessionRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := &SessionRecord{
		Id:                  id,
		Password:            password,
		SdkJwt:              sdkJwt,
		BotName:             botName,
		Participants:        []string{},
		ConversationHistory: []string{},
		IsActive:            false,
		LastActivity:        time.Now(),
	}
	r.sessions[id] = rec

	return copyRecord(rec)
}

// Get returns a copy of the record for id. Absence is not an error; callers
// surface it as a not-found condition. A record idle longer than
// maxIdle behaves as absent: stale records must not answer new requests
// even before the janitor removes them.
func (r *SessionRegistry) Get(id string, maxIdle time.Duration) (*SessionRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	if time.Since(rec.LastActivity) > maxIdle {
		return nil, false
	}
	return copyRecord(rec), true
}

// Touch appends transcript to the session's conversation history and
// refreshes its activity timestamp. Touching an absent id is a silent no-op:
// stale or forged ids never crash the pipeline.
func (r *SessionRegistry) Touch(id, transcript string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.sessions[id]
	if !ok {
		return
	}
	rec.ConversationHistory = append(rec.ConversationHistory, transcript)
	rec.LastActivity = time.Now()
}

// SetActive flips the live-transport flag for the session. No-op for
// absent ids.
func (r *SessionRegistry) SetActive(id string, active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec, ok := r.sessions[id]; ok {
		rec.IsActive = active
	}
}

// RecentHistory returns up to the last n history entries for id, oldest
// first. Used to prime the reply-generation context.
func (r *SessionRegistry) RecentHistory(id string, n int) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.sessions[id]
	if !ok || n <= 0 {
		return nil
	}
	history := rec.ConversationHistory
	if len(history) > n {
		history = history[len(history)-n:]
	}
	out := make([]string, len(history))
	copy(out, history)
	return out
}

// Remove deletes the record for id. Removing an absent id is not an error.
func (r *SessionRegistry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Sweep removes every record idle longer than maxIdle and returns the
// removed session ids.
func (r *SessionRegistry) Sweep(maxIdle time.Duration) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed []string
	now := time.Now()
	for id, rec := range r.sessions {
		if now.Sub(rec.LastActivity) > maxIdle {
			delete(r.sessions, id)
			removed = append(removed, id)
		}
	}
	return removed
}

// Size returns the number of stored records.
func (r *SessionRegistry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func copyRecord(rec *SessionRecord) *SessionRecord {
	c := *rec
	c.Participants = append([]string{}, rec.Participants...)
	c.ConversationHistory = append([]string{}, rec.ConversationHistory...)
	return &c
}
