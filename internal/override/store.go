package override

import "sync"

// Record remembers the one override that can be reverted: which key was
// written, where, on whose behalf, and what was there before. PriorFound
// distinguishes "prior value was empty" from "key did not exist".
type Record struct {
	SessionID  string
	Path       string
	Section    string
	Key        string
	Prior      string
	PriorFound bool
}

// Store holds at most one Record. Exactly one override is active at a time;
// a new Apply silently supersedes an unreverted one. Tests instantiate their
// own store instead of sharing process state.
type Store struct {
	mu  sync.Mutex
	rec *Record
}

func NewStore() *Store {
	return &Store{}
}

// Replace installs a new record, discarding any previous one.
func (s *Store) Replace(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = &rec
}

// Get returns the current record, if any.
func (s *Store) Get() (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rec == nil {
		return Record{}, false
	}
	return *s.rec, true
}

// Clear drops the current record.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = nil
}
