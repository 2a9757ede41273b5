package audit

// TrackedIDs reports how many transaction IDs the subscriber remembers.
func (s *Subscriber) TrackedIDs() int {
	s.seen.mu.Lock()
	defer s.seen.mu.Unlock()
	return len(s.seen.at)
}
