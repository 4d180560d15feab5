package client

import "sync"

// Session holds the credentials of the signed-in user. It is shared by
// reference so the 401 interceptor can clear it for every caller.
type Session struct {
	mu     sync.RWMutex
	token  string
	userID string
	role   string
}

func (s *Session) Set(token, userID, role string) {
	s.mu.Lock()
	s.token, s.userID, s.role = token, userID, role
	s.mu.Unlock()
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) Role() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

func (s *Session) SignedIn() bool {
	return s.Token() != ""
}

func (s *Session) Clear() {
	s.Set("", "", "")
}
