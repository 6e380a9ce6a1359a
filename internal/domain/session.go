package domain

import "time"

// SessionState is the working memory of one (platform, user) conversation.
// It lives only while slot collection is incomplete.
type SessionState struct {
	Platform  Platform
	UserID    string
	Filled    map[string]string
	UpdatedAt time.Time
}

// SessionKey identifies a conversation
type SessionKey struct {
	Platform Platform
	UserID   string
}

// Key returns the composite key of the session
func (s *SessionState) Key() SessionKey {
	return SessionKey{Platform: s.Platform, UserID: s.UserID}
}

// FilledOrEmpty returns the filled slots, never nil
func (s *SessionState) FilledOrEmpty() map[string]string {
	if s == nil || s.Filled == nil {
		return map[string]string{}
	}
	return s.Filled
}
