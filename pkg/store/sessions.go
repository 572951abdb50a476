package store

import (
	"encoding/json"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/robertinsouzahoficial/chatdorobertinsouzah/pkg/conversation"
)

const sessionsFile = "sessions.json"

// SessionStore owns the canonical session collection. Every mutation
// read-modify-writes the whole collection; callers must treat the returned
// slice as the new source of truth.
type SessionStore struct {
	path         string
	defaultTitle string
}

func NewSessionStore(dir string, defaultTitle string) *SessionStore {
	return &SessionStore{
		path:         dataPath(ensureDir(dir), sessionsFile),
		defaultTitle: defaultTitle,
	}
}

// Load returns all sessions, newest first. A missing file or a corrupted
// record yields an empty collection, never an error.
func (s *SessionStore) Load() []*conversation.ChatSession {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", s.path).Msg("failed to read sessions file")
		}
		return []*conversation.ChatSession{}
	}

	var sessions []*conversation.ChatSession
	if err := json.Unmarshal(data, &sessions); err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("failed to parse sessions file, starting empty")
		return []*conversation.ChatSession{}
	}
	if sessions == nil {
		sessions = []*conversation.ChatSession{}
	}
	return sessions
}

// Save serializes the whole collection atomically. Failures are logged and
// swallowed; the previous on-disk state survives.
func (s *SessionStore) Save(sessions []*conversation.ChatSession) {
	data, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal sessions")
		return
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		log.Error().Err(err).Str("path", s.path).Msg("failed to write sessions file")
	}
}

// Create makes a fresh session with the default title and an empty
// transcript, inserts it at the head of the collection and persists
// immediately. It returns the new session and the updated collection.
func (s *SessionStore) Create() (*conversation.ChatSession, []*conversation.ChatSession) {
	sessions := s.Load()

	session := conversation.NewSession(s.defaultTitle)
	for collides(session.ID, sessions) {
		session = conversation.NewSession(s.defaultTitle)
	}

	sessions = append([]*conversation.ChatSession{session}, sessions...)
	s.Save(sessions)
	return session, sessions
}

// UpdateTitle sets the title of the session with the given id. Unknown ids
// are a logged no-op (the session may have been deleted while a title was
// being generated).
func (s *SessionStore) UpdateTitle(id string, title string) []*conversation.ChatSession {
	sessions := s.Load()
	found := false
	for _, session := range sessions {
		if session.ID == id {
			session.Title = title
			found = true
			break
		}
	}
	if !found {
		log.Debug().Str("session_id", id).Msg("title update for unknown session, skipping")
		return sessions
	}
	s.Save(sessions)
	return sessions
}

// Delete removes the session with the given id.
func (s *SessionStore) Delete(id string) []*conversation.ChatSession {
	sessions := s.Load()
	kept := sessions[:0]
	for _, session := range sessions {
		if session.ID != id {
			kept = append(kept, session)
		}
	}
	if len(kept) == len(sessions) {
		return sessions
	}
	s.Save(kept)
	return kept
}

// Clear replaces the entire collection with a single fresh empty session.
func (s *SessionStore) Clear() (*conversation.ChatSession, []*conversation.ChatSession) {
	session := conversation.NewSession(s.defaultTitle)
	sessions := []*conversation.ChatSession{session}
	s.Save(sessions)
	return session, sessions
}

func collides(id string, sessions []*conversation.ChatSession) bool {
	for _, session := range sessions {
		if session.ID == id {
			return true
		}
	}
	return false
}
