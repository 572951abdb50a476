package store

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	historyFile = "search_history.json"

	// MaxSearchHistory caps the number of remembered queries; the oldest
	// entries are dropped on overflow.
	MaxSearchHistory = 100
)

// SearchHistoryStore keeps a most-recent-first list of past queries,
// case-insensitively deduplicated and capped at MaxSearchHistory entries.
type SearchHistoryStore struct {
	path string
}

func NewSearchHistoryStore(dir string) *SearchHistoryStore {
	return &SearchHistoryStore{path: dataPath(ensureDir(dir), historyFile)}
}

// Get returns the remembered queries, most recent first.
func (s *SearchHistoryStore) Get() []string {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", s.path).Msg("failed to read search history")
		}
		return []string{}
	}

	var entries []string
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("failed to parse search history, starting empty")
		return []string{}
	}
	if entries == nil {
		entries = []string{}
	}
	return entries
}

// Add records a query at the front of the history. Empty queries are
// ignored; an existing case-insensitive match is removed first so the latest
// casing wins and moves to the front.
func (s *SearchHistoryStore) Add(query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		return
	}

	entries := s.Get()
	kept := make([]string, 0, len(entries)+1)
	kept = append(kept, query)
	for _, entry := range entries {
		if strings.EqualFold(entry, query) {
			continue
		}
		kept = append(kept, entry)
	}
	if len(kept) > MaxSearchHistory {
		kept = kept[:MaxSearchHistory]
	}
	s.save(kept)
}

// Delete removes an exact-match entry.
func (s *SearchHistoryStore) Delete(query string) {
	entries := s.Get()
	kept := entries[:0]
	for _, entry := range entries {
		if entry != query {
			kept = append(kept, entry)
		}
	}
	if len(kept) == len(entries) {
		return
	}
	s.save(kept)
}

// Clear drops the whole history.
func (s *SearchHistoryStore) Clear() {
	s.save([]string{})
}

func (s *SearchHistoryStore) save(entries []string) {
	data, err := json.Marshal(entries)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal search history")
		return
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		log.Error().Err(err).Str("path", s.path).Msg("failed to write search history")
	}
}
