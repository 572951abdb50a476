package store

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHistoryStore(t *testing.T) *SearchHistoryStore {
	t.Helper()
	return NewSearchHistoryStore(t.TempDir())
}

func TestAddPrependsAndPersists(t *testing.T) {
	s := newHistoryStore(t)

	s.Add("first")
	s.Add("second")

	assert.Equal(t, []string{"second", "first"}, s.Get())
}

func TestAddIgnoresEmptyQuery(t *testing.T) {
	s := newHistoryStore(t)

	s.Add("")
	s.Add("   ")

	assert.Empty(t, s.Get())
}

func TestAddDedupesCaseInsensitivelyLatestCasingWins(t *testing.T) {
	s := newHistoryStore(t)

	s.Add("Cat")
	s.Add("dog")
	s.Add("cat")

	assert.Equal(t, []string{"cat", "dog"}, s.Get())
}

func TestAddCapsAtMaxEntries(t *testing.T) {
	s := newHistoryStore(t)

	for i := 0; i < MaxSearchHistory; i++ {
		s.Add(fmt.Sprintf("query %d", i))
	}
	require.Len(t, s.Get(), MaxSearchHistory)

	s.Add("one more")

	entries := s.Get()
	require.Len(t, entries, MaxSearchHistory)
	assert.Equal(t, "one more", entries[0])
	// the oldest entry fell off
	assert.NotContains(t, entries, "query 0")
	assert.Contains(t, entries, "query 1")
}

func TestDeleteIsExactMatch(t *testing.T) {
	s := newHistoryStore(t)
	s.Add("Cat")
	s.Add("dog")

	s.Delete("cat") // wrong casing, no-op
	assert.Equal(t, []string{"dog", "Cat"}, s.Get())

	s.Delete("Cat")
	assert.Equal(t, []string{"dog"}, s.Get())
}

func TestClear(t *testing.T) {
	s := newHistoryStore(t)
	s.Add("something")

	s.Clear()
	assert.Empty(t, s.Get())
}
