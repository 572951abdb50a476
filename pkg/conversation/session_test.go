package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionHasFreshIDAndEmptyTranscript(t *testing.T) {
	a := NewSession("New Chat")
	b := NewSession("New Chat")

	require.NotEmpty(t, a.ID)
	require.NotEqual(t, a.ID, b.ID)
	assert.Empty(t, a.Messages)
	assert.Equal(t, "New Chat", a.Title)
}

func TestFirstUserMessage(t *testing.T) {
	s := NewSession("t")
	_, ok := s.FirstUserMessage()
	require.False(t, ok)

	s.Append(NewModelMessage("hello"), NewUserMessage("hi"), NewUserMessage("again"))
	m, ok := s.FirstUserMessage()
	require.True(t, ok)
	assert.Equal(t, "hi", m.Text)
}

func TestCloneIsIndependent(t *testing.T) {
	s := NewSession("t")
	s.Append(NewUserMessage("one"))

	c := s.Clone()
	c.Append(NewModelMessage("two"))
	c.Title = "changed"

	assert.Len(t, s.Messages, 1)
	assert.Equal(t, "t", s.Title)
}
