package conversation

import (
	"github.com/google/uuid"
)

// ChatSession is one conversation: a stable id, a user-visible title and an
// ordered transcript. Ids are assigned at creation and never reused.
type ChatSession struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Messages []Message `json:"messages"`
}

func NewSession(title string) *ChatSession {
	return &ChatSession{
		ID:       uuid.NewString(),
		Title:    title,
		Messages: []Message{},
	}
}

// Append adds messages to the end of the transcript.
func (s *ChatSession) Append(messages ...Message) {
	s.Messages = append(s.Messages, messages...)
}

// FirstUserMessage returns the earliest user message, if any.
func (s *ChatSession) FirstUserMessage() (Message, bool) {
	for _, m := range s.Messages {
		if m.Sender == SenderUser {
			return m, true
		}
	}
	return Message{}, false
}

// Clone returns a deep copy. Turn handling snapshots the transcript before
// calling the provider so a concurrent title update cannot mutate history
// mid-request.
func (s *ChatSession) Clone() *ChatSession {
	messages := make([]Message, len(s.Messages))
	copy(messages, s.Messages)
	return &ChatSession{ID: s.ID, Title: s.Title, Messages: messages}
}
