package conversation

import "strings"

type Sender string

const (
	SenderUser  Sender = "user"
	SenderModel Sender = "model"
)

// Message is a single transcript entry. The transcript is append-only: a
// failed turn appends an error-shaped model message instead of rolling back.
type Message struct {
	Sender   Sender `json:"sender"`
	Text     string `json:"text"`
	ImageURL string `json:"imageUrl,omitempty"`
	VideoURL string `json:"videoUrl,omitempty"`
}

func NewUserMessage(text string) Message {
	return Message{Sender: SenderUser, Text: text}
}

func NewModelMessage(text string) Message {
	return Message{Sender: SenderModel, Text: text}
}

// IsEmpty reports whether the message carries no content at all.
func (m Message) IsEmpty() bool {
	return strings.TrimSpace(m.Text) == "" && m.ImageURL == "" && m.VideoURL == ""
}
