package gemini

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	genai "google.golang.org/genai"

	"github.com/robertinsouzahoficial/chatdorobertinsouzah/pkg/conversation"
)

// ImageAttachment is an inline image accompanying a chat prompt.
type ImageAttachment struct {
	Data     []byte
	MIMEType string
}

// Stream is a finite, non-restartable sequence of text fragments. Consumers
// drain Fragments and then check Err; a non-nil Err means the stream was
// aborted and the accumulated text must not be committed.
type Stream struct {
	ch  chan string
	err error
}

// Fragments yields fragments in strict emission order. The channel is closed
// when the stream completes or fails.
func (s *Stream) Fragments() <-chan string {
	return s.ch
}

// Err is only valid after Fragments has been fully drained.
func (s *Stream) Err() error {
	return s.err
}

// ReplayStream builds an already-completed stream from canned fragments.
// Intended for tests and offline fakes.
func ReplayStream(fragments []string, err error) *Stream {
	s := &Stream{ch: make(chan string, len(fragments))}
	for _, f := range fragments {
		s.ch <- f
	}
	s.err = err
	close(s.ch)
	return s
}

// StreamChat sends the prompt with the prior conversation turns and streams
// back the model reply. The attachment, when present, is placed before the
// prompt text in the final turn (multimodal part ordering matters to the
// provider). Empty provider chunks surface no fragment.
func (c *Client) StreamChat(ctx context.Context, prompt string, prior []conversation.Message, attachment *ImageAttachment) *Stream {
	contents := historyToContents(prior)

	parts := []*genai.Part{}
	if attachment != nil {
		parts = append(parts, genai.NewPartFromBytes(attachment.Data, attachment.MIMEType))
	}
	parts = append(parts, genai.NewPartFromText(prompt))
	contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(chatSystemInstruction(c.cfg.Language), genai.RoleUser),
	}

	s := &Stream{ch: make(chan string)}
	go func() {
		defer close(s.ch)
		for chunk, err := range c.streamFn(ctx, c.cfg.ChatModel, contents, config) {
			if err != nil {
				if errors.Is(err, io.EOF) {
					break
				}
				s.err = Classify(err, ContextChat, c.cfg.Language)
				return
			}
			delta := chunk.Text()
			if delta == "" {
				continue
			}
			select {
			case s.ch <- delta:
			case <-ctx.Done():
				s.err = Classify(ctx.Err(), ContextChat, c.cfg.Language)
				return
			}
		}
		log.Debug().Str("model", c.cfg.ChatModel).Msg("chat stream complete")
	}()
	return s
}

func historyToContents(msgs []conversation.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		if m.Text == "" {
			continue
		}
		contents = append(contents, genai.NewContentFromText(m.Text, genai.Role(m.Sender)))
	}
	return contents
}
