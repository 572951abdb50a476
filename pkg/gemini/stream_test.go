package gemini

import (
	"context"
	"iter"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	genai "google.golang.org/genai"

	"github.com/robertinsouzahoficial/chatdorobertinsouzah/pkg/conversation"
)

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: text}}}},
		},
	}
}

func cannedStream(fragments []string, err error) func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error] {
	return func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error] {
		return func(yield func(*genai.GenerateContentResponse, error) bool) {
			for _, f := range fragments {
				if !yield(textResponse(f), nil) {
					return
				}
			}
			if err != nil {
				yield(nil, err)
			}
		}
	}
}

func drain(s *Stream) []string {
	var got []string
	for f := range s.Fragments() {
		got = append(got, f)
	}
	return got
}

func TestStreamChatYieldsFragmentsInOrder(t *testing.T) {
	c := &Client{cfg: Config{ChatModel: "m", Language: LanguageEnglish}}
	c.streamFn = cannedStream([]string{"Hi", " there"}, nil)

	s := c.StreamChat(context.Background(), "hello", nil, nil)
	got := drain(s)

	require.NoError(t, s.Err())
	assert.Equal(t, []string{"Hi", " there"}, got)
	assert.Equal(t, "Hi there", strings.Join(got, ""))
}

func TestStreamChatSkipsEmptyChunks(t *testing.T) {
	c := &Client{cfg: Config{ChatModel: "m", Language: LanguageEnglish}}
	c.streamFn = cannedStream([]string{"Hi", "", " there"}, nil)

	s := c.StreamChat(context.Background(), "hello", nil, nil)

	assert.Equal(t, []string{"Hi", " there"}, drain(s))
	assert.NoError(t, s.Err())
}

func TestStreamChatClassifiesFailure(t *testing.T) {
	c := &Client{cfg: Config{ChatModel: "m", Language: LanguageEnglish}}
	c.streamFn = cannedStream([]string{"partial"}, errors.New("Quota exceeded"))

	s := c.StreamChat(context.Background(), "hello", nil, nil)
	drain(s)

	var ce *ClassifiedError
	require.ErrorAs(t, s.Err(), &ce)
	assert.Equal(t, KindQuotaExceeded, ce.Kind)
	assert.Equal(t, ContextChat, ce.Context)
}

func TestStreamChatPlacesAttachmentBeforePromptText(t *testing.T) {
	var captured []*genai.Content
	c := &Client{cfg: Config{ChatModel: "m", Language: LanguageEnglish}}
	c.streamFn = func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error] {
		captured = contents
		return cannedStream([]string{"ok"}, nil)(ctx, model, contents, config)
	}

	prior := []conversation.Message{
		conversation.NewUserMessage("earlier question"),
		conversation.NewModelMessage("earlier answer"),
	}
	attachment := &ImageAttachment{Data: []byte{0x89, 0x50}, MIMEType: "image/png"}
	s := c.StreamChat(context.Background(), "what is in this picture?", prior, attachment)
	drain(s)
	require.NoError(t, s.Err())

	require.Len(t, captured, 3)
	assert.Equal(t, "user", string(captured[0].Role))
	assert.Equal(t, "model", string(captured[1].Role))

	last := captured[2]
	require.Len(t, last.Parts, 2)
	require.NotNil(t, last.Parts[0].InlineData)
	assert.Equal(t, "image/png", last.Parts[0].InlineData.MIMEType)
	assert.Equal(t, "what is in this picture?", last.Parts[1].Text)
}

func TestReplayStream(t *testing.T) {
	s := ReplayStream([]string{"a", "b"}, nil)
	assert.Equal(t, []string{"a", "b"}, drain(s))
	assert.NoError(t, s.Err())

	failed := ReplayStream(nil, errors.New("boom"))
	assert.Empty(t, drain(failed))
	assert.Error(t, failed.Err())
}
