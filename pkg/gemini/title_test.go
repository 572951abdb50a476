package gemini

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	genai "google.golang.org/genai"
)

func TestCleanTitle(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"Title: Trip to Japan", "Trip to Japan"},
		{"título: Viagem ao Japão", "Viagem ao Japão"},
		{"\"Weekend Plans\"", "Weekend Plans"},
		{"**Grocery List**", "Grocery List"},
		{"  # Notes  ", "Notes"},
		{"Plain title", "Plain title"},
		{"", "New Chat"},
		{"  \"\"  ", "New Chat"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, CleanTitle(tc.raw, LanguageEnglish), "raw=%q", tc.raw)
	}
}

func TestCleanTitleFallbackIsLocalized(t *testing.T) {
	assert.Equal(t, "Novo Chat", CleanTitle("", LanguagePortuguese))
}

func TestGenerateTitleCleansProviderResponse(t *testing.T) {
	c := &Client{cfg: Config{Language: LanguageEnglish, TitleModel: "m"}}
	c.generateFn = func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		return textResponse("Title: Trip to Japan"), nil
	}

	assert.Equal(t, "Trip to Japan", c.GenerateTitle(context.Background(), "Plan a trip to Japan"))
}

func TestGenerateTitleNeverFails(t *testing.T) {
	c := &Client{cfg: Config{Language: LanguagePortuguese, TitleModel: "m"}}
	c.generateFn = func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		return nil, errors.New("quota exceeded")
	}

	assert.Equal(t, "Novo Chat", c.GenerateTitle(context.Background(), "Oi"))
}
