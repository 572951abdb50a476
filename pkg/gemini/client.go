// Package gemini normalizes calls to the Gemini API family: streamed chat,
// one-shot image generation, polled video generation, and best-effort
// conversation titling. Every provider failure is mapped onto a fixed error
// taxonomy before it leaves this package.
package gemini

import (
	"context"
	"iter"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	genai "google.golang.org/genai"
)

const (
	DefaultChatModel  = "gemini-2.5-flash"
	DefaultImageModel = "imagen-3.0-generate-002"
	DefaultVideoModel = "veo-2.0-generate-001"
	DefaultTitleModel = "gemini-2.5-flash-lite"

	DefaultPollInterval = 10 * time.Second
)

type Config struct {
	APIKey     string
	ChatModel  string
	ImageModel string
	VideoModel string
	TitleModel string
	Language   Language

	// PollInterval is the fixed wait between video operation status checks.
	PollInterval time.Duration
}

func (c *Config) applyDefaults() {
	if c.ChatModel == "" {
		c.ChatModel = DefaultChatModel
	}
	if c.ImageModel == "" {
		c.ImageModel = DefaultImageModel
	}
	if c.VideoModel == "" {
		c.VideoModel = DefaultVideoModel
	}
	if c.TitleModel == "" {
		c.TitleModel = DefaultTitleModel
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	c.Language = c.Language.normalize()
}

// Client talks to the Gemini API. The provider calls are held as function
// values so tests can substitute canned responses without a network.
type Client struct {
	cfg Config

	streamFn     func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error]
	generateFn   func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	imageFn      func(ctx context.Context, model string, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error)
	videoStartFn func(ctx context.Context, model string, prompt string, config *genai.GenerateVideosConfig) (*genai.GenerateVideosOperation, error)
	videoPollFn  func(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error)
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: API key is required")
	}
	cfg.applyDefaults()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create gemini client")
	}

	log.Debug().
		Str("chat_model", cfg.ChatModel).
		Str("image_model", cfg.ImageModel).
		Str("video_model", cfg.VideoModel).
		Str("title_model", cfg.TitleModel).
		Msg("gemini client ready")

	return &Client{
		cfg:        cfg,
		streamFn:   client.Models.GenerateContentStream,
		generateFn: client.Models.GenerateContent,
		imageFn:    client.Models.GenerateImages,
		videoStartFn: func(ctx context.Context, model string, prompt string, config *genai.GenerateVideosConfig) (*genai.GenerateVideosOperation, error) {
			return client.Models.GenerateVideos(ctx, model, prompt, nil, config)
		},
		videoPollFn: func(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error) {
			return client.Operations.GetVideosOperation(ctx, op, nil)
		},
	}, nil
}

func (c *Client) Language() Language {
	return c.cfg.Language
}
