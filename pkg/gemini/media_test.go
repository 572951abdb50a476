package gemini

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	genai "google.golang.org/genai"
)

func TestGenerateImageEncodesPayload(t *testing.T) {
	raw := []byte{0x89, 0x50, 0x4e, 0x47}
	c := &Client{cfg: Config{ImageModel: "m", Language: LanguageEnglish}}
	c.imageFn = func(ctx context.Context, model string, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error) {
		require.Equal(t, int32(1), config.NumberOfImages)
		return &genai.GenerateImagesResponse{
			GeneratedImages: []*genai.GeneratedImage{
				{Image: &genai.Image{ImageBytes: raw, MIMEType: "image/png"}},
			},
		}, nil
	}

	got, err := c.GenerateImage(context.Background(), "a red bicycle")
	require.NoError(t, err)
	assert.Equal(t, base64.StdEncoding.EncodeToString(raw), got)
}

func TestGenerateImageRejectsEmptyPayload(t *testing.T) {
	c := &Client{cfg: Config{ImageModel: "m", Language: LanguageEnglish}}
	c.imageFn = func(ctx context.Context, model string, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error) {
		return &genai.GenerateImagesResponse{}, nil
	}

	_, err := c.GenerateImage(context.Background(), "anything")
	var ce *ClassifiedError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ContextImage, ce.Context)
}

func TestGenerateImageClassifiesBillingFailure(t *testing.T) {
	c := &Client{cfg: Config{ImageModel: "m", Language: LanguageEnglish}}
	c.imageFn = func(ctx context.Context, model string, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error) {
		return nil, errors.New("Imagen API is only accessible to billed users at this time")
	}

	_, err := c.GenerateImage(context.Background(), "anything")
	assert.True(t, IsBilling(err))
}

func TestGenerateVideoPollsUntilDone(t *testing.T) {
	c := &Client{cfg: Config{VideoModel: "m", Language: LanguageEnglish, APIKey: "secret", PollInterval: time.Millisecond}}
	c.videoStartFn = func(ctx context.Context, model string, prompt string, config *genai.GenerateVideosConfig) (*genai.GenerateVideosOperation, error) {
		return &genai.GenerateVideosOperation{Name: "op-1"}, nil
	}

	polls := 0
	c.videoPollFn = func(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error) {
		polls++
		if polls < 3 {
			return &genai.GenerateVideosOperation{Name: "op-1"}, nil
		}
		return &genai.GenerateVideosOperation{
			Name: "op-1",
			Done: true,
			Response: &genai.GenerateVideosResponse{
				GeneratedVideos: []*genai.GeneratedVideo{
					{Video: &genai.Video{URI: "https://videos.example.com/v1.mp4"}},
				},
			},
		}, nil
	}

	url, err := c.GenerateVideo(context.Background(), "a cat surfing")
	require.NoError(t, err)
	assert.Equal(t, 3, polls)
	assert.Equal(t, "https://videos.example.com/v1.mp4?key=secret", url)
}

func TestGenerateVideoRejectsMissingURI(t *testing.T) {
	c := &Client{cfg: Config{VideoModel: "m", Language: LanguageEnglish, PollInterval: time.Millisecond}}
	c.videoStartFn = func(ctx context.Context, model string, prompt string, config *genai.GenerateVideosConfig) (*genai.GenerateVideosOperation, error) {
		return &genai.GenerateVideosOperation{Name: "op-1", Done: true}, nil
	}

	_, err := c.GenerateVideo(context.Background(), "anything")
	var ce *ClassifiedError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ContextVideo, ce.Context)
}

func TestAppendKeyUsesAmpersandWhenQueryPresent(t *testing.T) {
	assert.Equal(t, "https://x/v.mp4?key=k", appendKey("https://x/v.mp4", "k"))
	assert.Equal(t, "https://x/v.mp4?alt=media&key=k", appendKey("https://x/v.mp4?alt=media", "k"))
}
