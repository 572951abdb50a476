package gemini

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	genai "google.golang.org/genai"
)

// GenerateImage requests a single image for the prompt and returns its bytes
// base64-encoded. A response without an image payload is an error.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	resp, err := c.imageFn(ctx, c.cfg.ImageModel, prompt, &genai.GenerateImagesConfig{
		NumberOfImages:   1,
		OutputMIMEType:   "image/png",
		IncludeRAIReason: true,
	})
	if err != nil {
		return "", Classify(err, ContextImage, c.cfg.Language)
	}

	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil || len(resp.GeneratedImages[0].Image.ImageBytes) == 0 {
		return "", Classify(errors.New("image response contained no image payload"), ContextImage, c.cfg.Language)
	}

	log.Debug().Str("model", c.cfg.ImageModel).Msg("image generated")
	return base64.StdEncoding.EncodeToString(resp.GeneratedImages[0].Image.ImageBytes), nil
}

// GenerateVideo starts a long-running video generation and polls it at a
// fixed interval until the operation completes, then returns the result URI
// with the access key appended. The loop has no attempt cap; cancel ctx to
// abandon it.
func (c *Client) GenerateVideo(ctx context.Context, prompt string) (string, error) {
	op, err := c.videoStartFn(ctx, c.cfg.VideoModel, prompt, &genai.GenerateVideosConfig{
		NumberOfVideos: 1,
	})
	if err != nil {
		return "", Classify(err, ContextVideo, c.cfg.Language)
	}

	for op == nil || !op.Done {
		select {
		case <-ctx.Done():
			return "", Classify(ctx.Err(), ContextVideo, c.cfg.Language)
		case <-time.After(c.cfg.PollInterval):
		}

		op, err = c.videoPollFn(ctx, op)
		if err != nil {
			return "", Classify(err, ContextVideo, c.cfg.Language)
		}
		log.Debug().Bool("done", op != nil && op.Done).Msg("polled video operation")
	}

	uri := videoURI(op)
	if uri == "" {
		return "", Classify(errors.New("video operation completed without a result uri"), ContextVideo, c.cfg.Language)
	}

	return appendKey(uri, c.cfg.APIKey), nil
}

func videoURI(op *genai.GenerateVideosOperation) string {
	if op == nil || op.Response == nil || len(op.Response.GeneratedVideos) == 0 {
		return ""
	}
	video := op.Response.GeneratedVideos[0].Video
	if video == nil {
		return ""
	}
	return video.URI
}

// The download URI requires the API key as a query parameter.
func appendKey(uri string, key string) string {
	sep := "?"
	if strings.Contains(uri, "?") {
		sep = "&"
	}
	return uri + sep + "key=" + key
}
