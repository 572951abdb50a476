package gemini

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	genai "google.golang.org/genai"
)

var titlePrefixes = []string{"title:", "título:", "titulo:"}

// GenerateTitle derives a short conversation title from the first user
// message. It is best-effort and never returns an error; any failure or an
// empty cleaned result yields the localized fallback title.
func (c *Client) GenerateTitle(ctx context.Context, firstMessage string) string {
	contents := []*genai.Content{genai.NewContentFromText(firstMessage, genai.RoleUser)}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(titleSystemInstruction(c.cfg.Language), genai.RoleUser),
	}

	resp, err := c.generateFn(ctx, c.cfg.TitleModel, contents, config)
	if err != nil {
		log.Warn().Err(err).Msg("title generation failed, using fallback")
		return FallbackTitle(c.cfg.Language)
	}

	return CleanTitle(resp.Text(), c.cfg.Language)
}

// CleanTitle strips known title prefixes and surrounding quote and markdown
// characters from a raw model response. An empty result maps to the
// localized fallback title.
func CleanTitle(raw string, lang Language) string {
	title := strings.TrimSpace(raw)

	for _, prefix := range titlePrefixes {
		if len(title) >= len(prefix) && strings.EqualFold(title[:len(prefix)], prefix) {
			title = strings.TrimSpace(title[len(prefix):])
			break
		}
	}

	title = strings.Trim(title, "\"'`*#_")
	title = strings.TrimSpace(title)

	if title == "" {
		return FallbackTitle(lang)
	}
	return title
}
