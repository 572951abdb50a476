// Package chat drives one conversational turn end-to-end: it builds the
// outgoing user message, consumes the streamed or polled provider response,
// keeps the persisted transcript consistent under success and failure, and
// publishes turn events for live observers.
package chat

import (
	"context"
	"encoding/base64"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/robertinsouzahoficial/chatdorobertinsouzah/pkg/conversation"
	"github.com/robertinsouzahoficial/chatdorobertinsouzah/pkg/events"
	"github.com/robertinsouzahoficial/chatdorobertinsouzah/pkg/gemini"
	"github.com/robertinsouzahoficial/chatdorobertinsouzah/pkg/store"
)

var (
	ErrNoActiveSession     = errors.New("no active session")
	ErrTurnInProgress      = errors.New("a turn is already in progress for this session")
	ErrEmptyTurn           = errors.New("nothing to send")
	ErrUnknownSession      = errors.New("unknown session")
	ErrImageGenUnavailable = errors.New("image generation is unavailable")
	ErrVideoGenUnavailable = errors.New("video generation is unavailable")
)

// Generator is the provider surface the controller needs. *gemini.Client
// satisfies it; tests substitute an offline fake.
type Generator interface {
	StreamChat(ctx context.Context, prompt string, prior []conversation.Message, attachment *gemini.ImageAttachment) *gemini.Stream
	GenerateImage(ctx context.Context, prompt string) (string, error)
	GenerateVideo(ctx context.Context, prompt string) (string, error)
	GenerateTitle(ctx context.Context, firstMessage string) string
}

type Controller struct {
	mu       sync.Mutex
	sessions []*conversation.ChatSession
	active   string

	store     *store.SessionStore
	history   *store.SearchHistoryStore
	generator Generator
	features  *Features
	sinks     []events.EventSink
	language  gemini.Language

	// session id -> in-progress flag, claimed by compare-and-swap so two
	// back-to-back sends cannot both win the same turn
	turns sync.Map
}

type Option func(*Controller)

func WithLanguage(lang gemini.Language) Option {
	return func(c *Controller) {
		c.language = lang
	}
}

func WithEventSink(sink events.EventSink) Option {
	return func(c *Controller) {
		c.sinks = append(c.sinks, sink)
	}
}

func WithFeatures(features *Features) Option {
	return func(c *Controller) {
		c.features = features
	}
}

// NewController loads the persisted session collection and ensures at least
// one session exists; the head of the collection becomes active.
func NewController(sessions *store.SessionStore, history *store.SearchHistoryStore, generator Generator, options ...Option) *Controller {
	c := &Controller{
		store:     sessions,
		history:   history,
		generator: generator,
		features:  NewFeatures(),
		language:  gemini.LanguageEnglish,
	}
	for _, o := range options {
		o(c)
	}

	c.sessions = sessions.Load()
	if len(c.sessions) == 0 {
		session, all := sessions.Create()
		c.sessions = all
		c.active = session.ID
	} else {
		c.active = c.sessions[0].ID
	}

	log.Debug().Int("sessions", len(c.sessions)).Str("active", c.active).Msg("controller ready")
	return c
}

func (c *Controller) Features() *Features {
	return c.features
}

// Sessions returns a snapshot of the collection, newest first.
func (c *Controller) Sessions() []*conversation.ChatSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*conversation.ChatSession, len(c.sessions))
	for i, s := range c.sessions {
		out[i] = s.Clone()
	}
	return out
}

// ActiveSession returns a snapshot of the active session, or nil.
func (c *Controller) ActiveSession() *conversation.ChatSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s := c.findLocked(c.active); s != nil {
		return s.Clone()
	}
	return nil
}

func (c *Controller) SelectSession(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.findLocked(id) == nil {
		return ErrUnknownSession
	}
	c.active = id
	return nil
}

func (c *Controller) NewSession() *conversation.ChatSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	session, all := c.store.Create()
	c.sessions = all
	c.active = session.ID
	return session.Clone()
}

// DeleteSession removes a session. Deleting the active one falls back to
// the new head of the collection; deleting the last one recreates a fresh
// empty session so there is always something to talk in.
func (c *Controller) DeleteSession(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions = c.store.Delete(id)

	if len(c.sessions) == 0 {
		session, all := c.store.Create()
		c.sessions = all
		c.active = session.ID
		return
	}
	if c.active == id {
		c.active = c.sessions[0].ID
	}
}

// ClearAll replaces the whole collection with one new empty session.
func (c *Controller) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	session, all := c.store.Clear()
	c.sessions = all
	c.active = session.ID
}

// SendMessage runs one chat turn: append the user message, stream the model
// reply fragment by fragment, and commit the accumulated text. Provider
// failures do not surface as errors; they become an error-shaped transcript
// message. The returned error only reports turn rejection.
func (c *Controller) SendMessage(ctx context.Context, text string, attachment *gemini.ImageAttachment) error {
	prompt := strings.TrimSpace(text)
	if prompt == "" {
		if attachment == nil {
			return ErrEmptyTurn
		}
		prompt = describeImagePrompt(c.language)
	}

	sessionID, release, err := c.beginTurn()
	if err != nil {
		return err
	}
	defer release()

	prior := c.openUserTurn(sessionID, prompt, strings.TrimSpace(text), attachment)

	meta := events.EventMetadata{ID: uuid.New(), SessionID: sessionID}
	c.publish(events.NewStartEvent(meta))

	stream := c.generator.StreamChat(ctx, prompt, prior, attachment)
	completion := ""
	for fragment := range stream.Fragments() {
		completion += fragment
		c.publish(events.NewPartialCompletionEvent(meta, fragment, completion))
	}

	if err := stream.Err(); err != nil {
		c.publish(events.NewErrorEvent(meta, err))
		c.appendModelMessage(sessionID, conversation.NewModelMessage(errorPrefix+err.Error()))
		return nil
	}

	// an all-empty stream commits nothing
	if completion != "" {
		c.appendModelMessage(sessionID, conversation.NewModelMessage(completion))
	}
	c.publish(events.NewFinalEvent(meta, completion))
	return nil
}

// GenerateImage runs one image turn. A billing-classified failure disables
// image generation for the rest of the process.
func (c *Controller) GenerateImage(ctx context.Context, prompt string) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return ErrEmptyTurn
	}
	if !c.features.ImageGenAvailable() {
		return ErrImageGenUnavailable
	}

	sessionID, release, err := c.beginTurn()
	if err != nil {
		return err
	}
	defer release()

	c.openUserTurn(sessionID, prompt, prompt, nil)

	meta := events.EventMetadata{ID: uuid.New(), SessionID: sessionID}
	c.publish(events.NewStartEvent(meta))

	data, err := c.generator.GenerateImage(ctx, prompt)
	if err != nil {
		if gemini.IsBilling(err) {
			c.features.DisableImageGen()
		}
		c.publish(events.NewErrorEvent(meta, err))
		c.appendModelMessage(sessionID, conversation.NewModelMessage(errorPrefix+err.Error()))
		return nil
	}

	caption := imageCaption(c.language)
	message := conversation.NewModelMessage(caption)
	message.ImageURL = "data:image/png;base64," + data
	c.appendModelMessage(sessionID, message)
	c.publish(events.NewFinalEvent(meta, caption))
	return nil
}

// GenerateVideo runs one video turn. A pending placeholder message is
// persisted before polling starts so progress survives a restart; the final
// result is appended after it, never in its place.
func (c *Controller) GenerateVideo(ctx context.Context, prompt string) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return ErrEmptyTurn
	}
	if !c.features.VideoGenAvailable() {
		return ErrVideoGenUnavailable
	}

	sessionID, release, err := c.beginTurn()
	if err != nil {
		return err
	}
	defer release()

	c.openUserTurn(sessionID, prompt, prompt, nil)

	meta := events.EventMetadata{ID: uuid.New(), SessionID: sessionID}
	c.publish(events.NewStartEvent(meta))

	pending := pendingVideoText(c.language)
	c.appendModelMessage(sessionID, conversation.NewModelMessage(pending))
	c.publish(events.NewStatusEvent(meta, pending))

	url, err := c.generator.GenerateVideo(ctx, prompt)
	if err != nil {
		if gemini.IsBilling(err) {
			c.features.DisableVideoGen()
		}
		c.publish(events.NewErrorEvent(meta, err))
		c.appendModelMessage(sessionID, conversation.NewModelMessage(errorPrefix+err.Error()))
		return nil
	}

	caption := videoCaption(c.language)
	message := conversation.NewModelMessage(caption)
	message.VideoURL = url
	c.appendModelMessage(sessionID, message)
	c.publish(events.NewFinalEvent(meta, caption))
	return nil
}

// beginTurn claims the active session for a turn. The claim is an atomic
// compare-and-swap so concurrent sends cannot both pass the guard.
func (c *Controller) beginTurn() (string, func(), error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	session := c.findLocked(c.active)
	if session == nil {
		return "", nil, ErrNoActiveSession
	}

	flag, _ := c.turns.LoadOrStore(session.ID, &atomic.Bool{})
	inProgress := flag.(*atomic.Bool)
	if !inProgress.CompareAndSwap(false, true) {
		return "", nil, ErrTurnInProgress
	}
	return session.ID, func() { inProgress.Store(false) }, nil
}

// openUserTurn appends the user message and persists it, records the query
// in the search history, and kicks off title generation for a session's
// first message. It returns the transcript as it was before the append, to
// be sent as the prior turns.
func (c *Controller) openUserTurn(sessionID string, prompt string, query string, attachment *gemini.ImageAttachment) []conversation.Message {
	c.mu.Lock()
	session := c.findLocked(sessionID)
	if session == nil {
		c.mu.Unlock()
		log.Warn().Str("session_id", sessionID).Msg("session disappeared before turn start")
		return nil
	}

	prior := append([]conversation.Message(nil), session.Messages...)
	isFirst := len(session.Messages) == 0

	message := conversation.NewUserMessage(prompt)
	if attachment != nil {
		message.ImageURL = "data:" + attachment.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(attachment.Data)
	}
	session.Append(message)
	c.store.Save(c.sessions)
	c.mu.Unlock()

	c.history.Add(query)

	if isFirst {
		go c.applyTitle(sessionID, prompt)
	}
	return prior
}

// applyTitle runs off the turn's critical path; by the time the title comes
// back the session may be gone, which the store treats as a no-op.
func (c *Controller) applyTitle(sessionID string, firstMessage string) {
	title := c.generator.GenerateTitle(context.Background(), firstMessage)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions = c.store.UpdateTitle(sessionID, title)
}

func (c *Controller) appendModelMessage(sessionID string, message conversation.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	session := c.findLocked(sessionID)
	if session == nil {
		// the turn outlived its session; drop the write
		log.Warn().Str("session_id", sessionID).Msg("discarding message for deleted session")
		return
	}
	session.Append(message)
	c.store.Save(c.sessions)
}

func (c *Controller) findLocked(id string) *conversation.ChatSession {
	for _, session := range c.sessions {
		if session.ID == id {
			return session
		}
	}
	return nil
}

func (c *Controller) publish(event events.Event) {
	for _, sink := range c.sinks {
		if err := sink.PublishEvent(event); err != nil {
			log.Error().Err(err).Str("event_type", string(event.Type())).Msg("failed to publish event")
		}
	}
}
