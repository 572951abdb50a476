package events

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type EventType string

const (
	// EventTypeStart to EventTypeFinal cover one streamed chat reply.
	EventTypeStart             EventType = "start"
	EventTypePartialCompletion EventType = "partial"
	EventTypeFinal             EventType = "final"
	EventTypeError             EventType = "error"

	// EventTypeStatus carries progress announcements, e.g. the pending
	// message published while a video operation is being polled.
	EventTypeStatus EventType = "status"
)

// EventMetadata is attached to every event so observers can correlate
// events with the session and turn they belong to.
type EventMetadata struct {
	ID        uuid.UUID `json:"message_id"`
	SessionID string    `json:"session_id,omitempty"`
	Model     string    `json:"model,omitempty"`
}

func (em EventMetadata) MarshalZerologObject(e *zerolog.Event) {
	e.Str("message_id", em.ID.String())
	if em.SessionID != "" {
		e.Str("session_id", em.SessionID)
	}
	if em.Model != "" {
		e.Str("model", em.Model)
	}
}

type Event interface {
	Type() EventType
	Metadata() EventMetadata
}

type EventImpl struct {
	Type_     EventType     `json:"type"`
	Metadata_ EventMetadata `json:"meta,omitempty"`
}

func (e *EventImpl) Type() EventType {
	return e.Type_
}

func (e *EventImpl) Metadata() EventMetadata {
	return e.Metadata_
}

func (e *EventImpl) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("type", string(e.Type_))
	ev.Object("meta", e.Metadata_)
}

var _ Event = &EventImpl{}

type EventStart struct {
	EventImpl
}

func NewStartEvent(metadata EventMetadata) *EventStart {
	return &EventStart{
		EventImpl: EventImpl{Type_: EventTypeStart, Metadata_: metadata},
	}
}

// EventPartialCompletion is emitted for every fragment of a streamed reply.
// Completion is the accumulated in-flight message so far, in strict emission
// order; this transient state is what a live UI renders.
type EventPartialCompletion struct {
	EventImpl
	Delta      string `json:"delta"`
	Completion string `json:"completion"`
}

func NewPartialCompletionEvent(metadata EventMetadata, delta string, completion string) *EventPartialCompletion {
	return &EventPartialCompletion{
		EventImpl:  EventImpl{Type_: EventTypePartialCompletion, Metadata_: metadata},
		Delta:      delta,
		Completion: completion,
	}
}

type EventFinal struct {
	EventImpl
	Text string `json:"text"`
}

func NewFinalEvent(metadata EventMetadata, text string) *EventFinal {
	return &EventFinal{
		EventImpl: EventImpl{Type_: EventTypeFinal, Metadata_: metadata},
		Text:      text,
	}
}

type EventError struct {
	EventImpl
	ErrorString string `json:"error_string"`
}

func NewErrorEvent(metadata EventMetadata, err error) *EventError {
	return &EventError{
		EventImpl:   EventImpl{Type_: EventTypeError, Metadata_: metadata},
		ErrorString: err.Error(),
	}
}

type EventStatus struct {
	EventImpl
	Text string `json:"text"`
}

func NewStatusEvent(metadata EventMetadata, text string) *EventStatus {
	return &EventStatus{
		EventImpl: EventImpl{Type_: EventTypeStatus, Metadata_: metadata},
		Text:      text,
	}
}

var (
	_ Event = &EventStart{}
	_ Event = &EventPartialCompletion{}
	_ Event = &EventFinal{}
	_ Event = &EventError{}
	_ Event = &EventStatus{}
)

// NewEventFromJSON decodes a serialized event back into its concrete type so
// router handlers can dispatch on it.
func NewEventFromJSON(b []byte) (Event, error) {
	var peek struct {
		Type EventType `json:"type"`
	}
	if err := json.Unmarshal(b, &peek); err != nil {
		return nil, errors.Wrap(err, "failed to peek event type")
	}

	var event Event
	switch peek.Type {
	case EventTypeStart:
		event = &EventStart{}
	case EventTypePartialCompletion:
		event = &EventPartialCompletion{}
	case EventTypeFinal:
		event = &EventFinal{}
	case EventTypeError:
		event = &EventError{}
	case EventTypeStatus:
		event = &EventStatus{}
	default:
		return nil, errors.Errorf("unknown event type %q", peek.Type)
	}

	if err := json.Unmarshal(b, event); err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s event", peek.Type)
	}
	return event, nil
}
