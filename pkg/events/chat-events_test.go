package events

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventJSONRoundTrip(t *testing.T) {
	meta := EventMetadata{ID: uuid.New(), SessionID: "s-1", Model: "gemini-2.5-flash"}

	cases := []struct {
		name  string
		event Event
	}{
		{"start", NewStartEvent(meta)},
		{"partial", NewPartialCompletionEvent(meta, " there", "Hi there")},
		{"final", NewFinalEvent(meta, "Hi there")},
		{"error", NewErrorEvent(meta, errors.New("quota exceeded"))},
		{"status", NewStatusEvent(meta, "Generating your video...")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := json.Marshal(tc.event)
			require.NoError(t, err)

			decoded, err := NewEventFromJSON(b)
			require.NoError(t, err)
			assert.Equal(t, tc.event.Type(), decoded.Type())
			assert.Equal(t, meta.SessionID, decoded.Metadata().SessionID)
		})
	}
}

func TestPartialCompletionCarriesDeltaAndCompletion(t *testing.T) {
	meta := EventMetadata{ID: uuid.New()}
	b, err := json.Marshal(NewPartialCompletionEvent(meta, " there", "Hi there"))
	require.NoError(t, err)

	decoded, err := NewEventFromJSON(b)
	require.NoError(t, err)

	partial, ok := decoded.(*EventPartialCompletion)
	require.True(t, ok)
	assert.Equal(t, " there", partial.Delta)
	assert.Equal(t, "Hi there", partial.Completion)
}

func TestNewEventFromJSONRejectsUnknownType(t *testing.T) {
	_, err := NewEventFromJSON([]byte(`{"type":"nope"}`))
	require.Error(t, err)
}
