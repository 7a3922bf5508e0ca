package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUtterance(t *testing.T) {
	utt := NewUtterance("hello there", "user-1")

	require.NotEmpty(t, utt.ID)
	assert.Equal(t, "hello there", utt.Text)
	assert.Equal(t, "user-1", utt.UserID)
	assert.False(t, utt.Timestamp.IsZero())
	assert.Empty(t, utt.SessionID)

	other := NewUtterance("hello there", "user-1")
	assert.NotEqual(t, utt.ID, other.ID, "each utterance should get its own ID")
}

func TestEntityStartOrZero(t *testing.T) {
	start := 7
	tests := []struct {
		name   string
		entity Entity
		want   int
	}{
		{name: "with offset", entity: Entity{Type: "email", Start: &start}, want: 7},
		{name: "without offset", entity: Entity{Type: "custom"}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entity.StartOrZero())
		})
	}
}

func TestHandlerFunc(t *testing.T) {
	called := false
	h := HandlerFunc(func(_ context.Context, turn *Turn) (*Reply, error) {
		called = true
		return &Reply{Text: "got " + turn.Utterance.Text}, nil
	})

	turn := NewTurn(NewUtterance("ping", "user-1"), IntentResult{Name: "greeting", Confidence: 1}, nil, nil, nil)
	reply, err := h.Handle(context.Background(), turn)

	require.NoError(t, err)
	require.True(t, called)
	assert.Equal(t, "got ping", reply.Text)
}

func TestNewTurnNilLogger(t *testing.T) {
	turn := NewTurn(NewUtterance("hi", "user-1"), IntentResult{}, nil, nil, nil)

	// Must not panic with a nil logger.
	turn.LogDebug("debug %s", "message")
	turn.LogInfo("info")
}

func TestSafetyError(t *testing.T) {
	tests := []struct {
		name  string
		err   *SafetyError
		want  string
		flags []string
	}{
		{
			name: "no flags",
			err:  &SafetyError{},
			want: "message failed safety check",
		},
		{
			name:  "with flags",
			err:   &SafetyError{Flags: []string{"blocked_content", "toxic_language"}},
			want:  "message failed safety check: blocked_content, toxic_language",
			flags: []string{"blocked_content", "toxic_language"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())

			wrapped := fmt.Errorf("process turn: %w", tt.err)
			se, ok := AsSafetyError(wrapped)
			require.True(t, ok)
			assert.Equal(t, tt.flags, se.Flags)
		})
	}
}

func TestAsSafetyErrorMiss(t *testing.T) {
	se, ok := AsSafetyError(errors.New("boom"))
	assert.False(t, ok)
	assert.Nil(t, se)

	se, ok = AsSafetyError(ErrRateLimited)
	assert.False(t, ok)
	assert.Nil(t, se)
}
