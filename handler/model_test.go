package handler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/dialogkit/core"
	"github.com/hupe1980/dialogkit/internal/testutil"
	"github.com/hupe1980/dialogkit/memory"
	"github.com/hupe1980/dialogkit/model"
)

func TestModelHandler(t *testing.T) {
	mock := model.NewMockModel("test-model", "mock")
	mock.AddResponse("What are your hours?", "We're open 9 to 5 on weekdays.")

	h := NewModel(mock)

	turn := testutil.NewTurnBuilder().Text("What are your hours?").Intent("question").Build()

	reply, err := h.Handle(context.Background(), turn)
	require.NoError(t, err)

	assert.Equal(t, "We're open 9 to 5 on weekdays.", reply.Text)
	assert.Equal(t, "test-model", reply.Metadata["model"])
	assert.Equal(t, "question", reply.Metadata["intent"])
}

func TestModelHandlerWithHistory(t *testing.T) {
	store := memory.NewInMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.StoreMessage(ctx, "sess-1", core.Message{Role: core.RoleUser, Content: "earlier question"}))
	require.NoError(t, store.StoreMessage(ctx, "sess-1", core.Message{Role: core.RoleAssistant, Content: "earlier answer"}))
	// System entries in memory are not replayed to the model.
	require.NoError(t, store.StoreMessage(ctx, "sess-1", core.Message{Role: core.RoleSystem, Content: "[summary]"}))

	var seen model.Request
	spy := &spyModel{
		onGenerate: func(req model.Request) (*model.Response, error) {
			seen = req
			return &model.Response{Text: "ok"}, nil
		},
	}

	h := NewModel(spy, func(o *ModelOptions) { o.Memory = store })

	turn := testutil.NewTurnBuilder().Text("and now?").Session("sess-1").Intent("question").Build()

	_, err := h.Handle(ctx, turn)
	require.NoError(t, err)

	require.Len(t, seen.Messages, 3)
	assert.Equal(t, "earlier question", seen.Messages[0].Content)
	assert.Equal(t, "earlier answer", seen.Messages[1].Content)
	assert.Equal(t, "and now?", seen.Messages[2].Content)
	assert.Equal(t, DefaultSystemPrompt, seen.System)
}

func TestModelHandlerRendersSystemPrompt(t *testing.T) {
	var seen model.Request
	spy := &spyModel{
		onGenerate: func(req model.Request) (*model.Response, error) {
			seen = req
			return &model.Response{Text: "ok"}, nil
		},
	}

	h := NewModel(spy, func(o *ModelOptions) {
		o.System = "The user's last intent was {{.last_intent}}."
	})

	turn := testutil.NewTurnBuilder().Text("hi").Intent("greeting").
		Context("last_intent", "question").
		Build()

	_, err := h.Handle(context.Background(), turn)
	require.NoError(t, err)
	assert.Equal(t, "The user's last intent was question.", seen.System)
}

type spyModel struct {
	onGenerate func(req model.Request) (*model.Response, error)
}

func (m *spyModel) Generate(_ context.Context, req model.Request) (*model.Response, error) {
	return m.onGenerate(req)
}

func (m *spyModel) Info() model.Info { return model.Info{Name: "spy", Provider: "test"} }
