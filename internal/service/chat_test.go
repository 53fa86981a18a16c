package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/thanhng/foodchat/internal/domain"
	"github.com/thanhng/foodchat/internal/llm"
	"github.com/thanhng/foodchat/internal/repository/memory"
)

func newChatFixture(t *testing.T) (*ChatService, *memory.SessionStore, *MockEngine) {
	t.Helper()
	store := memory.NewSessionStore(2*time.Hour, time.Minute)
	engine := new(MockEngine)
	return NewChatService(store, engine, 0), store, engine
}

func collectEvents(events *[]domain.StreamEvent) func(domain.StreamEvent) {
	return func(e domain.StreamEvent) { *events = append(*events, e) }
}

func TestBuildChatContextWindow(t *testing.T) {
	session := domain.Session{
		Ingredients: []string{"thịt bò", "cà chua"},
		Recipe:      "Bò sốt cà chua",
	}
	for i := 1; i <= 10; i++ {
		session.Messages = append(session.Messages, domain.ChatMessage{
			Question: fmt.Sprintf("q%d", i),
			Answer:   fmt.Sprintf("a%d", i),
		})
	}

	messages := BuildChatContext(session, "câu hỏi mới")

	// system + 8 retained pairs + new question
	require.Len(t, messages, 1+2*8+1)
	assert.Equal(t, llm.RoleSystem, messages[0].Role)
	assert.Contains(t, messages[0].Content, "thịt bò, cà chua")
	assert.Contains(t, messages[0].Content, "Bò sốt cà chua")

	// Oldest two exchanges dropped, rest in order.
	assert.Equal(t, "q3", messages[1].Content)
	assert.Equal(t, llm.RoleUser, messages[1].Role)
	assert.Equal(t, "a3", messages[2].Content)
	assert.Equal(t, llm.RoleAssistant, messages[2].Role)
	assert.Equal(t, "q10", messages[15].Content)
	assert.Equal(t, "a10", messages[16].Content)

	last := messages[len(messages)-1]
	assert.Equal(t, llm.RoleUser, last.Role)
	assert.Equal(t, "câu hỏi mới", last.Content)
}

func TestBuildChatContextTruncatesRecipe(t *testing.T) {
	session := domain.Session{Recipe: strings.Repeat("ă", 500)}

	messages := BuildChatContext(session, "q")

	assert.Contains(t, messages[0].Content, strings.Repeat("ă", 400))
	assert.NotContains(t, messages[0].Content, strings.Repeat("ă", 401))
}

func TestStreamAnswerSuccess(t *testing.T) {
	svc, store, engine := newChatFixture(t)
	id := store.Create([]string{"thịt bò"}, "recipe")

	engine.On("CompleteStream", mock.Anything, mock.Anything).
		Return(newStubStream("Nấu ", "khoảng ", "30 phút. "), nil)

	var events []domain.StreamEvent
	svc.StreamAnswer(context.Background(), id, "nấu bao lâu?", collectEvents(&events))

	require.Len(t, events, 4)
	assert.Equal(t, domain.ChunkEvent("Nấu "), events[0])
	assert.Equal(t, domain.ChunkEvent("khoảng "), events[1])
	assert.Equal(t, domain.ChunkEvent("30 phút. "), events[2])
	assert.Equal(t, domain.EventDone, events[3].Type)
	assert.Equal(t, "Nấu khoảng 30 phút.", events[3].FullAnswer)
	assert.Empty(t, events[3].Note)

	session, ok := store.Get(id)
	require.True(t, ok)
	require.Len(t, session.Messages, 1)
	assert.Equal(t, "nấu bao lâu?", session.Messages[0].Question)
	assert.Equal(t, "Nấu khoảng 30 phút.", session.Messages[0].Answer)
}

func TestStreamAnswerValidation(t *testing.T) {
	svc, _, _ := newChatFixture(t)

	var events []domain.StreamEvent
	svc.StreamAnswer(context.Background(), "", "  ", collectEvents(&events))

	require.Len(t, events, 1)
	assert.Equal(t, domain.EventError, events[0].Type)
	assert.Equal(t, "session_id and question are required", events[0].Error)
}

func TestStreamAnswerUnknownSession(t *testing.T) {
	svc, _, _ := newChatFixture(t)

	var events []domain.StreamEvent
	svc.StreamAnswer(context.Background(), "missing", "q", collectEvents(&events))

	require.Len(t, events, 1)
	assert.Equal(t, domain.EventError, events[0].Type)
	assert.Equal(t, "session not found or expired", events[0].Error)
}

func TestStreamAnswerFallbackWhenStreamFailsToOpen(t *testing.T) {
	svc, store, engine := newChatFixture(t)
	id := store.Create(nil, "")

	engine.On("CompleteStream", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))

	var events []domain.StreamEvent
	svc.StreamAnswer(context.Background(), id, "nấu bao lâu thì xong?", collectEvents(&events))

	require.NotEmpty(t, events)
	done := events[len(events)-1]
	assert.Equal(t, domain.EventDone, done.Type)
	assert.Equal(t, "fallback", done.Note)
	assert.Equal(t, FallbackAnswer("nấu bao lâu thì xong?"), done.FullAnswer)

	var concat strings.Builder
	for _, e := range events[:len(events)-1] {
		require.Equal(t, domain.EventChunk, e.Type)
		concat.WriteString(e.Content)
	}
	assert.Equal(t, done.FullAnswer, strings.TrimSpace(concat.String()))

	session, ok := store.Get(id)
	require.True(t, ok)
	require.Len(t, session.Messages, 1)
	assert.Equal(t, done.FullAnswer, session.Messages[0].Answer)
}

func TestStreamAnswerFallbackOnMidStreamFailure(t *testing.T) {
	svc, store, engine := newChatFixture(t)
	id := store.Create(nil, "")

	broken := newStubStream("Để thịt ")
	broken.finishErr = errors.New("stream reset")
	engine.On("CompleteStream", mock.Anything, mock.Anything).Return(broken, nil)

	var events []domain.StreamEvent
	svc.StreamAnswer(context.Background(), id, "làm sao cho thịt mềm?", collectEvents(&events))

	done := events[len(events)-1]
	assert.Equal(t, domain.EventDone, done.Type)
	assert.Equal(t, "fallback", done.Note)
	assert.Equal(t, FallbackAnswer("làm sao cho thịt mềm?"), done.FullAnswer)
	assert.True(t, broken.closed)

	// Only the fallback answer is persisted, not the broken partial.
	session, _ := store.Get(id)
	require.Len(t, session.Messages, 1)
	assert.Equal(t, done.FullAnswer, session.Messages[0].Answer)
}

func TestStreamAnswerPersistsPartialOnCancel(t *testing.T) {
	svc, store, engine := newChatFixture(t)
	id := store.Create(nil, "")

	ctx, cancel := context.WithCancel(context.Background())

	stream := newStubStream("một ", "hai ", "ba ")
	engine.On("CompleteStream", mock.Anything, mock.Anything).Return(stream, nil)

	var events []domain.StreamEvent
	svc.StreamAnswer(ctx, id, "q", func(e domain.StreamEvent) {
		events = append(events, e)
		if len(events) == 2 {
			cancel()
		}
	})

	// No done event after cancellation; the partial answer survives.
	for _, e := range events {
		assert.Equal(t, domain.EventChunk, e.Type)
	}
	session, _ := store.Get(id)
	require.Len(t, session.Messages, 1)
	assert.Equal(t, "một hai", session.Messages[0].Answer)
}

func TestStartHistoryEndChat(t *testing.T) {
	svc, _, _ := newChatFixture(t)

	id := svc.StartChat([]string{"rau muống"}, "recipe")
	require.NotEmpty(t, id)

	session, err := svc.History(id)
	require.NoError(t, err)
	assert.Equal(t, []string{"rau muống"}, session.Ingredients)

	require.NoError(t, svc.EndChat(id))

	_, err = svc.History(id)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.ErrorIs(t, svc.EndChat(id), domain.ErrSessionNotFound)
}
