package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() *SessionStore {
	return NewSessionStore(2*time.Hour, time.Minute)
}

func TestCreateSession(t *testing.T) {
	store := newTestStore()

	id := store.Create([]string{"thịt bò", "cà chua"}, "recipe text")
	require.NotEmpty(t, id)

	session, ok := store.Get(id)
	require.True(t, ok)
	assert.Equal(t, id, session.ID)
	assert.Equal(t, []string{"thịt bò", "cà chua"}, session.Ingredients)
	assert.Equal(t, "recipe text", session.Recipe)
	assert.Empty(t, session.Messages)
	assert.Equal(t, session.CreatedAt, session.LastActivity)
}

func TestCreateCopiesIngredients(t *testing.T) {
	store := newTestStore()

	ingredients := []string{"thịt bò"}
	id := store.Create(ingredients, "")
	ingredients[0] = "mutated"

	session, ok := store.Get(id)
	require.True(t, ok)
	assert.Equal(t, "thịt bò", session.Ingredients[0])
}

func TestGetReturnsSnapshot(t *testing.T) {
	store := newTestStore()

	id := store.Create([]string{"cà rốt"}, "")
	store.AppendMessage(id, "q1", "a1")

	first, ok := store.Get(id)
	require.True(t, ok)
	first.Messages[0].Answer = "mutated"
	first.Ingredients[0] = "mutated"

	second, ok := store.Get(id)
	require.True(t, ok)
	assert.Equal(t, "a1", second.Messages[0].Answer)
	assert.Equal(t, "cà rốt", second.Ingredients[0])
}

func TestGetMissingSession(t *testing.T) {
	store := newTestStore()

	_, ok := store.Get("nope")
	assert.False(t, ok)
}

func TestAppendMessageOrdering(t *testing.T) {
	store := newTestStore()

	id := store.Create(nil, "")
	store.AppendMessage(id, "q1", "a1")
	store.AppendMessage(id, "q2", "a2")

	session, ok := store.Get(id)
	require.True(t, ok)
	require.Len(t, session.Messages, 2)
	assert.Equal(t, "q1", session.Messages[0].Question)
	assert.Equal(t, "q2", session.Messages[1].Question)
	assert.True(t, session.LastActivity.After(session.CreatedAt) || session.LastActivity.Equal(session.CreatedAt))
}

func TestAppendMessageMissingSessionIsNoop(t *testing.T) {
	store := newTestStore()

	store.AppendMessage("nope", "q", "a")
	assert.Equal(t, 0, store.Len())
}

func TestDeleteSession(t *testing.T) {
	store := newTestStore()

	id := store.Create(nil, "")
	assert.True(t, store.Delete(id))
	assert.False(t, store.Delete(id))

	_, ok := store.Get(id)
	assert.False(t, ok)
}

func TestSweepRemovesIdleSessions(t *testing.T) {
	store := newTestStore()

	idle := store.Create(nil, "")
	active := store.Create(nil, "")
	store.Touch(active)

	now := time.Now()
	// Backdate the idle session past the threshold.
	store.mu.Lock()
	store.sessions[idle].LastActivity = now.Add(-2*time.Hour - time.Second)
	store.mu.Unlock()

	removed := store.Sweep(now, 2*time.Hour)
	assert.Equal(t, 1, removed)

	_, ok := store.Get(idle)
	assert.False(t, ok)
	_, ok = store.Get(active)
	assert.True(t, ok)
}

func TestSweepKeepsSessionAtExactThreshold(t *testing.T) {
	store := newTestStore()

	id := store.Create(nil, "")
	now := time.Now()
	store.mu.Lock()
	store.sessions[id].LastActivity = now.Add(-2 * time.Hour)
	store.mu.Unlock()

	removed := store.Sweep(now, 2*time.Hour)
	assert.Equal(t, 0, removed)
}

func TestTouchKeepsSessionAlive(t *testing.T) {
	store := newTestStore()

	id := store.Create(nil, "")
	now := time.Now()
	store.mu.Lock()
	store.sessions[id].LastActivity = now.Add(-2*time.Hour - time.Second)
	store.mu.Unlock()

	store.Touch(id)

	removed := store.Sweep(now, 2*time.Hour)
	assert.Equal(t, 0, removed)
}

func TestStats(t *testing.T) {
	store := newTestStore()

	a := store.Create(nil, "")
	store.Create(nil, "")
	store.AppendMessage(a, "q1", "a1")
	store.AppendMessage(a, "q2", "a2")

	stats := store.Stats()
	assert.Equal(t, 2, stats.ActiveSessions)
	assert.Equal(t, 2, stats.TotalMessages)
}

func TestStopBeforeStartSweeper(t *testing.T) {
	store := newTestStore()
	store.Stop()
	store.Stop()
}
