package session

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gkassa/agentlab/internal/agentlab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "chat_history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpenAppliesJournalPragmas(t *testing.T) {
	store := openStore(t)

	var mode string
	require.NoError(t, store.db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", strings.ToLower(mode))

	var timeout int
	require.NoError(t, store.db.QueryRow("PRAGMA busy_timeout").Scan(&timeout))
	assert.Equal(t, 5000, timeout)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := openStore(t)

	sess := New("gemini-1.5-flash")
	sess.Name = "homework"
	sess.SystemPrompt = "you are a math tutor"
	sess.AddMessage(agentlab.RoleUser, "what is 25 * 3?")
	sess.AddMessage(agentlab.RoleAssistant, "75")

	require.NoError(t, store.Save(sess))

	got, err := store.Load(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, "homework", got.Name)
	assert.Equal(t, "gemini-1.5-flash", got.Model)
	assert.Equal(t, "you are a math tutor", got.SystemPrompt)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, agentlab.RoleUser, got.Messages[0].Role)
	assert.Equal(t, "what is 25 * 3?", got.Messages[0].Content)
	assert.Equal(t, "75", got.Messages[1].Content)
}

func TestSaveIsIdempotentPerSession(t *testing.T) {
	store := openStore(t)

	sess := New("llama3-8b-8192")
	sess.AddMessage(agentlab.RoleUser, "hello")
	require.NoError(t, store.Save(sess))

	sess.AddMessage(agentlab.RoleAssistant, "hi")
	require.NoError(t, store.Save(sess))

	got, err := store.Load(sess.ID)
	require.NoError(t, err)
	assert.Len(t, got.Messages, 2, "second save should replace, not duplicate")
}

func TestLoadMissingSession(t *testing.T) {
	store := openStore(t)
	_, err := store.Load("00000000-0000-0000-0000-000000000000")
	assert.Error(t, err)
}

func TestListOrdering(t *testing.T) {
	store := openStore(t)

	older := New("gemini-1.5-flash")
	older.CreatedAt = time.Now().Add(-2 * time.Hour)
	older.UpdatedAt = older.CreatedAt
	require.NoError(t, store.Save(older))

	newer := New("gemini-1.5-flash")
	require.NoError(t, store.Save(newer))

	sessions, err := store.List()
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, newer.ID, sessions[0].ID, "newest first")
	assert.Equal(t, older.ID, sessions[1].ID)

	latest, err := store.Latest()
	require.NoError(t, err)
	assert.Equal(t, newer.ID, latest.ID)
}

func TestFindByPrefix(t *testing.T) {
	store := openStore(t)

	sess := New("gemini-1.5-pro")
	require.NoError(t, store.Save(sess))

	got, err := store.FindByPrefix(sess.ID[:8])
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)

	// Full UUID works too.
	got, err = store.FindByPrefix(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)

	// Too-short prefixes are rejected.
	_, err = store.FindByPrefix("ab")
	assert.Error(t, err)

	// Unknown prefix.
	_, err = store.FindByPrefix("zzzz9999")
	assert.Error(t, err)
}

func TestFindByPrefixAmbiguous(t *testing.T) {
	store := openStore(t)

	a := New("gemini-1.5-flash")
	a.ID = "aaaa1111-0000-0000-0000-000000000001"
	b := New("gemini-1.5-flash")
	b.ID = "aaaa1111-0000-0000-0000-000000000002"
	require.NoError(t, store.Save(a))
	require.NoError(t, store.Save(b))

	_, err := store.FindByPrefix("aaaa")
	var ambiguous *AmbiguousIDError
	require.ErrorAs(t, err, &ambiguous)
	assert.Len(t, ambiguous.Matches, 2)
}

func TestPrune(t *testing.T) {
	store := openStore(t)

	stale := New("gemini-1.5-flash")
	stale.UpdatedAt = time.Now().AddDate(0, 0, -45)
	require.NoError(t, store.Save(stale))

	fresh := New("gemini-1.5-flash")
	require.NoError(t, store.Save(fresh))

	deleted, err := store.Prune(30)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	sessions, err := store.List()
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, fresh.ID, sessions[0].ID)

	// Retention disabled keeps everything.
	deleted, err = store.Prune(0)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestDelete(t *testing.T) {
	store := openStore(t)

	sess := New("llama3-8b-8192")
	sess.AddMessage(agentlab.RoleUser, "hi")
	require.NoError(t, store.Save(sess))

	require.NoError(t, store.Delete(sess.ID))
	_, err := store.Load(sess.ID)
	assert.Error(t, err)

	// Deleting again reports not found.
	assert.Error(t, store.Delete(sess.ID))
}
