package sessions

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tenantlaw/internal/models"
)

func TestStore_CreateAndGet(t *testing.T) {
	store := NewStore(arbor.NewLogger())

	session := store.Create()
	_, err := uuid.Parse(session.ID)
	require.NoError(t, err)
	assert.Empty(t, session.Messages)

	got, ok := store.Get(session.ID)
	require.True(t, ok)
	assert.Equal(t, session.ID, got.ID)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestStore_AppendMessageKeepsOrder(t *testing.T) {
	store := NewStore(arbor.NewLogger())
	id := store.Create().ID

	_, err := store.AppendMessage(id, models.RoleUser, "Can my rent go up?")
	require.NoError(t, err)
	session, err := store.AppendMessage(id, models.RoleAssistant, "Once every 12 months.")
	require.NoError(t, err)

	require.Len(t, session.Messages, 2)
	assert.Equal(t, "user: Can my rent go up?\nassistant: Once every 12 months.", models.FormatHistory(session.Messages))
}

func TestStore_AppendMessageErrors(t *testing.T) {
	store := NewStore(arbor.NewLogger())

	_, err := store.AppendMessage("missing", models.RoleUser, "hi")
	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "missing", notFound.ID)

	id := store.Create().ID
	_, err = store.AppendMessage(id, "system", "hi")
	assert.Error(t, err)
}

func TestStore_ReturnsCopies(t *testing.T) {
	store := NewStore(arbor.NewLogger())
	id := store.Create().ID
	session, err := store.AppendMessage(id, models.RoleUser, "original")
	require.NoError(t, err)

	session.Messages[0].Content = "mutated"
	session.Messages = append(session.Messages, models.ChatMessage{Role: models.RoleUser, Content: "extra"})

	got, _ := store.Get(id)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "original", got.Messages[0].Content)
}

func TestStore_GetOrCreate(t *testing.T) {
	store := NewStore(arbor.NewLogger())
	existing := store.Create()

	assert.Equal(t, existing.ID, store.GetOrCreate(existing.ID).ID)

	fresh := store.GetOrCreate("")
	assert.NotEqual(t, existing.ID, fresh.ID)
	unknown := store.GetOrCreate("unknown-id")
	assert.NotEqual(t, "unknown-id", unknown.ID)
	assert.Equal(t, 3, store.Count())
}

func TestStore_AddDocumentAndClear(t *testing.T) {
	store := NewStore(arbor.NewLogger())
	id := store.Create().ID

	require.NoError(t, store.AddDocument(id, models.ProcessedDocument{FileName: "lease.pdf", NumPages: 2}))
	got, _ := store.Get(id)
	require.Len(t, got.Documents, 1)
	assert.Equal(t, "lease.pdf", got.Documents[0].FileName)

	assert.True(t, store.Clear(id))
	assert.False(t, store.Clear(id))
	_, ok := store.Get(id)
	assert.False(t, ok)
	assert.Error(t, store.AddDocument(id, models.ProcessedDocument{}))
}

func TestStore_ConcurrentAppends(t *testing.T) {
	store := NewStore(arbor.NewLogger())
	id := store.Create().ID

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := store.AppendMessage(id, models.RoleUser, fmt.Sprintf("message %d", n))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, _ := store.Get(id)
	assert.Len(t, got.Messages, 50)
}
