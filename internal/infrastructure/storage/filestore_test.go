package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velorie/ticketarchive/internal/domain/transcript"
	"github.com/velorie/ticketarchive/internal/shared/logger"
)

func buildTranscript(t *testing.T, id string, contents ...string) *transcript.Transcript {
	t.Helper()
	msgs := make([]transcript.MessageParams, 0, len(contents))
	for i, c := range contents {
		msgs = append(msgs, transcript.MessageParams{
			AuthorName: fmt.Sprintf("author-%d", i),
			IsAdmin:    i%2 == 1,
			Content:    c,
			Timestamp:  fmt.Sprintf("2024-05-01T12:00:%02dZ", 59-i),
		})
	}
	tr, err := transcript.Reconstruct(transcript.TicketParams{
		TranscriptID: id,
		ChannelID:    "998877",
		CreatorName:  "Jan",
		CreatorID:    "42",
		Topic:        "Refund",
		CreatedAt:    "2024-05-01T12:00:00Z",
		ClosedAt:     "2024-05-01T13:00:00Z",
		ClosedByName: "Mod",
	}, msgs)
	require.NoError(t, err)
	return tr
}

func newTestFileStore(t *testing.T, policy transcript.ConflictPolicy) (*FileStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewFileStore(dir, policy, logger.NewNopLogger())
	require.NoError(t, err)
	return store, dir
}

func TestFileStore_RoundTrip(t *testing.T) {
	store, _ := newTestFileStore(t, transcript.ConflictOverwrite)
	ctx := context.Background()

	original := buildTranscript(t, "abc-123", "first", "<script>alert(1)</script>", "third")
	require.NoError(t, store.Create(ctx, original))

	got, err := store.Fetch(ctx, "abc-123")
	require.NoError(t, err)
	assert.Equal(t, original.Ticket().Params(), got.Ticket().Params())
	assert.Equal(t, original.MessageParams(), got.MessageParams())
}

func TestFileStore_EmptyMessages(t *testing.T) {
	store, _ := newTestFileStore(t, transcript.ConflictOverwrite)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, buildTranscript(t, "empty")))

	got, err := store.Fetch(ctx, "empty")
	require.NoError(t, err)
	assert.Zero(t, got.MessageCount())
}

func TestFileStore_FetchNotFound(t *testing.T) {
	store, _ := newTestFileStore(t, transcript.ConflictOverwrite)

	for _, id := range []string{"missing", "", "../etc/passwd", "a/b"} {
		_, err := store.Fetch(context.Background(), id)
		assert.ErrorIs(t, err, transcript.ErrTranscriptNotFound, id)
	}
}

func TestFileStore_OverwriteReplacesMessages(t *testing.T) {
	store, dir := newTestFileStore(t, transcript.ConflictOverwrite)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, buildTranscript(t, "dup", "a", "b", "c")))
	require.NoError(t, store.Create(ctx, buildTranscript(t, "dup", "x")))

	got, err := store.Fetch(ctx, "dup")
	require.NoError(t, err)
	require.Equal(t, 1, got.MessageCount())
	assert.Equal(t, "x", got.Messages()[0].Content())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestFileStore_RejectKeepsFirstWrite(t *testing.T) {
	store, _ := newTestFileStore(t, transcript.ConflictReject)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, buildTranscript(t, "dup", "a")))
	err := store.Create(ctx, buildTranscript(t, "dup", "x", "y"))
	assert.ErrorIs(t, err, transcript.ErrTranscriptExists)

	got, err := store.Fetch(ctx, "dup")
	require.NoError(t, err)
	require.Equal(t, 1, got.MessageCount())
	assert.Equal(t, "a", got.Messages()[0].Content())
}

func TestFileStore_ConcurrentRejectHasOneWinner(t *testing.T) {
	store, _ := newTestFileStore(t, transcript.ConflictReject)
	ctx := context.Background()

	const writers = 16
	var wg sync.WaitGroup
	results := make(chan error, writers)
	for i := 0; i < writers; i++ {
		tr := buildTranscript(t, "race", fmt.Sprintf("writer-%d", i))
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- store.Create(ctx, tr)
		}()
	}
	wg.Wait()
	close(results)

	var ok, conflicts int
	for err := range results {
		if err == nil {
			ok++
		} else if assert.ErrorIs(t, err, transcript.ErrTranscriptExists) {
			conflicts++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, writers-1, conflicts)
}

func TestFileStore_ConcurrentDistinctIDs(t *testing.T) {
	store, _ := newTestFileStore(t, transcript.ConflictOverwrite)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		tr := buildTranscript(t, fmt.Sprintf("ticket-%d", i), "m1", "m2")
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Create(ctx, tr))
		}()
	}
	wg.Wait()

	for i := 0; i < 20; i++ {
		got, err := store.Fetch(ctx, fmt.Sprintf("ticket-%d", i))
		require.NoError(t, err)
		assert.Equal(t, 2, got.MessageCount())
	}
}

func TestFileStore_ReadsLegacyRecords(t *testing.T) {
	store, dir := newTestFileStore(t, transcript.ConflictOverwrite)

	legacy := `{
  "ticket": {
    "transcript_id": "legacy",
    "channel_id": 123456789012345678,
    "creator_name": "Jan",
    "creator_id": 42,
    "topic": "Old",
    "created_at": 1714564800000,
    "closed_at": null
  },
  "messages": [
    {"author_name": "Jan", "content": "hej", "timestamp": "2024-05-01T12:00:00.000Z"}
  ]
}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "legacy.json"), []byte(legacy), 0o644))

	got, err := store.Fetch(context.Background(), "legacy")
	require.NoError(t, err)
	assert.Equal(t, "123456789012345678", got.Ticket().ChannelID())
	assert.Equal(t, "42", got.Ticket().CreatorID())
	assert.Equal(t, "1714564800000", got.Ticket().CreatedAt())
	assert.Equal(t, "", got.Ticket().ClosedAt())
	assert.False(t, got.Messages()[0].IsAdmin())
}

func TestFileStore_CorruptRecord(t *testing.T) {
	store, dir := newTestFileStore(t, transcript.ConflictOverwrite)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0o644))

	_, err := store.Fetch(context.Background(), "broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, transcript.ErrTranscriptNotFound)
}

func TestFileStore_Ping(t *testing.T) {
	store, dir := newTestFileStore(t, transcript.ConflictOverwrite)
	assert.NoError(t, store.Ping(context.Background()))

	require.NoError(t, os.RemoveAll(dir))
	assert.Error(t, store.Ping(context.Background()))
}

func TestNewFileStore_Validation(t *testing.T) {
	_, err := NewFileStore("", transcript.ConflictOverwrite, logger.NewNopLogger())
	assert.Error(t, err)

	_, err = NewFileStore(t.TempDir(), transcript.ConflictPolicy("merge"), logger.NewNopLogger())
	assert.Error(t, err)
}

func TestKeyedMutex(t *testing.T) {
	km := newKeyedMutex()

	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock("k")
			counter++
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Zero(t, km.size())
}
