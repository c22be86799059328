package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velorie/ticketarchive/internal/domain/transcript"
	"github.com/velorie/ticketarchive/internal/infrastructure/config"
	sharedConfig "github.com/velorie/ticketarchive/internal/shared/config"
	"github.com/velorie/ticketarchive/internal/shared/logger"
)

func testTranscript(t *testing.T, id string) *transcript.Transcript {
	t.Helper()
	tr, err := transcript.Reconstruct(
		transcript.TicketParams{TranscriptID: id, Topic: "Refund"},
		[]transcript.MessageParams{
			{AuthorName: "client", Content: "hello"},
			{AuthorName: "mod", IsAdmin: true, Content: "hi"},
		},
	)
	require.NoError(t, err)
	return tr
}

func TestOpenTranscriptStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		name string
		cfg  *config.Config
	}{
		{
			name: "file",
			cfg: &config.Config{Storage: sharedConfig.StorageConfig{
				Driver:         DriverFile,
				ConflictPolicy: "overwrite",
				DataDir:        filepath.Join(dir, "files"),
			}},
		},
		{
			name: "sql on sqlite",
			cfg: &config.Config{
				Storage: sharedConfig.StorageConfig{Driver: DriverSQL, ConflictPolicy: "reject"},
				Database: sharedConfig.DatabaseConfig{
					Driver: "sqlite",
					Path:   filepath.Join(dir, "db", "archive.db"),
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := OpenTranscriptStore(ctx, tt.cfg, StoreOptions{AutoMigrate: true}, logger.NewNopLogger())
			require.NoError(t, err)
			t.Cleanup(func() { assert.NoError(t, store.Close()) })

			assert.Equal(t, tt.cfg.Storage.Driver, store.Driver)
			require.NoError(t, store.Health.Ping(ctx))

			require.NoError(t, store.Repository.Create(ctx, testTranscript(t, "ticket-1")))
			got, err := store.Repository.Fetch(ctx, "ticket-1")
			require.NoError(t, err)
			assert.Equal(t, 2, got.MessageCount())
			assert.Equal(t, "Refund", got.Ticket().Topic())
		})
	}
}

func TestOpenTranscriptStore_InvalidOptions(t *testing.T) {
	ctx := context.Background()

	_, err := OpenTranscriptStore(ctx, &config.Config{Storage: sharedConfig.StorageConfig{
		Driver: "tape", ConflictPolicy: "overwrite",
	}}, StoreOptions{}, logger.NewNopLogger())
	assert.Error(t, err)

	_, err = OpenTranscriptStore(ctx, &config.Config{Storage: sharedConfig.StorageConfig{
		Driver: DriverFile, ConflictPolicy: "merge", DataDir: t.TempDir(),
	}}, StoreOptions{}, logger.NewNopLogger())
	assert.Error(t, err)
}
