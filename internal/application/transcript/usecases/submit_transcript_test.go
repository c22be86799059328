package usecases

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velorie/ticketarchive/internal/domain/transcript"
	"github.com/velorie/ticketarchive/internal/shared/errors"
)

const testSecret = "s3cr3t"

const submitPayload = `{
  "ticket": {"transcript_id": "abc-123", "topic": "Refund", "created_at": "2024-05-01T12:00:00Z", "closed_at": "2024-05-01T13:00:00Z"},
  "messages": [
    {"author_name": "Jan", "content": "<script>alert(1)</script>", "timestamp": "2024-05-01T12:00:09Z"},
    {"author_name": "Mod", "is_admin": true, "content": "done", "timestamp": "2024-05-01T12:00:01Z"}
  ]
}`

func newSubmitUseCase(repo *mockTranscriptRepository, log *mockLogger) *SubmitTranscriptUseCase {
	if log == nil {
		log = &mockLogger{}
	}
	return NewSubmitTranscriptUseCase(repo, &mockSecretVerifier{secret: testSecret}, mockURLBuilder{}, log)
}

func TestSubmitTranscriptUseCase_Execute_Success(t *testing.T) {
	var stored *transcript.Transcript
	repo := &mockTranscriptRepository{
		CreateFunc: func(ctx context.Context, tr *transcript.Transcript) error {
			stored = tr
			return nil
		},
	}

	result, err := newSubmitUseCase(repo, nil).Execute(context.Background(), SubmitTranscriptCommand{
		AuthToken: testSecret,
		Payload:   []byte(submitPayload),
	})

	require.NoError(t, err)
	assert.Equal(t, "abc-123", result.TranscriptID)
	assert.Equal(t, "https://transcripts.test/abc-123", result.URL)
	assert.Equal(t, 2, result.MessageCount)

	require.NotNil(t, stored)
	assert.Equal(t, "Refund", stored.Ticket().Topic())
	msgs := stored.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "Jan", msgs[0].AuthorName())
	assert.Equal(t, "<script>alert(1)</script>", msgs[0].Content())
	assert.True(t, msgs[1].IsAdmin())
}

func TestSubmitTranscriptUseCase_Execute_Unauthorized(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		payload string
	}{
		{"missing credential", "", submitPayload},
		{"wrong credential", "nope", submitPayload},
		{"wrong credential with malformed body", "nope", `{"ticket":`},
		{"wrong credential with invalid body", "nope", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockTranscriptRepository{}

			result, err := newSubmitUseCase(repo, nil).Execute(context.Background(), SubmitTranscriptCommand{
				AuthToken: tt.token,
				Payload:   []byte(tt.payload),
			})

			assert.Nil(t, result)
			require.Error(t, err)
			assert.True(t, errors.IsUnauthorizedError(err))
			assert.Zero(t, repo.CreateCalls())
		})
	}
}

func TestSubmitTranscriptUseCase_Execute_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"malformed json", `{"ticket":`},
		{"missing ticket", `{"messages":[]}`},
		{"missing transcript id", `{"ticket":{"topic":"x"},"messages":[]}`},
		{"missing messages", `{"ticket":{"transcript_id":"a"}}`},
		{"identifier with separator", `{"ticket":{"transcript_id":"a/b"},"messages":[]}`},
		{"unparseable timestamp", `{"ticket":{"transcript_id":"a","closed_at":"tomorrow"},"messages":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockTranscriptRepository{}

			result, err := newSubmitUseCase(repo, nil).Execute(context.Background(), SubmitTranscriptCommand{
				AuthToken: testSecret,
				Payload:   []byte(tt.payload),
			})

			assert.Nil(t, result)
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err))
			assert.Zero(t, repo.CreateCalls())
		})
	}
}

func TestSubmitTranscriptUseCase_Execute_StoreErrors(t *testing.T) {
	tests := []struct {
		name      string
		storeErr  error
		checkType func(error) bool
	}{
		{"existing transcript under reject policy", fmt.Errorf("file store: %w", transcript.ErrTranscriptExists), errors.IsConflictError},
		{"storage failure", fmt.Errorf("disk full"), errors.IsInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var loggedErrors int
			repo := &mockTranscriptRepository{
				CreateFunc: func(ctx context.Context, tr *transcript.Transcript) error {
					return tt.storeErr
				},
			}
			log := &mockLogger{ErrorwFunc: func(msg string, kv ...any) { loggedErrors++ }}

			result, err := newSubmitUseCase(repo, log).Execute(context.Background(), SubmitTranscriptCommand{
				AuthToken: testSecret,
				Payload:   []byte(submitPayload),
			})

			assert.Nil(t, result)
			require.Error(t, err)
			assert.True(t, tt.checkType(err))
			assert.NotContains(t, err.Error(), "disk full")
			assert.Equal(t, 1, repo.CreateCalls())
			if errors.IsInternalError(err) {
				assert.Equal(t, 1, loggedErrors)
			}
		})
	}
}

func TestSubmitTranscriptUseCase_Execute_WarnsWhenClosedBeforeCreated(t *testing.T) {
	var warnings []string
	log := &mockLogger{WarnwFunc: func(msg string, kv ...any) { warnings = append(warnings, msg) }}
	repo := &mockTranscriptRepository{}

	_, err := newSubmitUseCase(repo, log).Execute(context.Background(), SubmitTranscriptCommand{
		AuthToken: testSecret,
		Payload:   []byte(`{"ticket":{"transcript_id":"a","created_at":"2024-05-02","closed_at":"2024-05-01"},"messages":[]}`),
	})

	require.NoError(t, err)
	assert.Equal(t, 1, repo.CreateCalls())
	assert.Contains(t, warnings, "ticket closed_at is earlier than created_at")
}
