package usecases

import (
	"context"

	"github.com/velorie/ticketarchive/internal/domain/transcript"
)

type SubmitTranscriptExecutor interface {
	Execute(ctx context.Context, cmd SubmitTranscriptCommand) (*SubmitTranscriptResult, error)
}

type ViewTranscriptExecutor interface {
	Execute(ctx context.Context, query ViewTranscriptQuery) (*ViewTranscriptResult, error)
}

// SecretVerifier checks the credential presented on ingest.
type SecretVerifier interface {
	Verify(presented string) bool
}

// TranscriptRenderer produces the viewable document for a transcript.
type TranscriptRenderer interface {
	Render(t *transcript.Transcript) (string, error)
}

// TranscriptURLBuilder maps an identifier to its public viewing URL.
type TranscriptURLBuilder interface {
	TranscriptURL(transcriptID string) string
}
