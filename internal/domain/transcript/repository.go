package transcript

import "context"

// Repository persists transcripts keyed by their identifier.
//
// Create stores the ticket and its messages as one unit: concurrent Fetch
// calls observe either the whole record or none of it. What happens when the
// identifier already exists is fixed by the backend's ConflictPolicy.
// Fetch returns ErrTranscriptNotFound for unknown identifiers.
type Repository interface {
	Create(ctx context.Context, t *Transcript) error
	Fetch(ctx context.Context, transcriptID string) (*Transcript, error)
}

// HealthChecker is implemented by backends that can report reachability.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
