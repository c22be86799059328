package usecases

import (
	"context"
	stderrors "errors"

	"github.com/velorie/ticketarchive/internal/application/transcript/dto"
	"github.com/velorie/ticketarchive/internal/domain/transcript"
	"github.com/velorie/ticketarchive/internal/shared/errors"
	"github.com/velorie/ticketarchive/internal/shared/logger"
)

type SubmitTranscriptCommand struct {
	// AuthToken is the credential exactly as presented by the caller.
	AuthToken string
	// Payload is the undecoded request body. It is only parsed once the
	// caller is authorized.
	Payload []byte
}

type SubmitTranscriptResult struct {
	TranscriptID string
	URL          string
	MessageCount int
}

type SubmitTranscriptUseCase struct {
	repo     transcript.Repository
	verifier SecretVerifier
	urls     TranscriptURLBuilder
	logger   logger.Interface
}

func NewSubmitTranscriptUseCase(
	repo transcript.Repository,
	verifier SecretVerifier,
	urls TranscriptURLBuilder,
	logger logger.Interface,
) *SubmitTranscriptUseCase {
	return &SubmitTranscriptUseCase{
		repo:     repo,
		verifier: verifier,
		urls:     urls,
		logger:   logger,
	}
}

func (uc *SubmitTranscriptUseCase) Execute(ctx context.Context, cmd SubmitTranscriptCommand) (*SubmitTranscriptResult, error) {
	if !uc.verifier.Verify(cmd.AuthToken) {
		uc.logger.Warnw("rejected transcript submission", "reason", "invalid credentials")
		return nil, errors.NewUnauthorizedError("invalid or missing API secret")
	}

	req, err := dto.DecodeSubmitTranscriptRequest(cmd.Payload)
	if err != nil {
		uc.logger.Warnw("invalid transcript payload", "error", err)
		return nil, err
	}
	if err := req.Validate(); err != nil {
		uc.logger.Warnw("invalid transcript payload", "error", err)
		return nil, err
	}

	t, err := req.ToTranscript()
	if err != nil {
		uc.logger.Warnw("failed to build transcript", "error", err)
		return nil, errors.NewValidationError(err.Error())
	}

	uc.logger.Infow("executing submit transcript use case",
		"transcript_id", t.ID(),
		"message_count", t.MessageCount(),
	)

	if t.Ticket().ClosedBeforeCreated() {
		uc.logger.Warnw("ticket closed_at is earlier than created_at",
			"transcript_id", t.ID(),
			"created_at", t.Ticket().CreatedAt(),
			"closed_at", t.Ticket().ClosedAt(),
		)
	}

	if err := uc.repo.Create(ctx, t); err != nil {
		if stderrors.Is(err, transcript.ErrTranscriptExists) {
			uc.logger.Warnw("transcript already exists", "transcript_id", t.ID())
			return nil, errors.NewConflictError("transcript already exists", t.ID())
		}
		uc.logger.Errorw("failed to store transcript",
			"transcript_id", t.ID(),
			"operation", "create",
			"error", err,
		)
		return nil, errors.NewInternalError("failed to store transcript")
	}

	url := uc.urls.TranscriptURL(t.ID())
	uc.logger.Infow("transcript stored successfully", "transcript_id", t.ID(), "url", url)

	return &SubmitTranscriptResult{
		TranscriptID: t.ID(),
		URL:          url,
		MessageCount: t.MessageCount(),
	}, nil
}
