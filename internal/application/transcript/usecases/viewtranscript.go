package usecases

import (
	"context"
	stderrors "errors"

	"github.com/velorie/ticketarchive/internal/domain/transcript"
	"github.com/velorie/ticketarchive/internal/shared/errors"
	"github.com/velorie/ticketarchive/internal/shared/logger"
)

type ViewTranscriptQuery struct {
	TranscriptID string
}

type ViewTranscriptResult struct {
	TranscriptID string
	Document     string
}

type ViewTranscriptUseCase struct {
	repo     transcript.Repository
	renderer TranscriptRenderer
	logger   logger.Interface
}

func NewViewTranscriptUseCase(
	repo transcript.Repository,
	renderer TranscriptRenderer,
	logger logger.Interface,
) *ViewTranscriptUseCase {
	return &ViewTranscriptUseCase{
		repo:     repo,
		renderer: renderer,
		logger:   logger,
	}
}

func (uc *ViewTranscriptUseCase) Execute(ctx context.Context, query ViewTranscriptQuery) (*ViewTranscriptResult, error) {
	// An identifier no backend could have stored cannot exist.
	if err := transcript.ValidateIdentifier(query.TranscriptID); err != nil {
		return nil, errors.NewNotFoundError("transcript not found")
	}

	t, err := uc.repo.Fetch(ctx, query.TranscriptID)
	if err != nil {
		if stderrors.Is(err, transcript.ErrTranscriptNotFound) {
			uc.logger.Debugw("transcript not found", "transcript_id", query.TranscriptID)
			return nil, errors.NewNotFoundError("transcript not found")
		}
		uc.logger.Errorw("failed to fetch transcript",
			"transcript_id", query.TranscriptID,
			"operation", "fetch",
			"error", err,
		)
		return nil, errors.NewInternalError("failed to load transcript")
	}

	doc, err := uc.renderer.Render(t)
	if err != nil {
		uc.logger.Errorw("failed to render transcript",
			"transcript_id", query.TranscriptID,
			"operation", "render",
			"error", err,
		)
		return nil, errors.NewInternalError("failed to render transcript")
	}

	return &ViewTranscriptResult{
		TranscriptID: t.ID(),
		Document:     doc,
	}, nil
}
