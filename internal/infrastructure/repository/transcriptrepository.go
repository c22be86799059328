package repository

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/velorie/ticketarchive/internal/domain/transcript"
	"github.com/velorie/ticketarchive/internal/infrastructure/persistence/mappers"
	"github.com/velorie/ticketarchive/internal/infrastructure/persistence/models"
	db "github.com/velorie/ticketarchive/internal/shared/db"
	"github.com/velorie/ticketarchive/internal/shared/errors"
)

const messageBatchSize = 500

// TranscriptRepository stores transcripts in transcript_tickets and
// transcript_messages. Create and Fetch each run in a single transaction, so
// a reader sees a ticket with its complete message list or nothing.
type TranscriptRepository struct {
	db     *gorm.DB
	txm    *db.TransactionManager
	mapper mappers.TranscriptMapper
	policy transcript.ConflictPolicy
}

func NewTranscriptRepository(database *gorm.DB, policy transcript.ConflictPolicy) *TranscriptRepository {
	return &TranscriptRepository{
		db:     database,
		txm:    db.NewTransactionManager(database),
		mapper: mappers.NewTranscriptMapper(),
		policy: policy,
	}
}

func (r *TranscriptRepository) Create(ctx context.Context, t *transcript.Transcript) error {
	ticketModel, messageModels := r.mapper.ToModels(t, time.Now().UnixMilli())

	return r.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		tx := db.GetTxFromContext(ctx, r.db)

		if err := r.saveTicket(tx, ticketModel); err != nil {
			return err
		}

		// Replace, never append: the stored message set is exactly the last submission.
		if err := tx.Scopes(db.ByTranscriptID(ticketModel.TranscriptID)).
			Delete(&models.TranscriptMessageModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear transcript messages: %w", err)
		}

		if len(messageModels) > 0 {
			if err := tx.CreateInBatches(messageModels, messageBatchSize).Error; err != nil {
				return fmt.Errorf("failed to save transcript messages: %w", err)
			}
		}

		return nil
	})
}

func (r *TranscriptRepository) saveTicket(tx *gorm.DB, model *models.TranscriptTicketModel) error {
	if r.policy == transcript.ConflictReject {
		if err := tx.Create(model).Error; err != nil {
			if stderrors.Is(err, gorm.ErrDuplicatedKey) || errors.IsDuplicateError(err) {
				return fmt.Errorf("%w: %s", transcript.ErrTranscriptExists, model.TranscriptID)
			}
			return fmt.Errorf("failed to save transcript ticket: %w", err)
		}
		return nil
	}

	// The upsert takes the row lock, which serializes concurrent writers
	// of the same identifier until commit.
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "transcript_id"}},
		UpdateAll: true,
	}).Create(model).Error; err != nil {
		return fmt.Errorf("failed to upsert transcript ticket: %w", err)
	}
	return nil
}

func (r *TranscriptRepository) Fetch(ctx context.Context, transcriptID string) (*transcript.Transcript, error) {
	var (
		ticketModel   models.TranscriptTicketModel
		messageModels []*models.TranscriptMessageModel
	)

	err := r.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		tx := db.GetTxFromContext(ctx, r.db)

		if err := tx.Scopes(db.ByTranscriptID(transcriptID)).First(&ticketModel).Error; err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", transcript.ErrTranscriptNotFound, transcriptID)
			}
			return fmt.Errorf("failed to find transcript ticket: %w", err)
		}

		if err := tx.Scopes(db.ByTranscriptID(transcriptID), db.InSubmissionOrder()).
			Find(&messageModels).Error; err != nil {
			return fmt.Errorf("failed to find transcript messages: %w", err)
		}
		return nil
	}, r.txm.ReadSnapshotOptions()...)
	if err != nil {
		return nil, err
	}

	t, err := r.mapper.ToDomain(&ticketModel, messageModels)
	if err != nil {
		return nil, fmt.Errorf("invalid stored transcript %s: %w", transcriptID, err)
	}
	return t, nil
}

func (r *TranscriptRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}
