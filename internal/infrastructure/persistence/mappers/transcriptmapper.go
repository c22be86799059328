package mappers

import (
	"github.com/velorie/ticketarchive/internal/domain/transcript"
	"github.com/velorie/ticketarchive/internal/infrastructure/persistence/models"
)

// TranscriptMapper handles the conversion between transcripts and their
// ticket and message rows.
type TranscriptMapper interface {
	// ToModels converts a transcript into its ticket row and ordered message rows.
	ToModels(t *transcript.Transcript, storedAt int64) (*models.TranscriptTicketModel, []*models.TranscriptMessageModel)

	// ToDomain rebuilds a transcript from rows ordered by seq.
	ToDomain(ticket *models.TranscriptTicketModel, messages []*models.TranscriptMessageModel) (*transcript.Transcript, error)
}

type TranscriptMapperImpl struct{}

func NewTranscriptMapper() TranscriptMapper {
	return &TranscriptMapperImpl{}
}

func (m *TranscriptMapperImpl) ToModels(t *transcript.Transcript, storedAt int64) (*models.TranscriptTicketModel, []*models.TranscriptMessageModel) {
	tp := t.Ticket().Params()
	ticket := &models.TranscriptTicketModel{
		TranscriptID: tp.TranscriptID,
		ChannelID:    tp.ChannelID,
		CreatorName:  tp.CreatorName,
		CreatorID:    tp.CreatorID,
		Topic:        tp.Topic,
		CreatedAt:    tp.CreatedAt,
		ClosedAt:     tp.ClosedAt,
		ClosedByName: tp.ClosedByName,
		StoredAt:     storedAt,
	}

	params := t.MessageParams()
	messages := make([]*models.TranscriptMessageModel, 0, len(params))
	for i, p := range params {
		messages = append(messages, &models.TranscriptMessageModel{
			TranscriptID: tp.TranscriptID,
			Seq:          i,
			AuthorName:   p.AuthorName,
			AuthorAvatar: p.AuthorAvatar,
			IsAdmin:      p.IsAdmin,
			Content:      p.Content,
			SentAt:       p.Timestamp,
		})
	}

	return ticket, messages
}

func (m *TranscriptMapperImpl) ToDomain(ticket *models.TranscriptTicketModel, messages []*models.TranscriptMessageModel) (*transcript.Transcript, error) {
	params := make([]transcript.MessageParams, 0, len(messages))
	for _, msg := range messages {
		params = append(params, transcript.MessageParams{
			AuthorName:   msg.AuthorName,
			AuthorAvatar: msg.AuthorAvatar,
			IsAdmin:      msg.IsAdmin,
			Content:      msg.Content,
			Timestamp:    msg.SentAt,
		})
	}

	return transcript.Reconstruct(transcript.TicketParams{
		TranscriptID: ticket.TranscriptID,
		ChannelID:    ticket.ChannelID,
		CreatorName:  ticket.CreatorName,
		CreatorID:    ticket.CreatorID,
		Topic:        ticket.Topic,
		CreatedAt:    ticket.CreatedAt,
		ClosedAt:     ticket.ClosedAt,
		ClosedByName: ticket.ClosedByName,
	}, params)
}
