// Package dto defines the wire shape of transcript submissions and exports.
package dto

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/velorie/ticketarchive/internal/domain/transcript"
	"github.com/velorie/ticketarchive/internal/shared/errors"
	"github.com/velorie/ticketarchive/internal/shared/utils"
)

func init() {
	utils.RegisterValidation("transcriptid", "must be a non-empty identifier without path separators, '..' or NUL, at most 191 bytes",
		func(fl validator.FieldLevel) bool {
			return transcript.ValidateIdentifier(fl.Field().String()) == nil
		})
	utils.RegisterValidation("timestamp", "must be an ISO-8601 timestamp or a Unix epoch",
		func(fl validator.FieldLevel) bool {
			return transcript.ValidTimestamp(fl.Field().String())
		})
}

type TicketPayload struct {
	TranscriptID string `json:"transcript_id" yaml:"transcript_id" validate:"required,transcriptid"`
	ChannelID    string `json:"channel_id" yaml:"channel_id"`
	CreatorName  string `json:"creator_name" yaml:"creator_name"`
	CreatorID    string `json:"creator_id" yaml:"creator_id"`
	Topic        string `json:"topic" yaml:"topic"`
	CreatedAt    string `json:"created_at" yaml:"created_at" validate:"timestamp"`
	ClosedAt     string `json:"closed_at" yaml:"closed_at" validate:"timestamp"`
	ClosedByName string `json:"closed_by_name" yaml:"closed_by_name"`
}

type MessagePayload struct {
	AuthorName   string `json:"author_name" yaml:"author_name" validate:"required"`
	AuthorAvatar string `json:"author_avatar,omitempty" yaml:"author_avatar,omitempty"`
	IsAdmin      bool   `json:"is_admin" yaml:"is_admin"`
	Content      string `json:"content" yaml:"content"`
	Timestamp    string `json:"timestamp" yaml:"timestamp" validate:"timestamp"`
}

// SubmitTranscriptRequest is the body the bot posts when a ticket closes.
// Messages may be empty but must be present.
type SubmitTranscriptRequest struct {
	Ticket   *TicketPayload   `json:"ticket" yaml:"ticket" validate:"required"`
	Messages []MessagePayload `json:"messages" yaml:"messages" validate:"required,dive"`
}

// DecodeSubmitTranscriptRequest parses a raw JSON body. Malformed JSON is a
// validation error.
func DecodeSubmitTranscriptRequest(payload []byte) (*SubmitTranscriptRequest, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, errors.NewValidationError("request body is empty")
	}

	var req SubmitTranscriptRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, errors.NewValidationError("invalid JSON payload", err.Error())
	}
	return &req, nil
}

func (r *SubmitTranscriptRequest) Validate() error {
	return utils.ValidateStruct(r)
}

// ToTranscript builds the domain aggregate. Call Validate first.
func (r *SubmitTranscriptRequest) ToTranscript() (*transcript.Transcript, error) {
	if r.Ticket == nil {
		return nil, fmt.Errorf("ticket is required")
	}

	ticket, err := transcript.NewTicket(transcript.TicketParams{
		TranscriptID: r.Ticket.TranscriptID,
		ChannelID:    r.Ticket.ChannelID,
		CreatorName:  r.Ticket.CreatorName,
		CreatorID:    r.Ticket.CreatorID,
		Topic:        r.Ticket.Topic,
		CreatedAt:    r.Ticket.CreatedAt,
		ClosedAt:     r.Ticket.ClosedAt,
		ClosedByName: r.Ticket.ClosedByName,
	})
	if err != nil {
		return nil, err
	}

	messages := make([]*transcript.Message, 0, len(r.Messages))
	for i, m := range r.Messages {
		msg, err := transcript.NewMessage(transcript.MessageParams{
			AuthorName:   m.AuthorName,
			AuthorAvatar: m.AuthorAvatar,
			IsAdmin:      m.IsAdmin,
			Content:      m.Content,
			Timestamp:    m.Timestamp,
		})
		if err != nil {
			return nil, fmt.Errorf("messages[%d]: %w", i, err)
		}
		messages = append(messages, msg)
	}

	return transcript.NewTranscript(ticket, messages)
}

// FromTranscript converts a stored transcript back to the submission shape,
// so exports can be re-submitted unchanged.
func FromTranscript(t *transcript.Transcript) *SubmitTranscriptRequest {
	tp := t.Ticket().Params()
	req := &SubmitTranscriptRequest{
		Ticket: &TicketPayload{
			TranscriptID: tp.TranscriptID,
			ChannelID:    tp.ChannelID,
			CreatorName:  tp.CreatorName,
			CreatorID:    tp.CreatorID,
			Topic:        tp.Topic,
			CreatedAt:    tp.CreatedAt,
			ClosedAt:     tp.ClosedAt,
			ClosedByName: tp.ClosedByName,
		},
		Messages: make([]MessagePayload, 0, t.MessageCount()),
	}
	for _, m := range t.MessageParams() {
		req.Messages = append(req.Messages, MessagePayload{
			AuthorName:   m.AuthorName,
			AuthorAvatar: m.AuthorAvatar,
			IsAdmin:      m.IsAdmin,
			Content:      m.Content,
			Timestamp:    m.Timestamp,
		})
	}
	return req
}

// SubmitTranscriptResponse keeps the top-level "url" field bot clients read.
type SubmitTranscriptResponse struct {
	Success      bool   `json:"success" example:"true"`
	URL          string `json:"url" example:"https://transcripts.example.com/3f2a9c1e-7b4d-4e0a-9f6b-2c8d1e5a7b90"`
	TranscriptID string `json:"transcript_id" example:"3f2a9c1e-7b4d-4e0a-9f6b-2c8d1e5a7b90"`
}
