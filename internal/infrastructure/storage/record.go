// Package storage holds the file and object-store transcript backends.
// Both persist one JSON document per transcript in the same shape the bot
// submits, so records written by older deployments stay readable.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/velorie/ticketarchive/internal/domain/transcript"
)

type ticketRecord struct {
	TranscriptID lenientString `json:"transcript_id"`
	ChannelID    lenientString `json:"channel_id"`
	CreatorName  lenientString `json:"creator_name"`
	CreatorID    lenientString `json:"creator_id"`
	Topic        lenientString `json:"topic"`
	CreatedAt    lenientString `json:"created_at"`
	ClosedAt     lenientString `json:"closed_at"`
	ClosedByName lenientString `json:"closed_by_name"`
}

type messageRecord struct {
	AuthorName   lenientString `json:"author_name"`
	AuthorAvatar lenientString `json:"author_avatar,omitempty"`
	IsAdmin      bool          `json:"is_admin"`
	Content      lenientString `json:"content"`
	Timestamp    lenientString `json:"timestamp"`
}

type transcriptRecord struct {
	Ticket   ticketRecord    `json:"ticket"`
	Messages []messageRecord `json:"messages"`
}

// lenientString also accepts JSON numbers and null, which older bots sent
// for ids and epoch timestamps.
type lenientString string

func (s *lenientString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = lenientString(v)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("expected string or number, got %s", data)
		}
		*s = lenientString(n.String())
		return nil
	}
}

func newRecord(t *transcript.Transcript) transcriptRecord {
	tp := t.Ticket().Params()
	rec := transcriptRecord{
		Ticket: ticketRecord{
			TranscriptID: lenientString(tp.TranscriptID),
			ChannelID:    lenientString(tp.ChannelID),
			CreatorName:  lenientString(tp.CreatorName),
			CreatorID:    lenientString(tp.CreatorID),
			Topic:        lenientString(tp.Topic),
			CreatedAt:    lenientString(tp.CreatedAt),
			ClosedAt:     lenientString(tp.ClosedAt),
			ClosedByName: lenientString(tp.ClosedByName),
		},
		Messages: make([]messageRecord, 0, t.MessageCount()),
	}
	for _, m := range t.MessageParams() {
		rec.Messages = append(rec.Messages, messageRecord{
			AuthorName:   lenientString(m.AuthorName),
			AuthorAvatar: lenientString(m.AuthorAvatar),
			IsAdmin:      m.IsAdmin,
			Content:      lenientString(m.Content),
			Timestamp:    lenientString(m.Timestamp),
		})
	}
	return rec
}

func (r transcriptRecord) toTranscript() (*transcript.Transcript, error) {
	messages := make([]transcript.MessageParams, 0, len(r.Messages))
	for _, m := range r.Messages {
		messages = append(messages, transcript.MessageParams{
			AuthorName:   string(m.AuthorName),
			AuthorAvatar: string(m.AuthorAvatar),
			IsAdmin:      m.IsAdmin,
			Content:      string(m.Content),
			Timestamp:    string(m.Timestamp),
		})
	}

	return transcript.Reconstruct(transcript.TicketParams{
		TranscriptID: string(r.Ticket.TranscriptID),
		ChannelID:    string(r.Ticket.ChannelID),
		CreatorName:  string(r.Ticket.CreatorName),
		CreatorID:    string(r.Ticket.CreatorID),
		Topic:        string(r.Ticket.Topic),
		CreatedAt:    string(r.Ticket.CreatedAt),
		ClosedAt:     string(r.Ticket.ClosedAt),
		ClosedByName: string(r.Ticket.ClosedByName),
	}, messages)
}

func encodeRecord(t *transcript.Transcript) ([]byte, error) {
	data, err := json.MarshalIndent(newRecord(t), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode transcript %s: %w", t.ID(), err)
	}
	return data, nil
}

// decodeRecord parses a stored document. The identifier the record was
// stored under wins over a missing or different one inside the document.
func decodeRecord(id string, data []byte) (*transcript.Transcript, error) {
	var rec transcriptRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode transcript %s: %w", strconv.Quote(id), err)
	}
	rec.Ticket.TranscriptID = lenientString(id)

	t, err := rec.toTranscript()
	if err != nil {
		return nil, fmt.Errorf("invalid stored transcript %s: %w", strconv.Quote(id), err)
	}
	return t, nil
}
