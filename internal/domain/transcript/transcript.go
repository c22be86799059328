// Package transcript holds the archived ticket conversation aggregate: a
// Ticket and the Messages it owns, in submission order.
package transcript

import (
	"errors"
	"fmt"
)

var (
	ErrTranscriptNotFound = errors.New("transcript not found")
	ErrTranscriptExists   = errors.New("transcript already exists")
)

// ConflictPolicy decides what Create does when the identifier is taken.
type ConflictPolicy string

const (
	// ConflictOverwrite replaces the stored ticket and its whole message list.
	ConflictOverwrite ConflictPolicy = "overwrite"
	// ConflictReject fails with ErrTranscriptExists.
	ConflictReject ConflictPolicy = "reject"
)

func (p ConflictPolicy) IsValid() bool {
	return p == ConflictOverwrite || p == ConflictReject
}

func (p ConflictPolicy) String() string {
	return string(p)
}

// ParseConflictPolicy maps a config value to a policy, defaulting to overwrite.
func ParseConflictPolicy(s string) (ConflictPolicy, error) {
	if s == "" {
		return ConflictOverwrite, nil
	}
	p := ConflictPolicy(s)
	if !p.IsValid() {
		return "", fmt.Errorf("unknown conflict policy %q", s)
	}
	return p, nil
}

// Transcript is created as a unit and never mutated afterwards.
type Transcript struct {
	ticket   *Ticket
	messages []*Message
}

func NewTranscript(ticket *Ticket, messages []*Message) (*Transcript, error) {
	if ticket == nil {
		return nil, fmt.Errorf("ticket is required")
	}
	for i, m := range messages {
		if m == nil {
			return nil, fmt.Errorf("message %d is nil", i)
		}
	}

	owned := make([]*Message, len(messages))
	copy(owned, messages)

	return &Transcript{
		ticket:   ticket,
		messages: owned,
	}, nil
}

// Reconstruct rebuilds a transcript from stored fields, validating them the
// same way ingestion does so malformed records surface as errors.
func Reconstruct(ticket TicketParams, messages []MessageParams) (*Transcript, error) {
	t, err := NewTicket(ticket)
	if err != nil {
		return nil, fmt.Errorf("stored ticket: %w", err)
	}

	msgs := make([]*Message, 0, len(messages))
	for i, p := range messages {
		m, err := NewMessage(p)
		if err != nil {
			return nil, fmt.Errorf("stored message %d: %w", i, err)
		}
		msgs = append(msgs, m)
	}

	return NewTranscript(t, msgs)
}

func (t *Transcript) ID() string {
	return t.ticket.TranscriptID()
}

func (t *Transcript) Ticket() *Ticket {
	return t.ticket
}

// Messages returns the messages in submission order.
func (t *Transcript) Messages() []*Message {
	out := make([]*Message, len(t.messages))
	copy(out, t.messages)
	return out
}

func (t *Transcript) MessageCount() int {
	return len(t.messages)
}

// MessageParams returns every message's fields in submission order.
func (t *Transcript) MessageParams() []MessageParams {
	out := make([]MessageParams, len(t.messages))
	for i, m := range t.messages {
		out[i] = m.Params()
	}
	return out
}
