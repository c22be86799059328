package transcript

// TicketParams carries the ticket metadata submitted by the bot.
type TicketParams struct {
	TranscriptID string
	ChannelID    string
	CreatorName  string
	CreatorID    string
	Topic        string
	CreatedAt    string
	ClosedAt     string
	ClosedByName string
}

// Ticket is the metadata envelope of a transcript. Timestamps are kept
// exactly as submitted.
type Ticket struct {
	transcriptID string
	channelID    string
	creatorName  string
	creatorID    string
	topic        string
	createdAt    string
	closedAt     string
	closedByName string
}

func NewTicket(p TicketParams) (*Ticket, error) {
	if err := ValidateIdentifier(p.TranscriptID); err != nil {
		return nil, err
	}

	return &Ticket{
		transcriptID: p.TranscriptID,
		channelID:    p.ChannelID,
		creatorName:  p.CreatorName,
		creatorID:    p.CreatorID,
		topic:        p.Topic,
		createdAt:    p.CreatedAt,
		closedAt:     p.ClosedAt,
		closedByName: p.ClosedByName,
	}, nil
}

func (t *Ticket) TranscriptID() string {
	return t.transcriptID
}

func (t *Ticket) ChannelID() string {
	return t.channelID
}

func (t *Ticket) CreatorName() string {
	return t.creatorName
}

func (t *Ticket) CreatorID() string {
	return t.creatorID
}

func (t *Ticket) Topic() string {
	return t.topic
}

func (t *Ticket) CreatedAt() string {
	return t.createdAt
}

func (t *Ticket) ClosedAt() string {
	return t.closedAt
}

func (t *Ticket) ClosedByName() string {
	return t.closedByName
}

// Params returns the ticket fields in their submitted form.
func (t *Ticket) Params() TicketParams {
	return TicketParams{
		TranscriptID: t.transcriptID,
		ChannelID:    t.channelID,
		CreatorName:  t.creatorName,
		CreatorID:    t.creatorID,
		Topic:        t.topic,
		CreatedAt:    t.createdAt,
		ClosedAt:     t.closedAt,
		ClosedByName: t.closedByName,
	}
}

// ClosedBeforeCreated reports a closed_at earlier than created_at. Such
// tickets are stored as given; callers only log the discrepancy.
func (t *Ticket) ClosedBeforeCreated() bool {
	if t.createdAt == "" || t.closedAt == "" {
		return false
	}
	created, err := ParseTimestamp(t.createdAt)
	if err != nil {
		return false
	}
	closed, err := ParseTimestamp(t.closedAt)
	if err != nil {
		return false
	}
	return closed.Before(created)
}
