package models

// TranscriptTicketModel is one archived ticket. Timestamps are stored exactly
// as submitted.
type TranscriptTicketModel struct {
	TranscriptID string `gorm:"column:transcript_id;primaryKey;size:191"`
	ChannelID    string `gorm:"column:channel_id;size:191;not null;default:''"`
	CreatorName  string `gorm:"column:creator_name;type:text;not null"`
	CreatorID    string `gorm:"column:creator_id;size:191;not null;default:''"`
	Topic        string `gorm:"column:topic;type:text;not null"`
	CreatedAt    string `gorm:"column:created_at;size:64;not null;default:''"`
	ClosedAt     string `gorm:"column:closed_at;size:64;not null;default:''"`
	ClosedByName string `gorm:"column:closed_by_name;type:text;not null"`
	StoredAt     int64  `gorm:"column:stored_at;not null"`
}

func (TranscriptTicketModel) TableName() string {
	return "transcript_tickets"
}

// TranscriptMessageModel is one message; Seq is its zero-based position in
// the submitted list.
type TranscriptMessageModel struct {
	TranscriptID string `gorm:"column:transcript_id;primaryKey;size:191"`
	Seq          int    `gorm:"column:seq;primaryKey;autoIncrement:false"`
	AuthorName   string `gorm:"column:author_name;type:text;not null"`
	AuthorAvatar string `gorm:"column:author_avatar;type:text;not null"`
	IsAdmin      bool   `gorm:"column:is_admin;not null;default:false"`
	Content      string `gorm:"column:content;type:text;not null"`
	SentAt       string `gorm:"column:sent_at;size:64;not null;default:''"`
}

func (TranscriptMessageModel) TableName() string {
	return "transcript_messages"
}
