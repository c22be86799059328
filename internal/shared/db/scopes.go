package db

import (
	"gorm.io/gorm"
)

// ByTranscriptID is a GORM scope that restricts a query to one transcript.
//
// Example usage:
//
//	tx.Scopes(db.ByTranscriptID(id)).Delete(&models.TranscriptMessageModel{})
func ByTranscriptID(id string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("transcript_id = ?", id)
	}
}

// InSubmissionOrder is a GORM scope that orders message rows by position.
func InSubmissionOrder() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order("seq ASC")
	}
}
