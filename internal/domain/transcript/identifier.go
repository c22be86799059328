package transcript

import (
	"errors"
	"fmt"
	"strings"
)

// MaxIdentifierLength matches the width of the SQL primary key column.
const MaxIdentifierLength = 191

var ErrInvalidIdentifier = errors.New("invalid transcript identifier")

// ValidateIdentifier checks that a bot-supplied identifier can be used
// verbatim as a lookup key by every storage backend. The identifier is never
// normalized.
func ValidateIdentifier(id string) error {
	if id == "" {
		return fmt.Errorf("%w: transcript_id is required", ErrInvalidIdentifier)
	}
	if len(id) > MaxIdentifierLength {
		return fmt.Errorf("%w: transcript_id exceeds %d bytes", ErrInvalidIdentifier, MaxIdentifierLength)
	}
	if strings.ContainsAny(id, "/\\\x00") {
		return fmt.Errorf("%w: transcript_id contains a path separator or NUL byte", ErrInvalidIdentifier)
	}
	if strings.Contains(id, "..") {
		return fmt.Errorf("%w: transcript_id contains '..'", ErrInvalidIdentifier)
	}
	return nil
}

// DisplayPrefixLength is how many leading characters of the identifier are
// shown to viewers.
const DisplayPrefixLength = 8

// DisplayPrefix returns the first DisplayPrefixLength characters of id.
// It is a display convenience only and never used for lookups.
func DisplayPrefix(id string) string {
	runes := []rune(id)
	if len(runes) > DisplayPrefixLength {
		runes = runes[:DisplayPrefixLength]
	}
	return string(runes)
}
