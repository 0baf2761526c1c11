package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// referencePattern matches "<book> <chapter>:<verse>" where the book name is
// any non-empty text not ending in digits. Anchoring the book group on a
// non-digit keeps "John 3 4:5" from parsing with a book of "John 3".
var referencePattern = regexp.MustCompile(`^(.*\D)\s+(\d+):(\d+)$`)

// Reference is a book/chapter/verse address into the source text. Immutable
// once parsed; Next derives a new value instead of mutating.
type Reference struct {
	Book    string
	Chapter int
	Verse   int
}

// ParseReference parses a raw human-written reference such as "John 3:16".
// Surrounding whitespace is trimmed. An unparsable string yields
// ErrInvalidReference so callers can disable the triggering action instead
// of failing the pipeline.
func ParseReference(raw string) (Reference, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Reference{}, ErrInvalidReference
	}

	match := referencePattern.FindStringSubmatch(trimmed)
	if match == nil {
		return Reference{}, ErrInvalidReference
	}

	chapter, err := strconv.Atoi(match[2])
	if err != nil || chapter < 1 {
		return Reference{}, ErrInvalidReference
	}

	verse, err := strconv.Atoi(match[3])
	if err != nil || verse < 1 {
		return Reference{}, ErrInvalidReference
	}

	return Reference{
		Book:    strings.TrimSpace(match[1]),
		Chapter: chapter,
		Verse:   verse,
	}, nil
}

// String renders the canonical "<book> <chapter>:<verse>" form expected by
// every downstream collaborator.
func (r Reference) String() string {
	return fmt.Sprintf("%s %d:%d", r.Book, r.Chapter, r.Verse)
}

// Next returns the address of the following verse. Whether that verse exists
// in the source text is decided by the verse lookup collaborator, not here.
func (r Reference) Next() Reference {
	return Reference{
		Book:    r.Book,
		Chapter: r.Chapter,
		Verse:   r.Verse + 1,
	}
}

// IsZero reports whether no reference has been committed yet.
func (r Reference) IsZero() bool {
	return r.Book == "" && r.Chapter == 0 && r.Verse == 0
}

// ImageFilename derives the download filename for the scene image:
// canonical form lower-cased with ':' and spaces replaced by '_'.
func (r Reference) ImageFilename() string {
	name := strings.ToLower(r.String())
	name = strings.ReplaceAll(name, ":", "_")
	name = strings.ReplaceAll(name, " ", "_")
	return name + ".jpg"
}
