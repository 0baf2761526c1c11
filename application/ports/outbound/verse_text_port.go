package outbound

import "context"

// VerseTextPort resolves a canonical reference to the verse text in the
// requested language. A reference that does not exist in the source text
// fails with domain.VerseNotFoundError.
type VerseTextPort interface {
	Fetch(ctx context.Context, reference string, languageCode string) (string, error)
}
