package domain

import (
	"errors"
	"testing"
)

func TestParseReference(t *testing.T) {
	cases := []struct {
		raw  string
		want Reference
	}{
		{"John 3:16", Reference{Book: "John", Chapter: 3, Verse: 16}},
		{"  John 3:16  ", Reference{Book: "John", Chapter: 3, Verse: 16}},
		{"1 Corinthians 13:4", Reference{Book: "1 Corinthians", Chapter: 13, Verse: 4}},
		{"Song of Solomon 2:1", Reference{Book: "Song of Solomon", Chapter: 2, Verse: 1}},
		{"Gênesis 1:1", Reference{Book: "Gênesis", Chapter: 1, Verse: 1}},
	}

	for _, tc := range cases {
		got, err := ParseReference(tc.raw)
		if err != nil {
			t.Errorf("ParseReference(%q): unexpected error %v", tc.raw, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseReference(%q) = %+v, want %+v", tc.raw, got, tc.want)
		}
	}
}

func TestParseReferenceRejects(t *testing.T) {
	for _, raw := range []string{
		"",
		"   ",
		"John",
		"John 3",
		"John 3:",
		"3:16",
		" 3:16",
		"John 0:16",
		"John 3:0",
		"John three:sixteen",
		"John 3 4:5",
		"John 3:16 4:5",
		"123 4:5",
	} {
		if _, err := ParseReference(raw); !errors.Is(err, ErrInvalidReference) {
			t.Errorf("ParseReference(%q): got %v, want ErrInvalidReference", raw, err)
		}
	}
}

func TestReferenceCanonicalRoundTrip(t *testing.T) {
	for _, raw := range []string{"John 3:16", "  Psalm 23:1 ", "1 John 4:8"} {
		ref, err := ParseReference(raw)
		if err != nil {
			t.Fatalf("ParseReference(%q): %v", raw, err)
		}
		again, err := ParseReference(ref.String())
		if err != nil {
			t.Fatalf("ParseReference(%q): %v", ref.String(), err)
		}
		if again != ref {
			t.Errorf("round trip of %q: got %+v, want %+v", raw, again, ref)
		}
	}
}

func TestReferenceNext(t *testing.T) {
	ref := Reference{Book: "Luke", Chapter: 2, Verse: 8}
	next := ref.Next().Next()

	if next.Verse != 10 {
		t.Errorf("verse after two Next calls: got %d, want 10", next.Verse)
	}
	if next.Book != "Luke" || next.Chapter != 2 {
		t.Errorf("Next must not touch book or chapter: got %+v", next)
	}
	if ref.Verse != 8 {
		t.Errorf("Next must not mutate the receiver: got %+v", ref)
	}
}

func TestReferenceImageFilename(t *testing.T) {
	ref := Reference{Book: "1 Corinthians", Chapter: 13, Verse: 4}
	if got, want := ref.ImageFilename(), "1_corinthians_13_4.jpg"; got != want {
		t.Errorf("ImageFilename: got %q, want %q", got, want)
	}
}
