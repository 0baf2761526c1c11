package mock_collab

import (
	"context"

	"verse-scene-api/application/ports/outbound"
	"verse-scene-api/domain"
)

// cannedVerses is a tiny per-language excerpt of the source text. Anything
// outside it fails with VerseNotFoundError, which also exercises the
// not-found path offline.
var cannedVerses = map[string]map[string]string{
	"pt-BR": {
		"John 3:16":   "Porque Deus amou o mundo de tal maneira que deu o seu Filho unigênito.",
		"John 3:17":   "Porque Deus enviou o seu Filho ao mundo, não para que condenasse o mundo.",
		"Genesis 1:1": "No princípio criou Deus os céus e a terra.",
		"Psalm 23:1":  "O Senhor é o meu pastor, nada me faltará.",
	},
	"en-US": {
		"John 3:16":   "For God so loved the world, that he gave his only begotten Son.",
		"John 3:17":   "For God sent not his Son into the world to condemn the world.",
		"Genesis 1:1": "In the beginning God created the heaven and the earth.",
		"Psalm 23:1":  "The Lord is my shepherd; I shall not want.",
	},
	"es-ES": {
		"John 3:16":   "Porque de tal manera amó Dios al mundo, que ha dado a su Hijo unigénito.",
		"Genesis 1:1": "En el principio creó Dios los cielos y la tierra.",
	},
}

type mockVerseText struct{}

func NewMockVerseText() outbound.VerseTextPort {
	return &mockVerseText{}
}

func (m *mockVerseText) Fetch(_ context.Context, reference string, languageCode string) (string, error) {
	verses, ok := cannedVerses[languageCode]
	if !ok {
		return "", &domain.VerseNotFoundError{Reference: reference, Stage: domain.StageVerseText}
	}
	text, ok := verses[reference]
	if !ok {
		return "", &domain.VerseNotFoundError{Reference: reference, Stage: domain.StageVerseText}
	}
	return text, nil
}
