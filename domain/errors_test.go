package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifyFailureWrapsUnknownErrors(t *testing.T) {
	cause := fmt.Errorf("upstream exploded")
	err := ClassifyFailure(StageImage, "John 3:16", cause)

	var gen *GenerationError
	if !errors.As(err, &gen) {
		t.Fatalf("expected GenerationError, got %T", err)
	}
	if gen.Stage != StageImage {
		t.Errorf("stage: got %q, want %q", gen.Stage, StageImage)
	}
	if !errors.Is(err, cause) {
		t.Error("classified error must unwrap to its cause")
	}
}

func TestClassifyFailureMapsNotFound(t *testing.T) {
	err := ClassifyFailure(StageVerseText, "John 99:99", fmt.Errorf("lookup: %w", ErrStatusNotFound))

	var notFound *VerseNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected VerseNotFoundError, got %T", err)
	}
	if notFound.Reference != "John 99:99" {
		t.Errorf("reference: got %q", notFound.Reference)
	}
	if notFound.Stage != StageVerseText {
		t.Errorf("stage: got %q", notFound.Stage)
	}
}

func TestClassifyFailurePassesThroughClassified(t *testing.T) {
	comm := &CommunicationError{Cause: fmt.Errorf("status 503")}
	err := ClassifyFailure(StageSpeech, "", comm)

	var got *CommunicationError
	if !errors.As(err, &got) {
		t.Fatalf("expected CommunicationError, got %T", err)
	}
	if got.Stage != StageSpeech {
		t.Errorf("stage must be filled in on passthrough: got %q", got.Stage)
	}
}

func TestGenerationErrorDefaultMessage(t *testing.T) {
	err := &GenerationError{Stage: StagePrompt}
	if err.Error() != defaultFailureMessage {
		t.Errorf("nil cause message: got %q", err.Error())
	}
}

func TestClassifyFailureNil(t *testing.T) {
	if err := ClassifyFailure(StagePrompt, "", nil); err != nil {
		t.Errorf("nil error must classify to nil, got %v", err)
	}
}
