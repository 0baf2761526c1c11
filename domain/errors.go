package domain

import (
	"errors"
	"fmt"
)

// Stage names the pipeline step a failure originated from, so callers can
// tell a verse lookup failure apart from a synthesis failure.
type Stage string

const (
	StagePrompt    Stage = "prompt"
	StageImage     Stage = "image"
	StageVerseText Stage = "verse_text"
	StageSpeech    Stage = "speech"
)

// Command guard rejections. None of these is ever stored in the pipeline's
// LastError; they only signal that the triggering action is unavailable.
var (
	ErrInvalidReference    = errors.New("reference does not match <book> <chapter>:<verse>")
	ErrGenerationInFlight  = errors.New("a generation is already in flight")
	ErrNoImageForNarration = errors.New("narration requires an already generated scene image")
	ErrSessionClosed       = errors.New("the session has been closed")
)

// ErrStatusNotFound is returned by the content fetcher on HTTP 404 so the
// verse adapter can map it to VerseNotFoundError.
var ErrStatusNotFound = errors.New("resource not found")

const defaultFailureMessage = "generation failed for an unknown reason"

// VerseNotFoundError marks a well-formed reference that does not resolve to
// real source text. The user must correct the reference or reset.
type VerseNotFoundError struct {
	Reference string
	Stage     Stage
}

func (e *VerseNotFoundError) Error() string {
	return fmt.Sprintf("verse %q does not exist in the source text", e.Reference)
}

// CommunicationError marks a transport or server-side failure from a
// collaborator. Never retried by the pipeline.
type CommunicationError struct {
	Stage Stage
	Cause error
}

func (e *CommunicationError) Error() string {
	return fmt.Sprintf("communication with the %s service failed: %v", e.Stage, e.Cause)
}

func (e *CommunicationError) Unwrap() error { return e.Cause }

// GenerationError covers every remaining collaborator failure, with a
// default message when the cause carries none.
type GenerationError struct {
	Stage Stage
	Cause error
}

func (e *GenerationError) Error() string {
	if e.Cause == nil || e.Cause.Error() == "" {
		return defaultFailureMessage
	}
	return e.Cause.Error()
}

func (e *GenerationError) Unwrap() error { return e.Cause }

// ClassifyFailure wraps an arbitrary collaborator error into exactly one of
// the taxonomy types, tagging it with the stage it came from. Already
// classified errors pass through with their stage filled in when missing.
func ClassifyFailure(stage Stage, reference string, err error) error {
	if err == nil {
		return nil
	}

	var notFound *VerseNotFoundError
	if errors.As(err, &notFound) {
		if notFound.Stage == "" {
			notFound.Stage = stage
		}
		return notFound
	}
	if errors.Is(err, ErrStatusNotFound) {
		return &VerseNotFoundError{Reference: reference, Stage: stage}
	}

	var comm *CommunicationError
	if errors.As(err, &comm) {
		if comm.Stage == "" {
			comm.Stage = stage
		}
		return comm
	}

	var gen *GenerationError
	if errors.As(err, &gen) {
		if gen.Stage == "" {
			gen.Stage = stage
		}
		return gen
	}

	return &GenerationError{Stage: stage, Cause: err}
}
