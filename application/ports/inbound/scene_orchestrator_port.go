package inbound

import (
	"context"

	"verse-scene-api/domain"
)

// SceneOrchestratorPort drives the scene pipeline. Commands are mutually
// exclusive per orchestrator instance: a command started while another is
// in flight is rejected with domain.ErrGenerationInFlight and leaves the
// pipeline untouched.
type SceneOrchestratorPort interface {
	// GenerateScene parses rawReference and runs prompt then image
	// generation. Rejects with domain.ErrInvalidReference when the raw
	// string does not parse.
	GenerateScene(ctx context.Context, rawReference string) error

	// NextVerse re-runs the scene pipeline for the verse after the current
	// one, keeping character descriptions so depicted characters stay
	// consistent.
	NextVerse(ctx context.Context) error

	// GenerateNarration fetches the verse text, synthesizes speech and
	// registers the playable container. Requires an already generated image.
	GenerateNarration(ctx context.Context) error

	// Reset clears all pipeline state, revoking any outstanding audio
	// resource, and returns to the idle phase.
	Reset()

	// Snapshot returns an atomic copy of the observable pipeline state.
	Snapshot() domain.ScenePipelineState

	// CurrentAudio resolves the outstanding resource handle to its playable
	// container bytes. Reports false when no narration is ready.
	CurrentAudio() ([]byte, bool)

	// SetAspectRatio selects the image aspect ratio ("9:16" or "16:9").
	// Caller configuration, not pipeline state.
	SetAspectRatio(ratio string) error

	// SetNarrationLanguage selects the verse text locale from the
	// configured set.
	SetNarrationLanguage(code string) error

	// Events exposes the stage progress stream. Closed by Close.
	Events() <-chan domain.StageEvent

	// Close tears the orchestrator down, releasing every held resource.
	// Commands resuming after Close commit nothing and return
	// domain.ErrSessionClosed, as do commands started afterwards.
	Close()
}
