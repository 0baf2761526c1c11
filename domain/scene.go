package domain

// Phase is the scene pipeline's explicit progress state. The two loading
// phases are transient; a failed command always falls back to the last
// committed phase instead of parking in a dedicated error phase.
type Phase string

const (
	PhaseIdle            Phase = "idle"
	PhaseGeneratingImage Phase = "generating_image"
	PhaseImageReady      Phase = "image_ready"
	PhaseGeneratingAudio Phase = "generating_audio"
	PhaseAudioReady      Phase = "audio_ready"
)

// Loading reports whether a command is currently in flight. This is the
// sole concurrency guard: commands refuse to start while it holds.
func (p Phase) Loading() bool {
	return p == PhaseGeneratingImage || p == PhaseGeneratingAudio
}

// CharacterDescriptions maps character names to visual descriptions. The
// prompt collaborator replaces it wholesale on every successful call so a
// recurring character keeps a stable appearance across verses.
type CharacterDescriptions map[string]string

// Clone returns an independent copy so snapshots never alias live state.
func (c CharacterDescriptions) Clone() CharacterDescriptions {
	if c == nil {
		return nil
	}
	out := make(CharacterDescriptions, len(c))
	for name, desc := range c {
		out[name] = desc
	}
	return out
}

// ResourceHandle identifies decoded playable audio registered with the
// resource manager. Opaque to everything but the manager itself.
type ResourceHandle string

// ScenePipelineState is the orchestrator's full observable state, exposed
// as an immutable snapshot.
type ScenePipelineState struct {
	Reference             Reference
	CharacterDescriptions CharacterDescriptions
	Image                 []byte
	NarratedText          string
	AudioResource         ResourceHandle
	Phase                 Phase
	LastError             error
}

// StageEventKind tags a progress event as a stage being entered, a stage
// committing its result, or a command failing.
type StageEventKind string

const (
	StageStarted  StageEventKind = "started"
	StageFinished StageEventKind = "finished"
	StageFailed   StageEventKind = "failed"
)

// StageEvent is emitted at every pipeline suspension point so progress
// reporting stays decoupled from the control logic.
type StageEvent struct {
	Kind      StageEventKind `json:"kind"`
	Stage     Stage          `json:"stage"`
	Reference string         `json:"reference"`
	Message   string         `json:"message,omitempty"`
}
