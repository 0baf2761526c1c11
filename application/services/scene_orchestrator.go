package services

import (
	"context"
	"sync"

	"verse-scene-api/application/ports/inbound"
	"verse-scene-api/application/ports/outbound"
	"verse-scene-api/audio_utils"
	"verse-scene-api/config"
	"verse-scene-api/domain"
)

const eventBufferSize = 16

// sceneOrchestrator is the pipeline state machine. Mutual exclusion between
// commands comes from the loading guard alone: a command that finds another
// in flight is rejected up front and never touches the pipeline. The mutex
// only makes individual transitions atomic for concurrent readers;
// collaborator calls always happen outside it.
type sceneOrchestrator struct {
	logger    outbound.LoggerPort
	prompts   outbound.ScenePromptGeneratorPort
	images    outbound.ImageGeneratorPort
	verses    outbound.VerseTextPort
	speech    outbound.SpeechSynthesizerPort
	resources outbound.AudioResourcePort

	mu          sync.Mutex
	closed      bool
	phase       domain.Phase
	reference   domain.Reference
	characters  domain.CharacterDescriptions
	image       []byte
	narrated    string
	audioHandle domain.ResourceHandle
	lastError   error

	aspectRatio string
	language    string
	voiceStyle  string
	languages   []string

	events    chan domain.StageEvent
	closeOnce sync.Once
}

func NewSceneOrchestrator(logger outbound.LoggerPort, prompts outbound.ScenePromptGeneratorPort,
	images outbound.ImageGeneratorPort, verses outbound.VerseTextPort, speech outbound.SpeechSynthesizerPort,
	resources outbound.AudioResourcePort, sceneConfig *config.SceneConfig) inbound.SceneOrchestratorPort {
	return &sceneOrchestrator{
		logger:      logger,
		prompts:     prompts,
		images:      images,
		verses:      verses,
		speech:      speech,
		resources:   resources,
		phase:       domain.PhaseIdle,
		characters:  domain.CharacterDescriptions{},
		aspectRatio: sceneConfig.AspectRatio,
		language:    sceneConfig.LanguageCode,
		voiceStyle:  sceneConfig.VoiceStyle,
		languages:   sceneConfig.Languages,
		events:      make(chan domain.StageEvent, eventBufferSize),
	}
}

func (s *sceneOrchestrator) GenerateScene(ctx context.Context, rawReference string) error {
	reference, err := domain.ParseReference(rawReference)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrSessionClosed
	}
	if s.phase.Loading() {
		s.mu.Unlock()
		return domain.ErrGenerationInFlight
	}
	fallback := domain.PhaseIdle
	s.phase = domain.PhaseGeneratingImage
	s.reference = reference
	s.image = nil
	s.narrated = ""
	s.lastError = nil
	s.revokeAudioLocked()
	priorCharacters := s.characters.Clone()
	aspectRatio := s.aspectRatio
	s.mu.Unlock()

	canonical := reference.String()

	s.emit(domain.StageStarted, domain.StagePrompt, canonical, "")
	promptResult, err := s.prompts.Generate(ctx, outbound.GenerateScenePromptRequest{
		Reference:             canonical,
		CharacterDescriptions: priorCharacters,
	})
	if err != nil {
		return s.fail(domain.StagePrompt, canonical, fallback, err)
	}
	s.emit(domain.StageFinished, domain.StagePrompt, canonical, "")

	if !s.commit(func() {
		s.characters = promptResult.CharacterDescriptions.Clone()
	}) {
		return domain.ErrSessionClosed
	}

	s.emit(domain.StageStarted, domain.StageImage, canonical, "")
	imageBytes, err := s.images.Generate(ctx, outbound.GenerateImageRequest{
		Prompt:      promptResult.ScenePrompt,
		AspectRatio: aspectRatio,
	})
	if err != nil {
		return s.fail(domain.StageImage, canonical, fallback, err)
	}

	if !s.commit(func() {
		s.image = imageBytes
		s.phase = domain.PhaseImageReady
	}) {
		return domain.ErrSessionClosed
	}

	s.emit(domain.StageFinished, domain.StageImage, canonical, "")
	s.logger.InfoWithFields("scene image committed", map[string]interface{}{
		"reference": canonical,
		"bytes":     len(imageBytes),
	})
	return nil
}

func (s *sceneOrchestrator) NextVerse(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrSessionClosed
	}
	if s.phase.Loading() {
		s.mu.Unlock()
		return domain.ErrGenerationInFlight
	}
	if s.reference.IsZero() {
		s.mu.Unlock()
		return domain.ErrInvalidReference
	}
	next := s.reference.Next()
	s.mu.Unlock()

	// Character descriptions survive GenerateScene, so recurring
	// characters keep their appearance on the following verse.
	return s.GenerateScene(ctx, next.String())
}

func (s *sceneOrchestrator) GenerateNarration(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrSessionClosed
	}
	if s.phase.Loading() {
		s.mu.Unlock()
		return domain.ErrGenerationInFlight
	}
	if s.phase != domain.PhaseImageReady && s.phase != domain.PhaseAudioReady {
		s.mu.Unlock()
		return domain.ErrNoImageForNarration
	}
	s.phase = domain.PhaseGeneratingAudio
	s.narrated = ""
	s.lastError = nil
	s.revokeAudioLocked()
	reference := s.reference
	language := s.language
	voiceStyle := s.voiceStyle
	s.mu.Unlock()

	canonical := reference.String()

	// The image already committed is preserved on every failure path.
	fallback := domain.PhaseImageReady

	s.emit(domain.StageStarted, domain.StageVerseText, canonical, "")
	verseText, err := s.verses.Fetch(ctx, canonical, language)
	if err != nil {
		return s.fail(domain.StageVerseText, canonical, fallback, err)
	}
	s.emit(domain.StageFinished, domain.StageVerseText, canonical, "")

	s.emit(domain.StageStarted, domain.StageSpeech, canonical, "")
	pcm, err := s.speech.Synthesize(ctx, outbound.SynthesizeSpeechRequest{
		Text:       verseText,
		VoiceStyle: voiceStyle,
	})
	if err != nil {
		return s.fail(domain.StageSpeech, canonical, fallback, err)
	}

	container := audio_utils.EncodeWAV(pcm)

	// Acquire inside the commit: a teardown racing this command must
	// never be left holding a handle it cannot see.
	if !s.commit(func() {
		s.narrated = verseText
		s.audioHandle = s.resources.Acquire(container)
		s.phase = domain.PhaseAudioReady
	}) {
		return domain.ErrSessionClosed
	}

	s.emit(domain.StageFinished, domain.StageSpeech, canonical, "")
	s.logger.InfoWithFields("narration committed", map[string]interface{}{
		"reference": canonical,
		"pcm_bytes": len(pcm),
	})
	return nil
}

func (s *sceneOrchestrator) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.revokeAudioLocked()
	s.phase = domain.PhaseIdle
	s.reference = domain.Reference{}
	s.characters = domain.CharacterDescriptions{}
	s.image = nil
	s.narrated = ""
	s.lastError = nil
}

func (s *sceneOrchestrator) Snapshot() domain.ScenePipelineState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return domain.ScenePipelineState{
		Reference:             s.reference,
		CharacterDescriptions: s.characters.Clone(),
		Image:                 s.image,
		NarratedText:          s.narrated,
		AudioResource:         s.audioHandle,
		Phase:                 s.phase,
		LastError:             s.lastError,
	}
}

func (s *sceneOrchestrator) CurrentAudio() ([]byte, bool) {
	s.mu.Lock()
	handle := s.audioHandle
	s.mu.Unlock()

	if handle == "" {
		return nil, false
	}
	return s.resources.Bytes(handle)
}

func (s *sceneOrchestrator) SetAspectRatio(ratio string) error {
	if ratio != config.AspectPortrait && ratio != config.AspectLandscape {
		return config.ErrUnsupportedAspectRatio
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aspectRatio = ratio
	return nil
}

func (s *sceneOrchestrator) SetNarrationLanguage(code string) error {
	supported := false
	for _, candidate := range s.languages {
		if candidate == code {
			supported = true
			break
		}
	}
	if !supported {
		return config.ErrUnsupportedLanguage
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.language = code
	return nil
}

func (s *sceneOrchestrator) Events() <-chan domain.StageEvent {
	return s.events
}

// Close tears the session down. Commands already suspended in a
// collaborator call keep running, but the closed flag stops them from
// committing anything or emitting on the closed event channel when they
// resume.
func (s *sceneOrchestrator) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.revokeAudioLocked()
		s.phase = domain.PhaseIdle
		s.reference = domain.Reference{}
		s.characters = domain.CharacterDescriptions{}
		s.image = nil
		s.narrated = ""
		s.lastError = nil
		close(s.events)
		s.mu.Unlock()

		s.resources.ReleaseAll()
	})
}

// commit applies a state transition unless the session was closed while
// the command was away in a collaborator call.
func (s *sceneOrchestrator) commit(transition func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	transition()
	return true
}

// fail classifies the collaborator error, records it and rolls the phase
// back to the last committed one. GenerateScene falls back to idle because
// it cleared the previous image before starting; narration falls back to
// the image phase it started from.
func (s *sceneOrchestrator) fail(stage domain.Stage, reference string, fallback domain.Phase, err error) error {
	classified := domain.ClassifyFailure(stage, reference, err)

	s.commit(func() {
		s.lastError = classified
		s.phase = fallback
	})

	s.emit(domain.StageFailed, stage, reference, classified.Error())
	s.logger.ErrorWithFields(classified, "pipeline stage failed", map[string]interface{}{
		"stage":     string(stage),
		"reference": reference,
	})
	return classified
}

// emit publishes a progress event without ever blocking the pipeline;
// slow subscribers lose events rather than stalling a command. The send
// happens under the mutex so that Close cannot close the channel between
// the closed check and the send.
func (s *sceneOrchestrator) emit(kind domain.StageEventKind, stage domain.Stage, reference, message string) {
	event := domain.StageEvent{
		Kind:      kind,
		Stage:     stage,
		Reference: reference,
		Message:   message,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	select {
	case s.events <- event:
	default:
		s.logger.Debug("stage event dropped, subscriber too slow")
	}
}

func (s *sceneOrchestrator) revokeAudioLocked() {
	if s.audioHandle != "" {
		s.resources.Release(s.audioHandle)
		s.audioHandle = ""
	}
}
