package outbound

import "context"

type SynthesizeSpeechRequest struct {
	Text       string
	VoiceStyle string
}

// SpeechSynthesizerPort converts text to raw PCM samples: little-endian
// 16-bit mono at 24 kHz, the format audio_utils.EncodeWAV wraps.
type SpeechSynthesizerPort interface {
	Synthesize(ctx context.Context, req SynthesizeSpeechRequest) ([]byte, error)
}
