package mock_collab

import (
	"context"
	"encoding/binary"
	"math"

	"verse-scene-api/application/ports/outbound"
	"verse-scene-api/audio_utils"
)

type mockSpeechSynthesizer struct{}

func NewMockSpeechSynthesizer() outbound.SpeechSynthesizerPort {
	return &mockSpeechSynthesizer{}
}

// Synthesize emits a 440 Hz tone in the fixed PCM contract, with the clip
// length scaled to the text so longer verses sound longer.
func (m *mockSpeechSynthesizer) Synthesize(_ context.Context, req outbound.SynthesizeSpeechRequest) ([]byte, error) {
	seconds := 1.0 + float64(len(req.Text))/40.0
	if seconds > 10 {
		seconds = 10
	}
	sampleCount := int(seconds * audio_utils.SampleRate)

	pcm := make([]byte, sampleCount*2)
	for i := 0; i < sampleCount; i++ {
		sample := int16(8000 * math.Sin(2*math.Pi*440*float64(i)/audio_utils.SampleRate))
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(sample))
	}
	return pcm, nil
}
