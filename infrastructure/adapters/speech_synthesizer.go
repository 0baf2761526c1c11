package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"verse-scene-api/application/ports/outbound"
	"verse-scene-api/config"
)

// The synthesis service is asked for raw PCM at the container encoder's
// fixed contract: little-endian 16-bit mono, 24 kHz.
const pcmOutputFormat = "pcm_24000"

type synthesisRequest struct {
	Text         string `json:"text"`
	ModelId      string `json:"model_id"`
	StylePrompt  string `json:"style_prompt"`
	OutputFormat string `json:"output_format"`
}

type speechSynthesizer struct {
	ContentFetcher
	logger       outbound.LoggerPort
	speechConfig *config.SpeechConfig
}

func NewSpeechSynthesizer(contentFetcher ContentFetcher, speechConfig *config.SpeechConfig, logger outbound.LoggerPort) outbound.SpeechSynthesizerPort {
	return &speechSynthesizer{
		ContentFetcher: contentFetcher,
		logger:         logger,
		speechConfig:   speechConfig,
	}
}

func (s *speechSynthesizer) Synthesize(ctx context.Context, req outbound.SynthesizeSpeechRequest) ([]byte, error) {
	httpReq, err := s.getRequest(ctx, req)
	if err != nil {
		s.logger.Error(err, "failed to create the synthesis request")
		return nil, err
	}

	return s.FetchContent(httpReq)
}

func (s *speechSynthesizer) getRequest(ctx context.Context, req outbound.SynthesizeSpeechRequest) (*http.Request, error) {
	reqBody := synthesisRequest{
		Text:         req.Text,
		ModelId:      s.speechConfig.ModelId,
		StylePrompt:  req.VoiceStyle,
		OutputFormat: pcmOutputFormat,
	}

	jsonPayload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", s.speechConfig.ApiUrl+"/"+s.speechConfig.VoiceId, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Accept", "application/octet-stream")
	httpReq.Header.Set("xi-api-key", s.speechConfig.ApiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	return httpReq, nil
}
