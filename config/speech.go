package config

import (
	"fmt"
	"os"
)

type SpeechConfig struct {
	ApiUrl  string
	ApiKey  string
	ModelId string
	VoiceId string
}

func GetSpeechConfig() (*SpeechConfig, error) {
	apiUrl := os.Getenv("SPEECH_API_URL")
	if apiUrl == "" {
		return nil, fmt.Errorf("SPEECH_API_URL must be set")
	}
	apiKey := os.Getenv("SPEECH_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("SPEECH_API_KEY must be set")
	}
	modelId := os.Getenv("SPEECH_MODEL_ID")
	if modelId == "" {
		return nil, fmt.Errorf("SPEECH_MODEL_ID must be set")
	}
	voiceId := os.Getenv("SPEECH_VOICE_ID")
	if voiceId == "" {
		return nil, fmt.Errorf("SPEECH_VOICE_ID must be set")
	}
	return &SpeechConfig{
		ApiUrl:  apiUrl,
		ApiKey:  apiKey,
		ModelId: modelId,
		VoiceId: voiceId,
	}, nil
}
