package config

import (
	"fmt"
	"os"
)

type PromptConfig struct {
	ApiUrl string
	ApiKey string
	Model  string
}

func GetPromptConfig() (*PromptConfig, error) {
	apiUrl := os.Getenv("PROMPT_API_URL")
	if apiUrl == "" {
		return nil, fmt.Errorf("PROMPT_API_URL must be set")
	}
	apiKey := os.Getenv("PROMPT_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("PROMPT_API_KEY must be set")
	}
	model := os.Getenv("PROMPT_MODEL")
	if model == "" {
		return nil, fmt.Errorf("PROMPT_MODEL must be set")
	}
	return &PromptConfig{
		ApiUrl: apiUrl,
		ApiKey: apiKey,
		Model:  model,
	}, nil
}
