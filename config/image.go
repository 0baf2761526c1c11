package config

import (
	"fmt"
	"os"
)

type ImageConfig struct {
	ApiUrl string
	ApiKey string
	Model  string
}

func GetImageConfig() (*ImageConfig, error) {
	apiUrl := os.Getenv("IMAGE_API_URL")
	if apiUrl == "" {
		return nil, fmt.Errorf("IMAGE_API_URL must be set")
	}
	apiKey := os.Getenv("IMAGE_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("IMAGE_API_KEY must be set")
	}
	model := os.Getenv("IMAGE_MODEL")
	if model == "" {
		return nil, fmt.Errorf("IMAGE_MODEL must be set")
	}
	return &ImageConfig{
		ApiUrl: apiUrl,
		ApiKey: apiKey,
		Model:  model,
	}, nil
}
