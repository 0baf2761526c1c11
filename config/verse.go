package config

import (
	"fmt"
	"os"
	"strconv"
)

type VerseConfig struct {
	ApiUrl string
	ApiKey string
	// CacheTtlMinutes bounds the per-session verse text memoization.
	CacheTtlMinutes int
}

func GetVerseConfig() (*VerseConfig, error) {
	apiUrl := os.Getenv("VERSE_API_URL")
	if apiUrl == "" {
		return nil, fmt.Errorf("VERSE_API_URL must be set")
	}
	apiKey := os.Getenv("VERSE_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("VERSE_API_KEY must be set")
	}

	ttlMinutes := 30
	if raw := os.Getenv("VERSE_CACHE_TTL_MINUTES"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return nil, fmt.Errorf("VERSE_CACHE_TTL_MINUTES must be a positive integer")
		}
		ttlMinutes = parsed
	}

	return &VerseConfig{
		ApiUrl:          apiUrl,
		ApiKey:          apiKey,
		CacheTtlMinutes: ttlMinutes,
	}, nil
}
