package config

import (
	"errors"
	"fmt"
	"os"
)

const (
	AspectPortrait  = "9:16"
	AspectLandscape = "16:9"

	// Narration delivery is a fixed contract with the speech service,
	// not user-configurable.
	VoiceStyle = "infantil"
)

var (
	ErrUnsupportedAspectRatio = errors.New("aspect ratio must be 9:16 or 16:9")
	ErrUnsupportedLanguage    = errors.New("narration language is not in the configured set")
)

// defaultLanguages is the fixed set of locale tags the verse text service
// is known to carry.
var defaultLanguages = []string{"pt-BR", "en-US", "es-ES"}

type SceneConfig struct {
	AspectRatio  string
	LanguageCode string
	VoiceStyle   string
	Languages    []string
}

func GetSceneConfig() (*SceneConfig, error) {
	aspectRatio := os.Getenv("SCENE_ASPECT_RATIO")
	if aspectRatio == "" {
		aspectRatio = AspectPortrait
	}
	if aspectRatio != AspectPortrait && aspectRatio != AspectLandscape {
		return nil, ErrUnsupportedAspectRatio
	}

	language := os.Getenv("NARRATION_LANGUAGE")
	if language == "" {
		language = defaultLanguages[0]
	}
	supported := false
	for _, candidate := range defaultLanguages {
		if candidate == language {
			supported = true
			break
		}
	}
	if !supported {
		return nil, fmt.Errorf("NARRATION_LANGUAGE %q: %w", language, ErrUnsupportedLanguage)
	}

	return &SceneConfig{
		AspectRatio:  aspectRatio,
		LanguageCode: language,
		VoiceStyle:   VoiceStyle,
		Languages:    append([]string(nil), defaultLanguages...),
	}, nil
}
