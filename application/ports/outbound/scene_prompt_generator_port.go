package outbound

import (
	"context"

	"verse-scene-api/domain"
)

type GenerateScenePromptRequest struct {
	Reference             string
	CharacterDescriptions domain.CharacterDescriptions
}

type ScenePromptResult struct {
	ScenePrompt           string
	CharacterDescriptions domain.CharacterDescriptions
}

// ScenePromptGeneratorPort turns a verse reference plus the prior character
// descriptions into a rendering prompt and the updated descriptions.
type ScenePromptGeneratorPort interface {
	Generate(ctx context.Context, req GenerateScenePromptRequest) (*ScenePromptResult, error)
}
