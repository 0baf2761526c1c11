// Package mock_collab provides in-process stand-ins for the four external
// collaborators so the service can run end to end without upstream keys.
// Selected in main with MOCK_MODE=1.
package mock_collab

import (
	"context"
	"fmt"

	"verse-scene-api/application/ports/outbound"
	"verse-scene-api/domain"
)

type mockPromptGenerator struct{}

func NewMockScenePromptGenerator() outbound.ScenePromptGeneratorPort {
	return &mockPromptGenerator{}
}

// Generate produces a deterministic prompt and reuses any prior character
// descriptions verbatim, mirroring the consistency contract of the real
// prompt service.
func (m *mockPromptGenerator) Generate(_ context.Context, req outbound.GenerateScenePromptRequest) (*outbound.ScenePromptResult, error) {
	descriptions := req.CharacterDescriptions.Clone()
	if descriptions == nil {
		descriptions = domain.CharacterDescriptions{}
	}
	if _, ok := descriptions["narrator"]; !ok {
		descriptions["narrator"] = "kind elderly storyteller in a linen robe"
	}

	return &outbound.ScenePromptResult{
		ScenePrompt:           fmt.Sprintf("A warm storybook illustration of the scene described in %s", req.Reference),
		CharacterDescriptions: descriptions,
	}, nil
}
