package dto

import "verse-scene-api/domain"

type GenerateSceneRequest struct {
	Reference   string `json:"reference" binding:"required"`
	AspectRatio string `json:"aspect_ratio"`
}

type GenerateNarrationRequest struct {
	Language string `json:"language"`
}

type SceneStateResponse struct {
	SessionID    string                       `json:"session_id"`
	Phase        domain.Phase                 `json:"phase"`
	Reference    string                       `json:"reference,omitempty"`
	Characters   domain.CharacterDescriptions `json:"character_descriptions,omitempty"`
	NarratedText string                       `json:"narrated_text,omitempty"`
	HasImage     bool                         `json:"has_image"`
	HasAudio     bool                         `json:"has_audio"`
	Error        *SceneErrorResponse          `json:"error,omitempty"`
}

type SceneErrorResponse struct {
	Kind    string `json:"kind"`
	Stage   string `json:"stage,omitempty"`
	Message string `json:"message"`
}

func NewSceneStateResponse(sessionID string, state domain.ScenePipelineState) SceneStateResponse {
	response := SceneStateResponse{
		SessionID:    sessionID,
		Phase:        state.Phase,
		Characters:   state.CharacterDescriptions,
		NarratedText: state.NarratedText,
		HasImage:     len(state.Image) > 0,
		HasAudio:     state.AudioResource != "",
	}
	if !state.Reference.IsZero() {
		response.Reference = state.Reference.String()
	}
	if state.LastError != nil {
		response.Error = NewSceneErrorResponse(state.LastError)
	}
	return response
}

func NewSceneErrorResponse(err error) *SceneErrorResponse {
	kind, stage := classify(err)
	return &SceneErrorResponse{
		Kind:    kind,
		Stage:   stage,
		Message: err.Error(),
	}
}

func classify(err error) (kind string, stage string) {
	switch typed := err.(type) {
	case *domain.VerseNotFoundError:
		return "verse_not_found", string(typed.Stage)
	case *domain.CommunicationError:
		return "communication_failure", string(typed.Stage)
	case *domain.GenerationError:
		return "generation_failure", string(typed.Stage)
	default:
		return "generation_failure", ""
	}
}
