package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/donovanhide/eventsource"

	"verse-scene-api/application/ports/outbound"
	"verse-scene-api/config"
	"verse-scene-api/domain"
)

const doneSignal = "[DONE]"

type chatRequest struct {
	Stream   bool          `json:"stream"`
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatChunkBody struct {
	Choices []chatResponseChoice `json:"choices"`
}

type chatResponseChoice struct {
	Index int `json:"index"`
	Delta struct {
		Content string `json:"content"`
	} `json:"delta"`
}

// scenePromptPayload is the JSON document the model is instructed to emit:
// a rendering prompt plus the updated character descriptions.
type scenePromptPayload struct {
	ScenePrompt           string            `json:"scene_prompt"`
	CharacterDescriptions map[string]string `json:"character_descriptions"`
}

type scenePromptGenerator struct {
	logger       outbound.LoggerPort
	promptConfig *config.PromptConfig
}

func NewScenePromptGenerator(promptConfig *config.PromptConfig, logger outbound.LoggerPort) outbound.ScenePromptGeneratorPort {
	return &scenePromptGenerator{
		logger:       logger,
		promptConfig: promptConfig,
	}
}

// Generate streams the chat completion over SSE, accumulates the delta
// chunks and parses the final JSON payload. Failures are never retried
// here; classification happens at the command boundary.
func (g *scenePromptGenerator) Generate(ctx context.Context, req outbound.GenerateScenePromptRequest) (*outbound.ScenePromptResult, error) {
	httpReq, err := g.createRequest(ctx, req)
	if err != nil {
		g.logger.Error(err, "failed to create HTTP request for prompt stream")
		return nil, err
	}

	stream, err := eventsource.SubscribeWithRequest("", httpReq)
	if err != nil {
		g.logger.Error(err, "failed to subscribe to prompt stream")
		return nil, &domain.CommunicationError{Stage: domain.StagePrompt, Cause: err}
	}
	defer stream.Close()

	var accumulated strings.Builder
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case ev := <-stream.Events:
			if ev.Data() == doneSignal {
				return g.parsePayload(accumulated.String())
			}
			chunk, err := g.extractDelta(ev)
			if err != nil {
				return nil, err
			}
			accumulated.WriteString(chunk)
		case err := <-stream.Errors:
			if err == io.EOF {
				return g.parsePayload(accumulated.String())
			}
			g.logger.Error(err, "prompt stream failed")
			return nil, &domain.CommunicationError{Stage: domain.StagePrompt, Cause: err}
		}
	}
}

func (g *scenePromptGenerator) extractDelta(event eventsource.Event) (string, error) {
	var chunkBody chatChunkBody
	if err := json.Unmarshal([]byte(event.Data()), &chunkBody); err != nil {
		g.logger.Error(err, "failed to unmarshal prompt stream chunk")
		return "", &domain.GenerationError{Stage: domain.StagePrompt, Cause: err}
	}
	if len(chunkBody.Choices) == 0 {
		return "", nil
	}
	return chunkBody.Choices[0].Delta.Content, nil
}

func (g *scenePromptGenerator) parsePayload(raw string) (*outbound.ScenePromptResult, error) {
	// Models occasionally fence the JSON document in markdown.
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	var payload scenePromptPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(cleaned)), &payload); err != nil {
		g.logger.ErrorWithFields(err, "prompt service returned an unparsable payload", map[string]interface{}{
			"payload": raw,
		})
		return nil, &domain.GenerationError{Stage: domain.StagePrompt, Cause: err}
	}
	if payload.ScenePrompt == "" {
		return nil, &domain.GenerationError{
			Stage: domain.StagePrompt,
			Cause: fmt.Errorf("prompt service returned an empty scene prompt"),
		}
	}

	return &outbound.ScenePromptResult{
		ScenePrompt:           payload.ScenePrompt,
		CharacterDescriptions: payload.CharacterDescriptions,
	}, nil
}

func (g *scenePromptGenerator) createRequest(ctx context.Context, req outbound.GenerateScenePromptRequest) (*http.Request, error) {
	systemMessage := chatMessage{
		Role: "system",
		Content: "You write prompts for an illustrator of children's Bible scenes.\n" +
			"Given a verse reference, respond with a single JSON object:\n" +
			`{"scene_prompt": "...", "character_descriptions": {"name": "visual description"}}` + "\n" +
			"Rules:\n" +
			"- scene_prompt describes one concrete visual scene for that verse, no text overlays\n" +
			"- character_descriptions holds every named character on screen\n" +
			"- when prior descriptions are supplied, reuse them verbatim for recurring characters\n" +
			"- respond with the JSON object only, no commentary",
	}

	userContent := fmt.Sprintf("Verse: %s", req.Reference)
	if len(req.CharacterDescriptions) > 0 {
		prior, err := json.Marshal(req.CharacterDescriptions)
		if err != nil {
			return nil, err
		}
		userContent += fmt.Sprintf("\nPrior character descriptions: %s", prior)
	}

	payload := chatRequest{
		Stream: true,
		Model:  g.promptConfig.Model,
		Messages: []chatMessage{
			systemMessage,
			{Role: "user", Content: userContent},
		},
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		g.logger.Error(err, "failed to marshal the prompt request body")
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", g.promptConfig.ApiUrl, bytes.NewBuffer(payloadBytes))
	if err != nil {
		g.logger.Error(err, "failed to create the HTTP request")
		return nil, err
	}

	httpReq.Header.Set("Authorization", "Bearer "+g.promptConfig.ApiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	return httpReq, nil
}
