package adapters

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"verse-scene-api/application/ports/outbound"
	"verse-scene-api/config"
	"verse-scene-api/domain"
)

// The image API takes pixel dimensions, not ratios.
var aspectRatioSizes = map[string]string{
	config.AspectPortrait:  "1024x1792",
	config.AspectLandscape: "1792x1024",
}

type imageApiRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	Size           string `json:"size"`
	Number         int    `json:"n"`
	ResponseFormat string `json:"response_format"`
}

type imageApiResponse struct {
	Data []struct {
		B64Json string `json:"b64_json"`
	} `json:"data"`
}

type imageGenerator struct {
	ContentFetcher
	logger      outbound.LoggerPort
	imageConfig *config.ImageConfig
}

func NewImageGenerator(contentFetcher ContentFetcher, imageConfig *config.ImageConfig, logger outbound.LoggerPort) outbound.ImageGeneratorPort {
	return &imageGenerator{
		ContentFetcher: contentFetcher,
		logger:         logger,
		imageConfig:    imageConfig,
	}
}

func (i *imageGenerator) Generate(ctx context.Context, req outbound.GenerateImageRequest) ([]byte, error) {
	httpReq, err := i.getRequest(ctx, req)
	if err != nil {
		i.logger.Error(err, "failed to create the image request")
		return nil, err
	}

	rawRes, err := i.FetchContent(httpReq)
	if err != nil {
		return nil, err
	}

	var imageRes imageApiResponse
	if err := json.Unmarshal(rawRes, &imageRes); err != nil {
		i.logger.Error(err, "failed to unmarshal the image response")
		return nil, &domain.GenerationError{Stage: domain.StageImage, Cause: err}
	}
	if len(imageRes.Data) == 0 {
		return nil, &domain.GenerationError{
			Stage: domain.StageImage,
			Cause: fmt.Errorf("image service returned no images"),
		}
	}

	decodedImage, err := base64.StdEncoding.DecodeString(imageRes.Data[0].B64Json)
	if err != nil {
		i.logger.Error(err, "failed to decode the image payload")
		return nil, &domain.GenerationError{Stage: domain.StageImage, Cause: err}
	}

	return decodedImage, nil
}

func (i *imageGenerator) getRequest(ctx context.Context, req outbound.GenerateImageRequest) (*http.Request, error) {
	size, ok := aspectRatioSizes[req.AspectRatio]
	if !ok {
		return nil, config.ErrUnsupportedAspectRatio
	}

	reqBody := imageApiRequest{
		Model:          i.imageConfig.Model,
		Prompt:         req.Prompt,
		Size:           size,
		Number:         1,
		ResponseFormat: "b64_json",
	}

	jsonPayload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", i.imageConfig.ApiUrl, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Authorization", "Bearer "+i.imageConfig.ApiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	return httpReq, nil
}
