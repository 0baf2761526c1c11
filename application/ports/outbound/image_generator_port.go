package outbound

import "context"

type GenerateImageRequest struct {
	Prompt      string
	AspectRatio string
}

// ImageGeneratorPort renders a scene prompt into an encoded raster image.
type ImageGeneratorPort interface {
	Generate(ctx context.Context, req GenerateImageRequest) ([]byte, error)
}
