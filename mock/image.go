package mock_collab

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"

	"verse-scene-api/application/ports/outbound"
	"verse-scene-api/config"
	"verse-scene-api/domain"
)

type mockImageGenerator struct{}

func NewMockImageGenerator() outbound.ImageGeneratorPort {
	return &mockImageGenerator{}
}

// Generate renders a small solid-color JPEG with the requested orientation,
// just enough for a playable end-to-end run.
func (m *mockImageGenerator) Generate(_ context.Context, req outbound.GenerateImageRequest) ([]byte, error) {
	width, height := 90, 160
	if req.AspectRatio == config.AspectLandscape {
		width, height = 160, 90
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	fill := color.RGBA{R: 70, G: 110, B: 180, A: 255}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			canvas.Set(x, y, fill)
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, canvas, nil); err != nil {
		return nil, &domain.GenerationError{Stage: domain.StageImage, Cause: err}
	}
	return buf.Bytes(), nil
}
