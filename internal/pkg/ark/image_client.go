package ark

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/volcengine/volcengine-go-sdk/service/arkruntime"
	arkmodel "github.com/volcengine/volcengine-go-sdk/service/arkruntime/model"

	"kothaboli/internal/config"
)

const (
	defaultImageBaseURL = "https://ark.cn-beijing.volces.com/api/v3"
	defaultImageModel   = "doubao-seedream-3-0-t2i-250415"

	// DefaultCoverSize portrait orientation, sized for a book cover
	DefaultCoverSize = "720x1280"
)

// ImageClient generates illustrations through the Ark image API
type ImageClient struct {
	client *arkruntime.Client
	model  string
	size   string
}

// NewImageClient creates an Ark image generation client
func NewImageClient(cfg *config.ImageConfig) (*ImageClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("image API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultImageBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultImageModel
	}
	size := cfg.Size
	if size == "" {
		size = DefaultCoverSize
	}

	client := arkruntime.NewClientWithApiKey(cfg.APIKey, arkruntime.WithBaseUrl(baseURL))

	return &ImageClient{
		client: client,
		model:  model,
		size:   size,
	}, nil
}

// Generate renders one image for the prompt and returns the raw image bytes
func (c *ImageClient) Generate(ctx context.Context, prompt string) ([]byte, error) {
	responseFormat := "b64_json"
	watermark := false

	input := arkmodel.GenerateImagesRequest{
		Model:          c.model,
		Prompt:         prompt,
		Size:           &c.size,
		ResponseFormat: &responseFormat,
		Watermark:      &watermark,
	}

	output, err := c.client.GenerateImages(ctx, input)
	if err != nil {
		log.Error().Err(err).Str("model", c.model).Msg("image generation request failed")
		return nil, fmt.Errorf("image generation failed: %w", err)
	}

	if len(output.Data) == 0 {
		return nil, fmt.Errorf("no image data in response")
	}
	first := output.Data[0]
	if first.B64Json == nil {
		return nil, fmt.Errorf("no b64_json in response data")
	}

	data, err := base64.StdEncoding.DecodeString(*first.B64Json)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image data: %w", err)
	}
	return data, nil
}
