package ai

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"kothaboli/internal/config"
)

// Chunk one streamed fragment of a continuation.
// Fragments arrive in generation order; Done marks the end of the stream.
type Chunk struct {
	Content string
	Done    bool
	Err     error
}

// Client bundles the generative text capabilities behind one facade
type Client struct {
	cfg             *config.AIConfig
	storyChain      *StoryChain
	storyboardChain *StoryboardChain
}

// NewClient creates the AI client
func NewClient(ctx context.Context, cfg *config.AIConfig) (*Client, error) {
	if cfg.APIKey == "" {
		log.Warn().Msg("AI API key not configured, generation requests will fail")
	}

	storyChain, err := NewStoryChain(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create story chain: %w", err)
	}

	storyboardChain, err := NewStoryboardChain(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create storyboard chain: %w", err)
	}

	return &Client{
		cfg:             cfg,
		storyChain:      storyChain,
		storyboardChain: storyboardChain,
	}, nil
}

// StreamStory drafts a continuation and delivers it as an ordered channel
// of fragments. The stream runs to completion or to model-side failure;
// cancelling ctx stops delivery.
func (c *Client) StreamStory(ctx context.Context, req *ContinueRequest) (<-chan Chunk, error) {
	reader, err := c.storyChain.Stream(ctx, req)
	if err != nil {
		return nil, err
	}

	ch := make(chan Chunk, 16)
	go func() {
		defer close(ch)
		defer reader.Close()

		for {
			msg, err := reader.Recv()
			if errors.Is(err, io.EOF) {
				select {
				case ch <- Chunk{Done: true}:
				case <-ctx.Done():
				}
				return
			}
			if err != nil {
				select {
				case ch <- Chunk{Err: err}:
				case <-ctx.Done():
				}
				return
			}
			if msg.Content == "" {
				continue
			}
			select {
			case ch <- Chunk{Content: msg.Content}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}

// Segment partitions a narrative into ordered scene summaries
func (c *Client) Segment(ctx context.Context, narrative string) ([]string, error) {
	return c.storyboardChain.Segment(ctx, narrative)
}
