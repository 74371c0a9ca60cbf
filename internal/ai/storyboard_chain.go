package ai

import (
	"context"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"kothaboli/internal/ai/component"
	"kothaboli/internal/config"
)

// segmentBudgetRunes bounds the narrative slice sent for segmentation
const segmentBudgetRunes = 6000

// StoryboardChain partitions a narrative into a handful of scene summaries.
// The partitioning decision belongs to the model; this chain only owns the
// prompt and the line-oriented response shape.
type StoryboardChain struct {
	chatModel einomodel.ChatModel
}

// NewStoryboardChain creates a scene segmentation chain
func NewStoryboardChain(ctx context.Context, cfg *config.AIConfig) (*StoryboardChain, error) {
	chatModel, err := component.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &StoryboardChain{chatModel: chatModel}, nil
}

// Segment asks the model for 4-6 one-line scene summaries, in narrative order
func (c *StoryboardChain) Segment(ctx context.Context, narrative string) ([]string, error) {
	messages := []*schema.Message{
		schema.SystemMessage(`You are a storyboard artist for Bengali fiction.
Partition the narrative into 4 to 6 scenes, in story order.
Respond with one scene per line: a vivid 1-2 sentence Bengali summary.
No numbering, no headings, no commentary.`),
		schema.UserMessage(headRunes(narrative, segmentBudgetRunes)),
	}

	resp, err := c.chatModel.Generate(ctx, messages)
	if err != nil {
		return nil, err
	}
	return parseSceneLines(resp.Content), nil
}

// parseSceneLines extracts scene summaries from a line-oriented response,
// tolerating the numbering and bullets models add anyway
func parseSceneLines(raw string) []string {
	var scenes []string
	for _, line := range strings.Split(raw, "\n") {
		line = stripListPrefix(strings.TrimSpace(line))
		if line != "" {
			scenes = append(scenes, line)
		}
	}
	return scenes
}

// stripListPrefix removes leading bullets and "1." / "১।" style numbering
func stripListPrefix(line string) string {
	r := []rune(line)
	i := 0
	for i < len(r) && isListRune(r[i]) {
		i++
	}
	return strings.TrimSpace(string(r[i:]))
}

func isListRune(c rune) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c >= '০' && c <= '৯': // Bengali digits
		return true
	}
	switch c {
	case '.', ')', '-', '*', '—', '।', ':':
		return true
	}
	return false
}

// headRunes returns the first n runes of s
func headRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
