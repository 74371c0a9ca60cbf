package ai

import (
	"context"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"kothaboli/internal/ai/component"
	"kothaboli/internal/config"
)

// contextWindowRunes bounds the trailing slice of the manuscript sent as
// generation context
const contextWindowRunes = 2000

// relaxedTemperature sampling temperature used when the content filter is
// relaxed; the default comes from configuration
const relaxedTemperature = float32(0.95)

// StoryChain drafts story continuations.
// Workflow: manuscript tail + persona -> system prompt -> ChatModel -> prose.
type StoryChain struct {
	chatModel einomodel.ChatModel
}

// ContinueRequest a story continuation request
type ContinueRequest struct {
	Context     string  // manuscript so far; only the tail is sent
	Instruction string  // what the author wants written next
	Persona     Persona // style preset
	Mature      bool    // content filter relaxed at request time
}

// NewStoryChain creates a story continuation chain
func NewStoryChain(ctx context.Context, cfg *config.AIConfig) (*StoryChain, error) {
	chatModel, err := component.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &StoryChain{chatModel: chatModel}, nil
}

// Stream drafts the continuation as a stream of fragments
func (c *StoryChain) Stream(ctx context.Context, req *ContinueRequest) (*schema.StreamReader[*schema.Message], error) {
	messages := buildContinueMessages(req)

	if req.Mature {
		return c.chatModel.Stream(ctx, messages, einomodel.WithTemperature(relaxedTemperature))
	}
	return c.chatModel.Stream(ctx, messages)
}

// Generate drafts the continuation in one shot
func (c *StoryChain) Generate(ctx context.Context, req *ContinueRequest) (string, error) {
	messages := buildContinueMessages(req)

	var resp *schema.Message
	var err error
	if req.Mature {
		resp, err = c.chatModel.Generate(ctx, messages, einomodel.WithTemperature(relaxedTemperature))
	} else {
		resp, err = c.chatModel.Generate(ctx, messages)
	}
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

func buildContinueMessages(req *ContinueRequest) []*schema.Message {
	return []*schema.Message{
		schema.SystemMessage(buildSystemInstruction(req.Persona, req.Context)),
		schema.UserMessage(req.Instruction),
	}
}

// buildSystemInstruction assembles the persona prompt with the trailing
// context window of the manuscript
func buildSystemInstruction(p Persona, manuscript string) string {
	return `You are an expert Bengali literature author named "Kotha-Boli AI".
` + p.styleInstruction() + `
Write in Shuddho Bangla (standard) or Cholito depending on the context provided.
Always respond in Bengali Unicode, plain paragraphs only.
Current context: ` + tailRunes(manuscript, contextWindowRunes)
}

// tailRunes returns the last n runes of s
func tailRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}
