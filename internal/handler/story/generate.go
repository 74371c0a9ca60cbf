package story

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"kothaboli/internal/ai"
)

// GenerateRequest continuation request body
type GenerateRequest struct {
	Instruction string `json:"instruction" binding:"required"`
	Persona     string `json:"persona"`
}

// Generate streams an AI continuation into the manuscript (SSE)
// @Summary      Continue the story
// @Description  Drafts a continuation with the chosen persona and streams it as server-sent events while appending it to the manuscript
// @Tags         stories
// @Accept       json
// @Produce      text/event-stream
// @Param        story_id  path  string           true  "story id"
// @Param        request   body  GenerateRequest  true  "continuation request"
// @Success      200  {string}  string  "SSE stream of message/done/error events"
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /api/v1/stories/{story_id}/generate [post]
func (h *Handler) Generate(c *gin.Context) {
	var uri StoryURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 40001, Message: "Invalid story_id", Detail: err.Error()})
		return
	}

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 40001, Message: "Invalid request body", Detail: err.Error()})
		return
	}

	persona := ai.Persona(req.Persona)
	if req.Persona == "" {
		persona = ai.PersonaClassic
	}

	ctx := c.Request.Context()
	chunks, err := h.storyService.Continue(ctx, uri.StoryID, req.Instruction, persona)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.Stream(func(w io.Writer) bool {
		chunk, ok := <-chunks
		if !ok {
			return false
		}
		switch {
		case chunk.Err != nil:
			c.SSEvent("error", gin.H{"message": chunk.Err.Error()})
			return false
		case chunk.Done:
			c.SSEvent("done", gin.H{})
			return false
		default:
			c.SSEvent("message", gin.H{"content": chunk.Content})
			return true
		}
	})
}
