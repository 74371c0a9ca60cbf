package story

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GenerateSpeech narrates the opening of the manuscript
// @Summary      Narrate the story
// @Description  Synthesizes the opening of the manuscript as raw 16-bit mono PCM; the sample rate travels in X-Sample-Rate
// @Tags         stories
// @Produce      application/octet-stream
// @Param        story_id  path  string  true  "story id"
// @Success      200  {string}  binary  "PCM16LE mono audio"
// @Failure      404  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Router       /api/v1/stories/{story_id}/speech [post]
func (h *Handler) GenerateSpeech(c *gin.Context) {
	var uri StoryURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 40001, Message: "Invalid story_id", Detail: err.Error()})
		return
	}

	audio, err := h.storyService.Speech(c.Request.Context(), uri.StoryID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("X-Sample-Rate", strconv.Itoa(audio.SampleRate))
	c.Data(http.StatusOK, "application/octet-stream", audio.PCM)
}
