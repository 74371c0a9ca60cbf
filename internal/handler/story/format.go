package story

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httputil "kothaboli/internal/pkg/http"
)

// FormatDialogue marks unformatted dialogue lines in the manuscript
// @Summary      Format dialogue
// @Description  Rewrites the manuscript with speech lines prefixed by the Bengali dialogue dash
// @Tags         stories
// @Produce      json
// @Param        story_id  path  string  true  "story id"
// @Success      200  {object}  httputil.SuccessResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/v1/stories/{story_id}/format-dialogue [post]
func (h *Handler) FormatDialogue(c *gin.Context) {
	var uri StoryURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 40001, Message: "Invalid story_id", Detail: err.Error()})
		return
	}

	s, err := h.storyService.FormatDialogue(uri.StoryID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, httputil.NewSuccessResponse(toStoryInfo(s, h.manuscripts.ActiveID())))
}
