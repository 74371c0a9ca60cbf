package story

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httputil "kothaboli/internal/pkg/http"
)

// GenerateCover renders a cover image for the story
// @Summary      Generate a cover
// @Description  Renders cover art from the title and synopsis and stores it on the story
// @Tags         stories
// @Produce      json
// @Param        story_id  path  string  true  "story id"
// @Success      200  {object}  httputil.SuccessResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /api/v1/stories/{story_id}/cover [post]
func (h *Handler) GenerateCover(c *gin.Context) {
	var uri StoryURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 40001, Message: "Invalid story_id", Detail: err.Error()})
		return
	}

	s, err := h.storyService.Cover(c.Request.Context(), uri.StoryID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, httputil.NewSuccessResponse(toStoryInfo(s, h.manuscripts.ActiveID())))
}
