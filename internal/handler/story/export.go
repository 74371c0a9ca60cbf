package story

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"kothaboli/internal/pkg/export"
)

// ExportURI path binding for the export route
type ExportURI struct {
	StoryID string `uri:"story_id" binding:"required"`
	Format  string `uri:"format" binding:"required"`
}

// ExportStory downloads the story in the requested format
// @Summary      Export a story
// @Description  Renders the story as plain text, HTML or a Word-compatible document and serves it as a download
// @Tags         stories
// @Produce      plain
// @Param        story_id  path  string  true  "story id"
// @Param        format    path  string  true  "text, html or doc"
// @Success      200  {string}  string  "rendered document"
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/v1/stories/{story_id}/export/{format} [get]
func (h *Handler) ExportStory(c *gin.Context) {
	var uri ExportURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 40001, Message: "Invalid path", Detail: err.Error()})
		return
	}

	format := export.Format(uri.Format)
	if !format.IsValid() {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 40002, Message: "Unsupported export format", Detail: uri.Format})
		return
	}

	s := h.manuscripts.Get(uri.StoryID)
	if s == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Code: 40401, Message: "story not found"})
		return
	}

	data, err := export.Render(s, format)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Code: 50001, Message: err.Error()})
		return
	}

	filename := export.Filename(s.Title, format)
	c.Header("Content-Disposition",
		fmt.Sprintf(`attachment; filename*=UTF-8''%s`, url.PathEscape(filename)))
	c.Data(http.StatusOK, format.ContentType(), data)
}
