package story

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httputil "kothaboli/internal/pkg/http"
)

// StoryboardResponseData storyboard payload
type StoryboardResponseData struct {
	Scenes []SceneInfo `json:"scenes"`
}

// GenerateStoryboard partitions the manuscript into scenes
// @Summary      Generate a storyboard
// @Description  Segments the manuscript into ordered scenes and replaces the previous storyboard
// @Tags         stories
// @Produce      json
// @Param        story_id  path  string  true  "story id"
// @Success      200  {object}  httputil.SuccessResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Router       /api/v1/stories/{story_id}/storyboard [post]
func (h *Handler) GenerateStoryboard(c *gin.Context) {
	var uri StoryURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 40001, Message: "Invalid story_id", Detail: err.Error()})
		return
	}

	scenes, err := h.storyService.Storyboard(c.Request.Context(), uri.StoryID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, httputil.NewSuccessResponse(StoryboardResponseData{Scenes: toSceneInfoList(scenes)}))
}

// SceneImageURI path binding for scene-level routes
type SceneImageURI struct {
	StoryID string `uri:"story_id" binding:"required"`
	SceneID string `uri:"scene_id" binding:"required"`
}

// GenerateSceneImage illustrates one storyboard scene
// @Summary      Illustrate a scene
// @Tags         stories
// @Produce      json
// @Param        story_id  path  string  true  "story id"
// @Param        scene_id  path  string  true  "scene id"
// @Success      200  {object}  httputil.SuccessResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /api/v1/stories/{story_id}/storyboard/{scene_id}/image [post]
func (h *Handler) GenerateSceneImage(c *gin.Context) {
	var uri SceneImageURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 40001, Message: "Invalid path", Detail: err.Error()})
		return
	}

	scene, err := h.storyService.SceneImage(c.Request.Context(), uri.StoryID, uri.SceneID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, httputil.NewSuccessResponse(SceneInfo{ID: scene.ID, Text: scene.Text, ImageURL: scene.ImageURL}))
}
