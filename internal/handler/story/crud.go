package story

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kothaboli/internal/model/story"
	httputil "kothaboli/internal/pkg/http"
)

// StoryURI path binding shared by the per-story routes
type StoryURI struct {
	StoryID string `uri:"story_id" binding:"required"`
}

// ListStoriesResponseData story list payload
type ListStoriesResponseData struct {
	Stories  []StorySummary `json:"stories"`
	ActiveID string         `json:"active_id,omitempty"`
}

// ListStories lists stories, newest first
// @Summary      List stories
// @Description  Returns all stories newest-first, with previews and the active story id
// @Tags         stories
// @Produce      json
// @Success      200  {object}  httputil.SuccessResponse
// @Router       /api/v1/stories [get]
func (h *Handler) ListStories(c *gin.Context) {
	activeID := h.manuscripts.ActiveID()
	data := ListStoriesResponseData{
		Stories:  toStorySummaryList(h.manuscripts.List(), activeID),
		ActiveID: activeID,
	}
	c.JSON(http.StatusOK, httputil.NewSuccessResponse(data))
}

// CreateStory creates a story and makes it active
// @Summary      Create a story
// @Description  Creates a fresh story with default fields and switches the editor to it
// @Tags         stories
// @Produce      json
// @Success      201  {object}  httputil.SuccessResponse
// @Router       /api/v1/stories [post]
func (h *Handler) CreateStory(c *gin.Context) {
	s := h.manuscripts.Create()
	c.JSON(http.StatusCreated, httputil.NewSuccessResponse(toStoryInfo(s, s.ID)))
}

// GetStory returns one story in full
// @Summary      Get a story
// @Tags         stories
// @Produce      json
// @Param        story_id  path  string  true  "story id"
// @Success      200  {object}  httputil.SuccessResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/v1/stories/{story_id} [get]
func (h *Handler) GetStory(c *gin.Context) {
	var uri StoryURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 40001, Message: "Invalid story_id", Detail: err.Error()})
		return
	}

	s := h.manuscripts.Get(uri.StoryID)
	if s == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Code: 40401, Message: "story not found"})
		return
	}
	c.JSON(http.StatusOK, httputil.NewSuccessResponse(toStoryInfo(s, h.manuscripts.ActiveID())))
}

// UpdateStory applies a partial update to a story
// @Summary      Update a story
// @Description  Merges the provided fields onto the story; omitted fields are untouched
// @Tags         stories
// @Accept       json
// @Produce      json
// @Param        story_id  path  string        true  "story id"
// @Param        update    body  story.Update  true  "fields to change"
// @Success      200  {object}  httputil.SuccessResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/v1/stories/{story_id} [patch]
func (h *Handler) UpdateStory(c *gin.Context) {
	var uri StoryURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 40001, Message: "Invalid story_id", Detail: err.Error()})
		return
	}

	var update story.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 40001, Message: "Invalid request body", Detail: err.Error()})
		return
	}
	if update.Category != nil && !update.Category.IsValid() {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 40002, Message: "Unknown category", Detail: update.Category.String()})
		return
	}

	if !h.manuscripts.Update(uri.StoryID, &update) {
		c.JSON(http.StatusNotFound, ErrorResponse{Code: 40401, Message: "story not found"})
		return
	}
	c.JSON(http.StatusOK, httputil.NewSuccessResponse(toStoryInfo(h.manuscripts.Get(uri.StoryID), h.manuscripts.ActiveID())))
}

// DeleteStoryResponseData deletion payload
type DeleteStoryResponseData struct {
	ActiveID string `json:"active_id,omitempty"`
}

// DeleteStory removes a story
// @Summary      Delete a story
// @Description  Removes the story; deleting the active story promotes the newest remaining one
// @Tags         stories
// @Produce      json
// @Param        story_id  path  string  true  "story id"
// @Success      200  {object}  httputil.SuccessResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/v1/stories/{story_id} [delete]
func (h *Handler) DeleteStory(c *gin.Context) {
	var uri StoryURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 40001, Message: "Invalid story_id", Detail: err.Error()})
		return
	}

	if !h.manuscripts.Delete(uri.StoryID) {
		c.JSON(http.StatusNotFound, ErrorResponse{Code: 40401, Message: "story not found"})
		return
	}
	c.JSON(http.StatusOK, httputil.NewSuccessResponse(DeleteStoryResponseData{ActiveID: h.manuscripts.ActiveID()}))
}

// SetActiveStory switches the editor to a story
// @Summary      Activate a story
// @Tags         stories
// @Produce      json
// @Param        story_id  path  string  true  "story id"
// @Success      200  {object}  httputil.SuccessResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/v1/stories/{story_id}/active [put]
func (h *Handler) SetActiveStory(c *gin.Context) {
	var uri StoryURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: 40001, Message: "Invalid story_id", Detail: err.Error()})
		return
	}

	if !h.manuscripts.SetActive(uri.StoryID) {
		c.JSON(http.StatusNotFound, ErrorResponse{Code: 40401, Message: "story not found"})
		return
	}
	c.JSON(http.StatusOK, httputil.NewSuccessResponse(gin.H{"active_id": uri.StoryID}))
}
