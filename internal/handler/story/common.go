package story

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"kothaboli/internal/model/story"
	"kothaboli/internal/pkg/bangla"
	httputil "kothaboli/internal/pkg/http"
	"kothaboli/internal/service"
)

// ErrorResponse shared error payload
type ErrorResponse = httputil.ErrorResponse

const previewRunes = 120

// SceneInfo storyboard scene DTO
type SceneInfo struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	ImageURL string `json:"image_url,omitempty"`
}

// StoryInfo full story DTO
type StoryInfo struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Author       string      `json:"author,omitempty"`
	Synopsis     string      `json:"synopsis,omitempty"`
	Content      string      `json:"content"`
	Category     string      `json:"category"`
	CoverImage   string      `json:"cover_image,omitempty"`
	Storyboard   []SceneInfo `json:"storyboard,omitempty"`
	IsMature     bool        `json:"is_mature"`
	CharCount    int         `json:"char_count"`
	WordCount    int         `json:"word_count"`
	LineCount    int         `json:"line_count"`
	Active       bool        `json:"active"`
	LastModified string      `json:"last_modified"`
}

// StorySummary list-view DTO; carries a preview instead of the manuscript
type StorySummary struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Author       string `json:"author,omitempty"`
	Category     string `json:"category"`
	Preview      string `json:"preview"`
	HasCover     bool   `json:"has_cover"`
	IsMature     bool   `json:"is_mature"`
	CharCount    int    `json:"char_count"`
	WordCount    int    `json:"word_count"`
	Active       bool   `json:"active"`
	LastModified string `json:"last_modified"`
}

func toSceneInfoList(scenes []story.Scene) []SceneInfo {
	if len(scenes) == 0 {
		return nil
	}
	list := make([]SceneInfo, len(scenes))
	for i, s := range scenes {
		list[i] = SceneInfo{ID: s.ID, Text: s.Text, ImageURL: s.ImageURL}
	}
	return list
}

func toStoryInfo(s *story.Story, activeID string) StoryInfo {
	stats := bangla.Stats(s.Content)
	return StoryInfo{
		ID:           s.ID,
		Title:        s.Title,
		Author:       s.Author,
		Synopsis:     s.Synopsis,
		Content:      s.Content,
		Category:     string(s.Category),
		CoverImage:   s.CoverImage,
		Storyboard:   toSceneInfoList(s.Storyboard),
		IsMature:     s.IsMature,
		CharCount:    stats.Chars,
		WordCount:    stats.Words,
		LineCount:    stats.Lines,
		Active:       s.ID == activeID,
		LastModified: s.LastModified.Format(time.RFC3339),
	}
}

func toStorySummary(s *story.Story, activeID string) StorySummary {
	stats := bangla.Stats(s.Content)
	return StorySummary{
		ID:           s.ID,
		Title:        s.Title,
		Author:       s.Author,
		Category:     string(s.Category),
		Preview:      preview(s.Content),
		HasCover:     s.CoverImage != "",
		IsMature:     s.IsMature,
		CharCount:    stats.Chars,
		WordCount:    stats.Words,
		Active:       s.ID == activeID,
		LastModified: s.LastModified.Format(time.RFC3339),
	}
}

func toStorySummaryList(stories []*story.Story, activeID string) []StorySummary {
	list := make([]StorySummary, len(stories))
	for i, s := range stories {
		list[i] = toStorySummary(s, activeID)
	}
	return list
}

// preview returns the opening of the manuscript, collapsed to one line
func preview(content string) string {
	text := strings.Join(strings.Fields(content), " ")
	r := []rune(text)
	if len(r) <= previewRunes {
		return text
	}
	return string(r[:previewRunes]) + "…"
}

// respondServiceError maps service errors onto HTTP statuses
func respondServiceError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := 50001

	switch err {
	case service.ErrStoryNotFound, service.ErrSceneNotFound:
		status, code = http.StatusNotFound, 40401
	case service.ErrEmptyManuscript:
		status, code = http.StatusUnprocessableEntity, 42201
	case service.ErrPersonaUnavailable:
		status, code = http.StatusForbidden, 40301
	case service.ErrBusy:
		status, code = http.StatusConflict, 40901
	case service.ErrCollaboratorUnavailable:
		status, code = http.StatusServiceUnavailable, 50301
	}

	c.JSON(status, ErrorResponse{Code: code, Message: err.Error()})
}
