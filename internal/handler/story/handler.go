// Package story exposes the manuscript editor over HTTP.
package story

import (
	"kothaboli/internal/service"
	"kothaboli/internal/store"
)

// Handler story endpoints; routes go through the service and the stores
type Handler struct {
	manuscripts  *store.Manuscripts
	storyService *service.StoryService
}

// NewHandler creates the story handler
func NewHandler(manuscripts *store.Manuscripts, storyService *service.StoryService) *Handler {
	return &Handler{
		manuscripts:  manuscripts,
		storyService: storyService,
	}
}
