package story

import (
	"time"
)

// Category manuscript category
type Category string

const (
	CategoryShortStory   Category = "short_story"
	CategoryNovel        Category = "novel"
	CategoryPoetry       Category = "poetry"
	CategoryExperimental Category = "experimental"
)

// String returns the category as a plain string
func (c Category) String() string {
	return string(c)
}

// IsValid reports whether c is one of the known categories
func (c Category) IsValid() bool {
	switch c {
	case CategoryShortStory, CategoryNovel, CategoryPoetry, CategoryExperimental:
		return true
	}
	return false
}

// Story a single user-authored manuscript
type Story struct {
	ID string `json:"id"` // UUID, immutable after creation

	Title    string   `json:"title"`
	Author   string   `json:"author,omitempty"`
	Synopsis string   `json:"synopsis,omitempty"`
	Content  string   `json:"content"` // manuscript body, newline-delimited paragraphs
	Category Category `json:"category"`

	// CoverImage holds an opaque encoded payload or URL; empty until generated
	CoverImage string `json:"cover_image,omitempty"`

	// Storyboard is replaced wholesale on regeneration, never merged
	Storyboard []Scene `json:"storyboard,omitempty"`

	// IsMature mirrors the content-filter setting at the time of AI operations
	IsMature bool `json:"is_mature,omitempty"`

	LastModified time.Time `json:"last_modified"`
}

// Scene one narrative beat of a storyboard, owned by its parent story
type Scene struct {
	ID       string `json:"id"` // unique within the owning storyboard
	Text     string `json:"text"`
	ImageURL string `json:"image_url,omitempty"`
}

// Clone returns a deep copy of the story. The storyboard slice gets its
// own backing array, so mutating a clone never reaches the original.
func (s *Story) Clone() *Story {
	out := *s
	if s.Storyboard != nil {
		out.Storyboard = make([]Scene, len(s.Storyboard))
		copy(out.Storyboard, s.Storyboard)
	}
	return &out
}

// Update carries a partial field replacement for a story.
// Nil pointers leave the corresponding field untouched.
type Update struct {
	Title      *string   `json:"title,omitempty"`
	Author     *string   `json:"author,omitempty"`
	Synopsis   *string   `json:"synopsis,omitempty"`
	Content    *string   `json:"content,omitempty"`
	Category   *Category `json:"category,omitempty"`
	CoverImage *string   `json:"cover_image,omitempty"`
	Storyboard *[]Scene  `json:"storyboard,omitempty"`
	IsMature   *bool     `json:"is_mature,omitempty"`
}

// Apply merges the partial update onto s. The caller refreshes LastModified.
func (u *Update) Apply(s *Story) {
	if u.Title != nil {
		s.Title = *u.Title
	}
	if u.Author != nil {
		s.Author = *u.Author
	}
	if u.Synopsis != nil {
		s.Synopsis = *u.Synopsis
	}
	if u.Content != nil {
		s.Content = *u.Content
	}
	if u.Category != nil && u.Category.IsValid() {
		s.Category = *u.Category
	}
	if u.CoverImage != nil {
		s.CoverImage = *u.CoverImage
	}
	if u.Storyboard != nil {
		s.Storyboard = *u.Storyboard
	}
	if u.IsMature != nil {
		s.IsMature = *u.IsMature
	}
}

// DefaultTitle title assigned to a freshly created story
const DefaultTitle = "নতুন গল্প"

// New creates a story with default fields. The caller supplies the id.
func New(storyID string) *Story {
	return &Story{
		ID:           storyID,
		Title:        DefaultTitle,
		Category:     CategoryShortStory,
		LastModified: time.Now(),
	}
}
