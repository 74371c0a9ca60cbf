package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"kothaboli/internal/ai"
	"kothaboli/internal/model/story"
	"kothaboli/internal/pkg/ark"
	"kothaboli/internal/pkg/bangla"
	"kothaboli/internal/pkg/id"
	"kothaboli/internal/store"
)

var (
	// ErrStoryNotFound no story with the requested id
	ErrStoryNotFound = errors.New("story not found")
	// ErrSceneNotFound no scene with the requested id in the storyboard
	ErrSceneNotFound = errors.New("scene not found")
	// ErrEmptyManuscript the operation needs manuscript text to work on
	ErrEmptyManuscript = errors.New("manuscript is empty")
	// ErrPersonaUnavailable the persona is unknown or behind the content filter
	ErrPersonaUnavailable = errors.New("persona unavailable")
	// ErrCollaboratorUnavailable the backing client is not configured
	ErrCollaboratorUnavailable = errors.New("collaborator not configured")
	// ErrBusy a request of the same kind is already running for the story
	ErrBusy = errors.New("request of this kind already in flight for story")
)

// Generator drafts continuations and scene partitions
type Generator interface {
	StreamStory(ctx context.Context, req *ai.ContinueRequest) (<-chan ai.Chunk, error)
	Segment(ctx context.Context, narrative string) ([]string, error)
}

// Illustrator renders an image for a prompt
type Illustrator interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

// SpeechSynthesizer narrates text as PCM audio
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) (*ark.Audio, error)
}

// StoryService orchestrates the manuscript store, the settings store and
// the generative collaborators. Collaborators are optional; operations
// that need a missing one fail with ErrCollaboratorUnavailable while the
// rest of the editor keeps working.
type StoryService struct {
	manuscripts *store.Manuscripts
	settings    *store.Settings
	generator   Generator
	illustrator Illustrator
	speech      SpeechSynthesizer
	formatter   *bangla.DialogueFormatter

	speechMaxRunes int

	mu       sync.Mutex
	inflight map[string]struct{} // storyID + "/" + kind
}

// NewStoryService creates the story service
func NewStoryService(
	manuscripts *store.Manuscripts,
	settings *store.Settings,
	generator Generator,
	illustrator Illustrator,
	speech SpeechSynthesizer,
	speechMaxRunes int,
) *StoryService {
	return &StoryService{
		manuscripts:    manuscripts,
		settings:       settings,
		generator:      generator,
		illustrator:    illustrator,
		speech:         speech,
		formatter:      bangla.NewDialogueFormatter(),
		speechMaxRunes: speechMaxRunes,
		inflight:       make(map[string]struct{}),
	}
}

// FormatDialogue rewrites the manuscript with dialogue lines dash-marked
func (s *StoryService) FormatDialogue(storyID string) (*story.Story, error) {
	current := s.manuscripts.Get(storyID)
	if current == nil {
		return nil, ErrStoryNotFound
	}

	formatted := s.formatter.Format(current.Content)
	if formatted != current.Content {
		s.manuscripts.Update(storyID, &story.Update{Content: &formatted})
	}

	return s.manuscripts.Get(storyID), nil
}

// Continue drafts a continuation and appends it to the manuscript as it
// streams in. The returned channel mirrors what was appended, fragment by
// fragment, for live delivery to the editor.
func (s *StoryService) Continue(ctx context.Context, storyID, instruction string, persona ai.Persona) (<-chan ai.Chunk, error) {
	if s.generator == nil {
		return nil, ErrCollaboratorUnavailable
	}
	current := s.manuscripts.Get(storyID)
	if current == nil {
		return nil, ErrStoryNotFound
	}

	relaxed := s.settings.Get().ContentFilterRelaxed
	if !persona.Available(relaxed) {
		return nil, ErrPersonaUnavailable
	}

	if err := s.acquire(storyID, "generate"); err != nil {
		return nil, err
	}

	req := &ai.ContinueRequest{
		Context:     current.Content,
		Instruction: instruction,
		Persona:     persona,
		Mature:      relaxed && current.IsMature,
	}
	chunks, err := s.generator.StreamStory(ctx, req)
	if err != nil {
		s.release(storyID, "generate")
		return nil, err
	}

	out := make(chan ai.Chunk, 16)
	go func() {
		defer close(out)
		defer s.release(storyID, "generate")

		first := true
		for chunk := range chunks {
			if chunk.Content != "" {
				fragment := chunk.Content
				if first {
					first = false
					if current.Content != "" {
						fragment = "\n\n" + fragment
					}
				}
				if !s.manuscripts.AppendContent(storyID, fragment) {
					// story deleted mid-stream, stop writing
					log.Warn().Str("story_id", storyID).Msg("story vanished during generation")
					return
				}
				chunk.Content = fragment
			}
			select {
			case out <- chunk:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

// Storyboard partitions the manuscript into scenes and replaces the
// story's storyboard in one step. Collaborator failure leaves the
// previous storyboard untouched.
func (s *StoryService) Storyboard(ctx context.Context, storyID string) ([]story.Scene, error) {
	if s.generator == nil {
		return nil, ErrCollaboratorUnavailable
	}
	current := s.manuscripts.Get(storyID)
	if current == nil {
		return nil, ErrStoryNotFound
	}
	if strings.TrimSpace(current.Content) == "" {
		return nil, ErrEmptyManuscript
	}

	if err := s.acquire(storyID, "storyboard"); err != nil {
		return nil, err
	}
	defer s.release(storyID, "storyboard")

	summaries, err := s.generator.Segment(ctx, current.Content)
	if err != nil {
		log.Error().Err(err).Str("story_id", storyID).Msg("scene segmentation failed")
		return nil, err
	}
	if len(summaries) == 0 {
		return nil, fmt.Errorf("segmentation returned no scenes")
	}

	scenes := make([]story.Scene, 0, len(summaries))
	for _, text := range summaries {
		scenes = append(scenes, story.Scene{ID: id.New(), Text: text})
	}

	if !s.manuscripts.Update(storyID, &story.Update{Storyboard: &scenes}) {
		return nil, ErrStoryNotFound
	}
	return scenes, nil
}

// SceneImage illustrates one storyboard scene and stores the result on it
func (s *StoryService) SceneImage(ctx context.Context, storyID, sceneID string) (*story.Scene, error) {
	if s.illustrator == nil {
		return nil, ErrCollaboratorUnavailable
	}
	current := s.manuscripts.Get(storyID)
	if current == nil {
		return nil, ErrStoryNotFound
	}

	idx := -1
	for i, scene := range current.Storyboard {
		if scene.ID == sceneID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrSceneNotFound
	}

	if err := s.acquire(storyID, "image"); err != nil {
		return nil, err
	}
	defer s.release(storyID, "image")

	prompt := sceneImagePrompt(current, current.Storyboard[idx].Text)
	data, err := s.illustrator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	scenes := make([]story.Scene, len(current.Storyboard))
	copy(scenes, current.Storyboard)
	scenes[idx].ImageURL = dataURI(data)

	if !s.manuscripts.Update(storyID, &story.Update{Storyboard: &scenes}) {
		return nil, ErrStoryNotFound
	}
	return &scenes[idx], nil
}

// Cover renders a cover image for the story and stores it on the record
func (s *StoryService) Cover(ctx context.Context, storyID string) (*story.Story, error) {
	if s.illustrator == nil {
		return nil, ErrCollaboratorUnavailable
	}
	current := s.manuscripts.Get(storyID)
	if current == nil {
		return nil, ErrStoryNotFound
	}

	if err := s.acquire(storyID, "cover"); err != nil {
		return nil, err
	}
	defer s.release(storyID, "cover")

	data, err := s.illustrator.Generate(ctx, coverPrompt(current))
	if err != nil {
		return nil, err
	}

	uri := dataURI(data)
	if !s.manuscripts.Update(storyID, &story.Update{CoverImage: &uri}) {
		return nil, ErrStoryNotFound
	}

	return s.manuscripts.Get(storyID), nil
}

// Speech narrates the opening of the manuscript.
// Long manuscripts are capped so one request stays one short clip.
func (s *StoryService) Speech(ctx context.Context, storyID string) (*ark.Audio, error) {
	if s.speech == nil {
		return nil, ErrCollaboratorUnavailable
	}
	current := s.manuscripts.Get(storyID)
	if current == nil {
		return nil, ErrStoryNotFound
	}

	text := strings.TrimSpace(current.Content)
	if text == "" {
		return nil, ErrEmptyManuscript
	}
	if runes := []rune(text); s.speechMaxRunes > 0 && len(runes) > s.speechMaxRunes {
		text = string(runes[:s.speechMaxRunes])
	}

	if err := s.acquire(storyID, "speech"); err != nil {
		return nil, err
	}
	defer s.release(storyID, "speech")

	return s.speech.Synthesize(ctx, text)
}

// Personas lists the personas offered under the current content filter
func (s *StoryService) Personas() []ai.Persona {
	return ai.Personas(s.settings.Get().ContentFilterRelaxed)
}

// acquire reserves the per-story slot for one kind of collaborator work.
// Different kinds may overlap; a second request of the same kind is busy.
func (s *StoryService) acquire(storyID, kind string) error {
	key := storyID + "/" + kind
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, running := s.inflight[key]; running {
		return ErrBusy
	}
	s.inflight[key] = struct{}{}
	return nil
}

func (s *StoryService) release(storyID, kind string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, storyID+"/"+kind)
}

func sceneImagePrompt(st *story.Story, sceneText string) string {
	return fmt.Sprintf(
		"Cinematic illustration for a Bengali %s. Scene: %s. No text in the image.",
		st.Category, sceneText)
}

func coverPrompt(st *story.Story) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Book cover art for the Bengali %s titled %q.", st.Category, st.Title)
	if st.Synopsis != "" {
		fmt.Fprintf(&b, " Synopsis: %s.", st.Synopsis)
	}
	b.WriteString(" Rich, painterly, portrait orientation. No text in the image.")
	return b.String()
}

func dataURI(image []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(image)
}
