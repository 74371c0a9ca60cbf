package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"kothaboli/internal/kvstore"
	"kothaboli/internal/model/story"
	"kothaboli/internal/pkg/id"
)

// Manuscripts is the single source of truth for the story collection,
// the active-story pointer, and the auto-save timing contract.
//
// Every mutation reschedules one trailing-edge debounce timer; the durable
// write happens only after the configured quiescence window. The active-id
// pointer is small and is written immediately instead, so a crash at worst
// loses which story reopens, never content that had a chance to settle.
type Manuscripts struct {
	mu sync.Mutex

	kv       kvstore.Store
	stories  []*story.Story // newest first
	activeID string

	interval time.Duration
	timer    *time.Timer
	dirty    bool

	// gen counts mutations; activeGen counts active-pointer moves.
	// A persist carries the generation of the snapshot it marshalled, so a
	// slow write can be recognized as stale and skipped.
	gen       uint64
	activeGen uint64

	// persistMu serializes every durable write. The written* watermarks are
	// guarded by it; without this ordering a stalled timer-fired write could
	// land after a later successful Flush and clobber it with old state.
	persistMu        sync.Mutex
	writtenGen       uint64
	writtenActiveGen uint64
}

// NewManuscripts creates a store flushing through kv after interval of quiescence
func NewManuscripts(kv kvstore.Store, interval time.Duration) *Manuscripts {
	if interval <= 0 {
		interval = story.DefaultAutoSaveIntervalMs * time.Millisecond
	}
	return &Manuscripts{
		kv:       kv,
		interval: interval,
	}
}

// Load reads the durable collection and active pointer. Missing or corrupt
// records yield an empty collection; load never fails.
func (m *Manuscripts) Load(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stories = nil
	if data, err := m.kv.Get(ctx, kvstore.KeyStories); err == nil {
		var stories []*story.Story
		if err := json.Unmarshal(data, &stories); err != nil {
			log.Warn().Err(err).Msg("stories record is corrupt, starting empty")
		} else {
			m.stories = stories
		}
	} else if err != kvstore.ErrNotFound {
		log.Warn().Err(err).Msg("failed to read stories record, starting empty")
	}

	m.activeID = ""
	if data, err := m.kv.Get(ctx, kvstore.KeyActiveID); err == nil {
		m.activeID = string(data)
	}

	// Repair a dangling active pointer
	if m.findLocked(m.activeID) == nil {
		m.activeID = ""
		if len(m.stories) > 0 {
			m.activeID = m.stories[0].ID
		}
	}

	log.Info().
		Int("stories", len(m.stories)).
		Str("active_id", m.activeID).
		Msg("manuscripts loaded")
}

// Create inserts a fresh story at the head of the collection and makes it
// active. It always succeeds.
func (m *Manuscripts) Create() *story.Story {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := story.New(id.New())
	m.stories = append([]*story.Story{s}, m.stories...)
	m.activeID = s.ID
	m.persistActiveLocked()
	m.scheduleLocked()

	return s.Clone()
}

// Update applies a partial merge onto the story matching storyID and
// refreshes LastModified. Unknown ids are a defensive no-op, not an error.
func (m *Manuscripts) Update(storyID string, u *story.Update) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.findLocked(storyID)
	if s == nil {
		return false
	}

	u.Apply(s)
	s.LastModified = time.Now()
	m.scheduleLocked()
	return true
}

// AppendContent appends a generated fragment to the story content.
// Fragments are applied strictly in call order.
func (m *Manuscripts) AppendContent(storyID, fragment string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.findLocked(storyID)
	if s == nil {
		return false
	}

	s.Content += fragment
	s.LastModified = time.Now()
	m.scheduleLocked()
	return true
}

// Delete removes the story matching storyID. If it was active, the pointer
// falls back to the new head of the collection, or to none.
func (m *Manuscripts) Delete(storyID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := -1
	for i, s := range m.stories {
		if s.ID == storyID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	m.stories = append(m.stories[:idx], m.stories[idx+1:]...)
	if m.activeID == storyID {
		m.activeID = ""
		if len(m.stories) > 0 {
			m.activeID = m.stories[0].ID
		}
		m.persistActiveLocked()
	}
	m.scheduleLocked()
	return true
}

// SetActive moves the active pointer; the pointer is persisted immediately
func (m *Manuscripts) SetActive(storyID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.findLocked(storyID) == nil {
		return false
	}
	m.activeID = storyID
	m.persistActiveLocked()
	return true
}

// Get returns a copy of the story matching storyID, or nil
func (m *Manuscripts) Get(storyID string) *story.Story {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.findLocked(storyID)
	if s == nil {
		return nil
	}
	return s.Clone()
}

// Active returns a copy of the active story, or nil when none is active
func (m *Manuscripts) Active() *story.Story {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.findLocked(m.activeID)
	if s == nil {
		return nil
	}
	return s.Clone()
}

// ActiveID returns the active story id, empty when none
func (m *Manuscripts) ActiveID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeID
}

// List returns copies of all stories, newest first
func (m *Manuscripts) List() []*story.Story {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*story.Story, len(m.stories))
	for i, s := range m.stories {
		out[i] = s.Clone()
	}
	return out
}

// Dirty reports whether a debounced write is still pending.
// UI feedback only; not a correctness signal.
func (m *Manuscripts) Dirty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dirty
}

// SetAutoSaveInterval changes the quiescence window for future mutations
func (m *Manuscripts) SetAutoSaveInterval(interval time.Duration) {
	if interval <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.interval = interval
}

// Flush cancels any pending timer and persists immediately. Called on
// shutdown so the final keystrokes outlive the process.
func (m *Manuscripts) Flush(ctx context.Context) error {
	m.mu.Lock()
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.mu.Unlock()

	return m.persist(ctx)
}

func (m *Manuscripts) findLocked(storyID string) *story.Story {
	if storyID == "" {
		return nil
	}
	for _, s := range m.stories {
		if s.ID == storyID {
			return s
		}
	}
	return nil
}

// scheduleLocked arms the trailing-edge debounce timer, cancelling any
// pending one. Last write wins; there is never more than one timer.
func (m *Manuscripts) scheduleLocked() {
	m.gen++
	m.dirty = true
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = time.AfterFunc(m.interval, func() {
		if err := m.persist(context.Background()); err != nil {
			log.Warn().Err(err).Msg("auto-save failed, edits kept in memory")
		}
	})
}

// persist durably writes the full collection and the active pointer.
// Writes are serialized through persistMu and carry the snapshot's
// generation: a write that raced against a newer one is skipped rather
// than allowed to roll the durable record backwards. Storage failure
// never discards in-memory state.
func (m *Manuscripts) persist(ctx context.Context) error {
	m.mu.Lock()
	gen := m.gen
	activeGen := m.activeGen
	data, err := json.Marshal(m.stories)
	activeID := m.activeID
	m.mu.Unlock()
	if err != nil {
		return err
	}

	m.persistMu.Lock()
	defer m.persistMu.Unlock()

	if gen > m.writtenGen {
		if err := m.kv.Set(ctx, kvstore.KeyStories, data); err != nil {
			return err
		}
		m.writtenGen = gen
		log.Debug().Int("bytes", len(data)).Msg("manuscripts persisted")
	}
	if activeGen > m.writtenActiveGen {
		if err := m.kv.Set(ctx, kvstore.KeyActiveID, []byte(activeID)); err != nil {
			return err
		}
		m.writtenActiveGen = activeGen
	}

	// Only report clean when no mutation arrived after the snapshot
	m.mu.Lock()
	if m.gen == gen {
		m.dirty = false
	}
	m.mu.Unlock()

	return nil
}

// persistActiveLocked writes the active pointer right away, outside the
// debounce pipeline. The write goes through the same serialization and
// watermark as persist, so pointer writes cannot land out of order either.
func (m *Manuscripts) persistActiveLocked() {
	m.activeGen++
	gen := m.activeGen
	activeID := m.activeID
	go func() {
		m.persistMu.Lock()
		defer m.persistMu.Unlock()

		if gen <= m.writtenActiveGen {
			return
		}
		if err := m.kv.Set(context.Background(), kvstore.KeyActiveID, []byte(activeID)); err != nil {
			log.Warn().Err(err).Msg("failed to persist active story pointer")
			return
		}
		m.writtenActiveGen = gen
	}()
}
