package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"kothaboli/internal/ai"
	"kothaboli/internal/kvstore"
	"kothaboli/internal/model/story"
	"kothaboli/internal/pkg/ark"
	"kothaboli/internal/store"
)

// memKV in-memory kvstore.Store for wiring real stores into tests
type memKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemKV() *memKV { return &memKV{data: make(map[string][]byte)} }

func (m *memKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, kvstore.ErrNotFound
	}
	return v, nil
}

func (m *memKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memKV) Type() string { return "mem" }
func (m *memKV) Close() error { return nil }

// fakeGenerator scripted Generator
type fakeGenerator struct {
	fragments []string
	scenes    []string
	err       error

	mu      sync.Mutex
	lastReq *ai.ContinueRequest

	segmentGate    chan struct{} // when set, Segment blocks until closed
	segmentStarted chan struct{} // closed once Segment has been entered
	startOnce      sync.Once
}

func (f *fakeGenerator) StreamStory(_ context.Context, req *ai.ContinueRequest) (<-chan ai.Chunk, error) {
	f.mu.Lock()
	f.lastReq = req
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	ch := make(chan ai.Chunk, len(f.fragments)+1)
	for _, fr := range f.fragments {
		ch <- ai.Chunk{Content: fr}
	}
	ch <- ai.Chunk{Done: true}
	close(ch)
	return ch, nil
}

func (f *fakeGenerator) Segment(_ context.Context, _ string) ([]string, error) {
	if f.segmentStarted != nil {
		f.startOnce.Do(func() { close(f.segmentStarted) })
	}
	if f.segmentGate != nil {
		<-f.segmentGate
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.scenes, nil
}

func (f *fakeGenerator) request() *ai.ContinueRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastReq
}

type fakeIllustrator struct {
	image []byte
	err   error

	mu      sync.Mutex
	prompts []string
}

func (f *fakeIllustrator) Generate(_ context.Context, prompt string) ([]byte, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.image, nil
}

type fakeSpeech struct {
	mu       sync.Mutex
	lastText string
}

func (f *fakeSpeech) Synthesize(_ context.Context, text string) (*ark.Audio, error) {
	f.mu.Lock()
	f.lastText = text
	f.mu.Unlock()
	return &ark.Audio{PCM: []byte{1, 2, 3, 4}, SampleRate: 24000}, nil
}

func newFixture(gen Generator, ill Illustrator, sp SpeechSynthesizer) (*StoryService, *store.Manuscripts, *store.Settings) {
	kv := newMemKV()
	manuscripts := store.NewManuscripts(kv, time.Hour)
	settings := store.NewSettings(kv)
	svc := NewStoryService(manuscripts, settings, gen, ill, sp, 5)
	return svc, manuscripts, settings
}

func drain(ch <-chan ai.Chunk) []ai.Chunk {
	var got []ai.Chunk
	for c := range ch {
		got = append(got, c)
	}
	return got
}

func TestFormatDialogue(t *testing.T) {
	Convey("given a manuscript with unmarked dialogue", t, func() {
		svc, manuscripts, _ := newFixture(nil, nil, nil)
		s := manuscripts.Create()
		content := "রহিম: কেমন আছ?\nসে চলে গেল।"
		manuscripts.Update(s.ID, &story.Update{Content: &content})

		Convey("formatting marks the dialogue lines in place", func() {
			updated, err := svc.FormatDialogue(s.ID)
			So(err, ShouldBeNil)
			So(updated.Content, ShouldEqual, "— রহিম: কেমন আছ?\nসে চলে গেল।")
		})

		Convey("an unknown story is rejected", func() {
			_, err := svc.FormatDialogue("nope")
			So(err, ShouldEqual, ErrStoryNotFound)
		})
	})
}

func TestContinue(t *testing.T) {
	ctx := context.Background()

	Convey("given a story with existing prose", t, func() {
		gen := &fakeGenerator{fragments: []string{"নতুন ", "অংশ।"}}
		svc, manuscripts, settings := newFixture(gen, nil, nil)
		s := manuscripts.Create()
		content := "পুরনো অংশ।"
		manuscripts.Update(s.ID, &story.Update{Content: &content})

		Convey("the continuation streams in and lands in the manuscript", func() {
			ch, err := svc.Continue(ctx, s.ID, "এগিয়ে নাও", ai.PersonaClassic)
			So(err, ShouldBeNil)
			chunks := drain(ch)

			So(chunks[len(chunks)-1].Done, ShouldBeTrue)
			So(manuscripts.Get(s.ID).Content, ShouldEqual, "পুরনো অংশ।\n\nনতুন অংশ।")

			Convey("the first delivered fragment carries the separator", func() {
				So(chunks[0].Content, ShouldStartWith, "\n\n")
			})

			Convey("the tail of the manuscript travels as context", func() {
				So(gen.request().Context, ShouldEqual, "পুরনো অংশ।")
				So(gen.request().Instruction, ShouldEqual, "এগিয়ে নাও")
			})
		})

		Convey("an empty manuscript gets no separator", func() {
			empty := ""
			manuscripts.Update(s.ID, &story.Update{Content: &empty})
			ch, err := svc.Continue(ctx, s.ID, "শুরু করো", ai.PersonaClassic)
			So(err, ShouldBeNil)
			drain(ch)
			So(manuscripts.Get(s.ID).Content, ShouldEqual, "নতুন অংশ।")
		})

		Convey("the bold persona needs the relaxed filter", func() {
			_, err := svc.Continue(ctx, s.ID, "x", ai.PersonaBold)
			So(err, ShouldEqual, ErrPersonaUnavailable)

			So(settings.Set(ctx, story.AppSettings{
				ContentFilterRelaxed: true,
				AutoSaveIntervalMs:   story.DefaultAutoSaveIntervalMs,
			}), ShouldBeNil)
			ch, err := svc.Continue(ctx, s.ID, "x", ai.PersonaBold)
			So(err, ShouldBeNil)
			drain(ch)
		})

		Convey("maturity reaches the model only when the filter is relaxed", func() {
			mature := true
			manuscripts.Update(s.ID, &story.Update{IsMature: &mature})

			ch, _ := svc.Continue(ctx, s.ID, "x", ai.PersonaClassic)
			drain(ch)
			So(gen.request().Mature, ShouldBeFalse)

			So(settings.Set(ctx, story.AppSettings{
				ContentFilterRelaxed: true,
				AutoSaveIntervalMs:   story.DefaultAutoSaveIntervalMs,
			}), ShouldBeNil)
			ch, _ = svc.Continue(ctx, s.ID, "x", ai.PersonaClassic)
			drain(ch)
			So(gen.request().Mature, ShouldBeTrue)
		})

		Convey("without a generator the operation is unavailable", func() {
			svcNo, manuscriptsNo, _ := newFixture(nil, nil, nil)
			sn := manuscriptsNo.Create()
			_, err := svcNo.Continue(ctx, sn.ID, "x", ai.PersonaClassic)
			So(err, ShouldEqual, ErrCollaboratorUnavailable)
		})
	})
}

func TestStoryboard(t *testing.T) {
	ctx := context.Background()

	Convey("given a story with prose", t, func() {
		gen := &fakeGenerator{scenes: []string{"নদীর ধারে গ্রাম।", "ঝড় ওঠে।", "ভোর হয়।"}}
		svc, manuscripts, _ := newFixture(gen, nil, nil)
		s := manuscripts.Create()
		content := "অনেক লম্বা গল্প।"
		manuscripts.Update(s.ID, &story.Update{Content: &content})

		Convey("segmentation replaces the storyboard with fresh scenes", func() {
			scenes, err := svc.Storyboard(ctx, s.ID)
			So(err, ShouldBeNil)
			So(scenes, ShouldHaveLength, 3)
			So(scenes[0].Text, ShouldEqual, "নদীর ধারে গ্রাম।")
			So(scenes[0].ID, ShouldNotBeEmpty)
			So(scenes[0].ID, ShouldNotEqual, scenes[1].ID)
			So(manuscripts.Get(s.ID).Storyboard, ShouldHaveLength, 3)
		})

		Convey("an empty manuscript cannot be segmented", func() {
			blank := "  \n "
			manuscripts.Update(s.ID, &story.Update{Content: &blank})
			_, err := svc.Storyboard(ctx, s.ID)
			So(err, ShouldEqual, ErrEmptyManuscript)
		})

		Convey("collaborator failure leaves the previous storyboard intact", func() {
			_, err := svc.Storyboard(ctx, s.ID)
			So(err, ShouldBeNil)
			before := manuscripts.Get(s.ID).Storyboard

			gen.err = context.DeadlineExceeded
			_, err = svc.Storyboard(ctx, s.ID)
			So(err, ShouldNotBeNil)
			So(manuscripts.Get(s.ID).Storyboard, ShouldResemble, before)
		})

		Convey("a second request of the same kind is rejected while one runs", func() {
			gen.segmentGate = make(chan struct{})
			gen.segmentStarted = make(chan struct{})

			firstDone := make(chan error, 1)
			go func() {
				_, err := svc.Storyboard(ctx, s.ID)
				firstDone <- err
			}()

			<-gen.segmentStarted // the first call holds the slot now
			_, err := svc.Storyboard(ctx, s.ID)
			So(err, ShouldEqual, ErrBusy)

			close(gen.segmentGate)
			So(<-firstDone, ShouldBeNil)
		})
	})
}

func TestSceneImageAndCover(t *testing.T) {
	ctx := context.Background()

	Convey("given a story with a storyboard", t, func() {
		gen := &fakeGenerator{scenes: []string{"প্রথম দৃশ্য", "দ্বিতীয় দৃশ্য"}}
		ill := &fakeIllustrator{image: []byte{0x89, 'P', 'N', 'G'}}
		svc, manuscripts, _ := newFixture(gen, ill, nil)
		s := manuscripts.Create()
		content := "গল্পের শরীর।"
		manuscripts.Update(s.ID, &story.Update{Content: &content})
		scenes, err := svc.Storyboard(ctx, s.ID)
		So(err, ShouldBeNil)

		Convey("illustrating a scene stores a data URI on it", func() {
			scene, err := svc.SceneImage(ctx, s.ID, scenes[1].ID)
			So(err, ShouldBeNil)
			So(scene.ImageURL, ShouldStartWith, "data:image/png;base64,")

			stored := manuscripts.Get(s.ID).Storyboard
			So(stored[1].ImageURL, ShouldEqual, scene.ImageURL)
			So(stored[0].ImageURL, ShouldBeEmpty)

			Convey("the prompt carries the scene text", func() {
				So(ill.prompts[len(ill.prompts)-1], ShouldContainSubstring, "দ্বিতীয় দৃশ্য")
			})
		})

		Convey("an unknown scene is rejected", func() {
			_, err := svc.SceneImage(ctx, s.ID, "nope")
			So(err, ShouldEqual, ErrSceneNotFound)
		})

		Convey("a cover lands on the story record", func() {
			title := "নদীর গল্প"
			manuscripts.Update(s.ID, &story.Update{Title: &title})

			updated, err := svc.Cover(ctx, s.ID)
			So(err, ShouldBeNil)
			So(updated.CoverImage, ShouldStartWith, "data:image/png;base64,")
			So(ill.prompts[len(ill.prompts)-1], ShouldContainSubstring, "নদীর গল্প")
		})

		Convey("without an illustrator the operations are unavailable", func() {
			svcNo, manuscriptsNo, _ := newFixture(gen, nil, nil)
			sn := manuscriptsNo.Create()
			_, err := svcNo.Cover(ctx, sn.ID)
			So(err, ShouldEqual, ErrCollaboratorUnavailable)
		})
	})
}

func TestSpeech(t *testing.T) {
	ctx := context.Background()

	Convey("given a story and a speech synthesizer capped at 5 runes", t, func() {
		sp := &fakeSpeech{}
		svc, manuscripts, _ := newFixture(nil, nil, sp)
		s := manuscripts.Create()

		Convey("narration returns PCM audio for the opening of the text", func() {
			content := "আমি আজ নদীর ধারে গিয়েছিলাম।"
			manuscripts.Update(s.ID, &story.Update{Content: &content})

			audio, err := svc.Speech(ctx, s.ID)
			So(err, ShouldBeNil)
			So(audio.PCM, ShouldNotBeEmpty)
			So(audio.SampleRate, ShouldEqual, 24000)
			So(sp.lastText, ShouldEqual, string([]rune(strings.TrimSpace(content))[:5]))
		})

		Convey("an empty manuscript has nothing to narrate", func() {
			_, err := svc.Speech(ctx, s.ID)
			So(err, ShouldEqual, ErrEmptyManuscript)
		})
	})
}
