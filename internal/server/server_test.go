package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"kothaboli/internal/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 8590, Mode: "test"},
		Store: config.StoreConfig{
			Type: "file",
			File: &config.FileStoreConfig{Dir: t.TempDir()},
		},
		TTS: config.TTSConfig{SampleRate: 24000, MaxRunes: 500},
	}
	srv, err := New(cfg)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}
	return srv
}

func do(srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)
	return w
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode envelope: %v (%s)", err, w.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			t.Fatalf("failed to decode data: %v (%s)", err, env.Data)
		}
	}
}

func TestServerEndpoints(t *testing.T) {
	Convey("given a server with a file-backed store and no collaborators", t, func() {
		srv := newTestServer(t)

		Convey("the probes answer", func() {
			So(do(srv, http.MethodGet, "/health", nil).Code, ShouldEqual, http.StatusOK)
			So(do(srv, http.MethodGet, "/ready", nil).Code, ShouldEqual, http.StatusOK)
		})

		Convey("the story lifecycle works end to end", func() {
			w := do(srv, http.MethodPost, "/api/v1/stories", nil)
			So(w.Code, ShouldEqual, http.StatusCreated)
			var created struct {
				ID     string `json:"id"`
				Title  string `json:"title"`
				Active bool   `json:"active"`
			}
			decodeData(t, w, &created)
			So(created.ID, ShouldNotBeEmpty)
			So(created.Title, ShouldEqual, "নতুন গল্প")
			So(created.Active, ShouldBeTrue)

			base := "/api/v1/stories/" + created.ID

			Convey("a partial update touches only the sent fields", func() {
				w := do(srv, http.MethodPatch, base, map[string]interface{}{
					"title":   "নদীর গল্প",
					"content": "রহিম: কেমন আছ?\nভালো আছি।",
				})
				So(w.Code, ShouldEqual, http.StatusOK)
				var updated struct {
					Title     string `json:"title"`
					Content   string `json:"content"`
					Category  string `json:"category"`
					WordCount int    `json:"word_count"`
				}
				decodeData(t, w, &updated)
				So(updated.Title, ShouldEqual, "নদীর গল্প")
				So(updated.Category, ShouldEqual, "short_story")
				So(updated.WordCount, ShouldEqual, 5)

				Convey("dialogue formatting rewrites the manuscript in place", func() {
					w := do(srv, http.MethodPost, base+"/format-dialogue", nil)
					So(w.Code, ShouldEqual, http.StatusOK)
					var formatted struct {
						Content string `json:"content"`
					}
					decodeData(t, w, &formatted)
					So(formatted.Content, ShouldEqual, "— রহিম: কেমন আছ?\nভালো আছি।")
				})

				Convey("the list carries a preview, not the manuscript", func() {
					w := do(srv, http.MethodGet, "/api/v1/stories", nil)
					So(w.Code, ShouldEqual, http.StatusOK)
					var list struct {
						Stories []struct {
							ID      string `json:"id"`
							Preview string `json:"preview"`
						} `json:"stories"`
						ActiveID string `json:"active_id"`
					}
					decodeData(t, w, &list)
					So(list.Stories, ShouldHaveLength, 1)
					So(list.ActiveID, ShouldEqual, created.ID)
					So(list.Stories[0].Preview, ShouldContainSubstring, "রহিম")
				})

				Convey("the export serves a named download", func() {
					w := do(srv, http.MethodGet, base+"/export/text", nil)
					So(w.Code, ShouldEqual, http.StatusOK)
					So(w.Header().Get("Content-Disposition"), ShouldContainSubstring, "attachment")
					So(w.Body.String(), ShouldContainSubstring, "নদীর গল্প")

					So(do(srv, http.MethodGet, base+"/export/pdf", nil).Code, ShouldEqual, http.StatusBadRequest)
				})
			})

			Convey("an unknown category is rejected", func() {
				w := do(srv, http.MethodPatch, base, map[string]interface{}{"category": "haiku"})
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})

			Convey("deleting the active story promotes the newest remaining one", func() {
				w := do(srv, http.MethodPost, "/api/v1/stories", nil)
				var second struct {
					ID string `json:"id"`
				}
				decodeData(t, w, &second)

				w = do(srv, http.MethodDelete, "/api/v1/stories/"+second.ID, nil)
				So(w.Code, ShouldEqual, http.StatusOK)
				var deleted struct {
					ActiveID string `json:"active_id"`
				}
				decodeData(t, w, &deleted)
				So(deleted.ActiveID, ShouldEqual, created.ID)
			})

			Convey("activation switches the editor", func() {
				So(do(srv, http.MethodPut, base+"/active", nil).Code, ShouldEqual, http.StatusOK)
				So(do(srv, http.MethodPut, "/api/v1/stories/nope/active", nil).Code, ShouldEqual, http.StatusNotFound)
			})

			Convey("generation endpoints degrade without collaborators", func() {
				w := do(srv, http.MethodPost, base+"/generate", map[string]string{"instruction": "এগিয়ে নাও"})
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)

				So(do(srv, http.MethodPost, base+"/storyboard", nil).Code, ShouldEqual, http.StatusServiceUnavailable)
				So(do(srv, http.MethodPost, base+"/cover", nil).Code, ShouldEqual, http.StatusServiceUnavailable)
				So(do(srv, http.MethodPost, base+"/speech", nil).Code, ShouldEqual, http.StatusServiceUnavailable)
			})
		})

		Convey("an unknown story is a 404 everywhere", func() {
			for _, path := range []string{
				"/api/v1/stories/nope",
				"/api/v1/stories/nope/export/text",
			} {
				So(do(srv, http.MethodGet, path, nil).Code, ShouldEqual, http.StatusNotFound)
			}
			So(do(srv, http.MethodPost, "/api/v1/stories/nope/format-dialogue", nil).Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("settings round-trip and normalize the auto-save interval", func() {
			w := do(srv, http.MethodGet, "/api/v1/settings", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			var got struct {
				Settings struct {
					AutoSaveIntervalMs int  `json:"auto_save_interval_ms"`
					ContentFilter      bool `json:"content_filter_relaxed"`
				} `json:"settings"`
				Personas []string `json:"personas"`
			}
			decodeData(t, w, &got)
			So(got.Settings.AutoSaveIntervalMs, ShouldEqual, 2000)
			So(got.Personas, ShouldNotContain, "bold")

			w = do(srv, http.MethodPut, "/api/v1/settings", map[string]interface{}{
				"auto_save_interval_ms":  7777,
				"content_filter_relaxed": true,
				"ui_theme":               "dark",
			})
			So(w.Code, ShouldEqual, http.StatusOK)
			decodeData(t, w, &got)
			So(got.Settings.AutoSaveIntervalMs, ShouldEqual, 2000) // unsupported interval falls back
			So(got.Personas, ShouldContain, "bold")
		})

		Convey("the status endpoint reports the persistence state", func() {
			do(srv, http.MethodPost, "/api/v1/stories", nil)
			w := do(srv, http.MethodGet, "/api/v1/status", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			var status struct {
				ActiveID   string `json:"active_id"`
				StoryCount int    `json:"story_count"`
			}
			decodeData(t, w, &status)
			So(status.StoryCount, ShouldEqual, 1)
			So(status.ActiveID, ShouldNotBeEmpty)
		})

		Convey("responses carry a request id", func() {
			w := do(srv, http.MethodGet, "/health", nil)
			So(w.Header().Get("X-Request-ID"), ShouldNotBeEmpty)

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			req.Header.Set("X-Request-ID", "fixed-id")
			rec := httptest.NewRecorder()
			srv.Engine().ServeHTTP(rec, req)
			So(rec.Header().Get("X-Request-ID"), ShouldEqual, "fixed-id")
		})
	})
}

func TestServerValidation(t *testing.T) {
	Convey("server construction", t, func() {
		Convey("an unknown store type is rejected", func() {
			cfg := &config.Config{
				Server: config.ServerConfig{Mode: "test"},
				Store:  config.StoreConfig{Type: "mongodb"},
			}
			_, err := New(cfg)
			So(err, ShouldNotBeNil)
		})
	})
}
