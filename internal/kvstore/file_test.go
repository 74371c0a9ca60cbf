package kvstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFileStore(t *testing.T) {
	Convey("the file store round-trips records as JSON files", t, func() {
		dir := t.TempDir()
		store, err := NewFileStore(dir)
		So(err, ShouldBeNil)
		ctx := context.Background()

		Convey("set then get returns the same bytes", func() {
			So(store.Set(ctx, KeyStories, []byte(`[{"id":"a"}]`)), ShouldBeNil)

			data, err := store.Get(ctx, KeyStories)
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, `[{"id":"a"}]`)

			// One file per record, named after the key
			_, statErr := os.Stat(filepath.Join(dir, "stories.json"))
			So(statErr, ShouldBeNil)
		})

		Convey("a missing record is ErrNotFound", func() {
			_, err := store.Get(ctx, KeySettings)
			So(err, ShouldEqual, ErrNotFound)
		})

		Convey("overwriting replaces the previous value", func() {
			So(store.Set(ctx, KeyActiveID, []byte("one")), ShouldBeNil)
			So(store.Set(ctx, KeyActiveID, []byte("two")), ShouldBeNil)

			data, err := store.Get(ctx, KeyActiveID)
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "two")
		})

		Convey("delete is idempotent", func() {
			So(store.Set(ctx, KeyActiveID, []byte("x")), ShouldBeNil)
			So(store.Delete(ctx, KeyActiveID), ShouldBeNil)
			So(store.Delete(ctx, KeyActiveID), ShouldBeNil)

			_, err := store.Get(ctx, KeyActiveID)
			So(err, ShouldEqual, ErrNotFound)
		})

		Convey("no temp files survive a write", func() {
			So(store.Set(ctx, KeyStories, []byte("[]")), ShouldBeNil)
			entries, err := os.ReadDir(dir)
			So(err, ShouldBeNil)
			for _, e := range entries {
				So(filepath.Ext(e.Name()), ShouldEqual, ".json")
			}
		})

		Convey("the backend reports its type", func() {
			So(store.Type(), ShouldEqual, "file")
		})

		Convey("an empty directory is rejected", func() {
			_, err := NewFileStore("")
			So(err, ShouldNotBeNil)
		})
	})
}
