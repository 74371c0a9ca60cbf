package ai

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseSceneLines(t *testing.T) {
	Convey("parseSceneLines extracts clean scene summaries", t, func() {
		Convey("plain lines pass through", func() {
			raw := "নদীর ধারে গ্রাম।\nঝড় ওঠে।\nরহিম ঘরে ফেরে।\nভোর হয়।"
			So(parseSceneLines(raw), ShouldResemble,
				[]string{"নদীর ধারে গ্রাম।", "ঝড় ওঠে।", "রহিম ঘরে ফেরে।", "ভোর হয়।"})
		})

		Convey("numbering and bullets are stripped", func() {
			raw := "1. প্রথম দৃশ্য\n2) দ্বিতীয় দৃশ্য\n- তৃতীয় দৃশ্য\n১। চতুর্থ দৃশ্য"
			So(parseSceneLines(raw), ShouldResemble,
				[]string{"প্রথম দৃশ্য", "দ্বিতীয় দৃশ্য", "তৃতীয় দৃশ্য", "চতুর্থ দৃশ্য"})
		})

		Convey("blank lines are dropped", func() {
			raw := "\nপ্রথম\n\n\nদ্বিতীয়\n"
			So(parseSceneLines(raw), ShouldResemble, []string{"প্রথম", "দ্বিতীয়"})
		})

		Convey("an empty response yields no scenes", func() {
			So(parseSceneLines(""), ShouldBeEmpty)
			So(parseSceneLines("\n \n"), ShouldBeEmpty)
		})
	})
}

func TestHeadRunes(t *testing.T) {
	Convey("headRunes bounds the segmentation input by runes", t, func() {
		So(headRunes("আমি যাব", 3), ShouldEqual, "আমি")
		So(headRunes("abc", 10), ShouldEqual, "abc")

		long := strings.Repeat("ক", segmentBudgetRunes+100)
		So(len([]rune(headRunes(long, segmentBudgetRunes))), ShouldEqual, segmentBudgetRunes)
	})
}
