package outline

import (
	"strings"
	"testing"
)

func TestSummary_WholeSentences(t *testing.T) {
	o := &Outline{Sections: []*Section{
		{Title: "Intro", Children: []*Section{
			{Title: "Why", Text: "First sentence here. Second one is longer than that.\n\nNext paragraph."},
		}},
	}}

	if got := o.Summary(20); got != "First sentence here. Second one is longer than that." {
		t.Errorf("expected both sentences, got %q", got)
	}
	if got := o.Summary(5); got != "First sentence here." {
		t.Errorf("expected first sentence only, got %q", got)
	}
}

func TestSummary_LongSentenceIsCut(t *testing.T) {
	o := &Outline{Sections: []*Section{{Text: strings.Repeat("word ", 50)}}}
	if got := o.Summary(3); got != "word word word..." {
		t.Errorf("expected cut sentence, got %q", got)
	}
}

func TestSummary_Empty(t *testing.T) {
	o := &Outline{Sections: []*Section{{Title: "Only a heading"}}}
	if got := o.Summary(10); got != "" {
		t.Errorf("expected empty summary, got %q", got)
	}
}

func TestReadingMinutes(t *testing.T) {
	tests := []struct {
		words int
		want  int
	}{
		{0, 0},
		{1, 1},
		{200, 1},
		{201, 2},
	}
	for _, tt := range tests {
		o := &Outline{Sections: []*Section{
			{Text: strings.Repeat("w ", tt.words)},
		}}
		if got := o.ReadingMinutes(); got != tt.want {
			t.Errorf("%d words: expected %d minutes, got %d", tt.words, tt.want, got)
		}
	}
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("One. Two! Three? Four")
	want := []string{"One.", "Two!", "Three?", "Four"}
	if len(got) != len(want) {
		t.Fatalf("expected %d sentences, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sentence %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}
