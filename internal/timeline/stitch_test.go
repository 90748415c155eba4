package timeline

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestStitcherOffsets(t *testing.T) {
	s := NewStitcher()

	// 三段，实测时长 2.0 / 3.5 / 1.0
	s.Add([]Entry{
		{Start: 0.0, End: 0.4, Text: "one"},
		{Start: 0.5, End: 0.9, Text: "two"},
	}, 2.0)
	s.Add([]Entry{
		{Start: 0.1, End: 0.6, Text: "three"},
	}, 3.5)
	s.Add([]Entry{
		{Start: 0.0, End: 0.3, Text: "four"},
		{Start: 0.4, End: 0.8, Text: "five"},
	}, 1.0)

	entries := s.Entries()
	if len(entries) != 5 {
		t.Fatalf("entries got=%d want=5", len(entries))
	}

	wantStarts := []float64{0.0, 0.5, 2.1, 5.5, 5.9}
	for i, e := range entries {
		if e.Index != i {
			t.Fatalf("entry %d index got=%d want=%d", i, e.Index, i)
		}
		if !almostEqual(e.Start, wantStarts[i]) {
			t.Fatalf("entry %d start got=%v want=%v", i, e.Start, wantStarts[i])
		}
		if i > 0 && entries[i-1].Start > e.Start {
			t.Fatalf("starts not monotone at %d", i)
		}
	}

	if !almostEqual(s.Duration(), 6.5) {
		t.Fatalf("duration got=%v want=6.5", s.Duration())
	}
	if s.Degraded() {
		t.Fatal("unexpected degradation")
	}
}

func TestStitcherDurationFallback(t *testing.T) {
	s := NewStitcher()
	s.Add([]Entry{{Start: 0.0, End: 1.2, Text: "one"}}, 0)
	s.Add([]Entry{{Start: 0.0, End: 0.5, Text: "two"}}, 2.0)

	entries := s.Entries()
	// 实测不可用时用末词 end 推进偏移
	if !almostEqual(entries[1].Start, 1.2) {
		t.Fatalf("fallback start got=%v want=1.2", entries[1].Start)
	}
	if !s.Degraded() {
		t.Fatal("expected degradation to be reported")
	}
}

func TestStitcherEmptySegmentKeepsOffset(t *testing.T) {
	s := NewStitcher()
	s.Add([]Entry{{Start: 0.0, End: 1.9, Text: "one"}}, 2.0)
	// 没有任何单词边界且实测失败的段落不得让偏移回退到 1.9
	s.Add(nil, 0)
	s.Add([]Entry{{Start: 0.0, End: 0.5, Text: "two"}}, 1.0)

	entries := s.Entries()
	if len(entries) != 2 {
		t.Fatalf("entries got=%d want=2", len(entries))
	}
	if !almostEqual(entries[1].Start, 2.0) {
		t.Fatalf("segment 3 start got=%v want=2.0", entries[1].Start)
	}
	if entries[0].Index != 0 || entries[1].Index != 1 {
		t.Fatalf("indexes got=%d,%d", entries[0].Index, entries[1].Index)
	}
	if !almostEqual(s.Duration(), 3.0) {
		t.Fatalf("duration got=%v want=3.0", s.Duration())
	}
	if s.Degraded() {
		t.Fatal("no fallback estimation happened, should not be degraded")
	}
}

func TestStitcherSingleSegment(t *testing.T) {
	s := NewStitcher()
	s.Add([]Entry{{Start: 0.2, End: 0.6, Text: "solo"}}, 1.5)
	entries := s.Entries()
	if len(entries) != 1 || !almostEqual(entries[0].Start, 0.2) || entries[0].Index != 0 {
		t.Fatalf("single segment got=%+v", entries)
	}
}

func TestAttachPunctuation(t *testing.T) {
	entries := []Entry{
		{Text: "stay", Index: 0},
		{Text: "calm", Index: 1},
		{Text: "please", Index: 2},
	}
	got := AttachPunctuation(entries, "Stay calm, please.")

	wantTexts := []string{"stay", "calm ,", "please ."}
	for i, e := range got {
		if e.Text != wantTexts[i] {
			t.Fatalf("entry %d text got=%q want=%q", i, e.Text, wantTexts[i])
		}
	}
}

func TestAttachPunctuationUnmatchedPassesThrough(t *testing.T) {
	entries := []Entry{
		{Text: "alpha"},
		{Text: "missing"},
		{Text: "beta"},
	}
	got := AttachPunctuation(entries, "alpha, beta.")
	if got[0].Text != "alpha ," {
		t.Fatalf("got=%q", got[0].Text)
	}
	// 源文本中不存在的 token 原样通过
	if got[1].Text != "missing" {
		t.Fatalf("got=%q", got[1].Text)
	}
	if got[2].Text != "beta ." {
		t.Fatalf("got=%q", got[2].Text)
	}
}

func TestAttachPunctuationCursorNeverRegresses(t *testing.T) {
	// 重复词：第二个 the 必须匹配到后一次出现
	entries := []Entry{
		{Text: "the"},
		{Text: "end"},
		{Text: "the"},
	}
	got := AttachPunctuation(entries, "the end; the rest")
	if got[1].Text != "end ;" {
		t.Fatalf("got=%q", got[1].Text)
	}
	// 第三个条目匹配到分号之后的 the，没有标点可附加
	if got[2].Text != "the" {
		t.Fatalf("got=%q", got[2].Text)
	}
}

func TestAttachPunctuationStripsExisting(t *testing.T) {
	entries := []Entry{{Text: "hello,"}}
	got := AttachPunctuation(entries, "hello!")
	if got[0].Text != "hello !" {
		t.Fatalf("got=%q", got[0].Text)
	}
}
