package app

import (
	"strings"

	"txt2mp4/internal/document"
	"txt2mp4/internal/timeline"
)

// RealignResult 供播放页渲染消费的数据：带 sentIndex 的时间戳流、
// 按段分组的单词列表、以及与段落序列按位对齐的逐段中文翻译
type RealignResult struct {
	Entries      []timeline.Entry        `json:"-"`
	Sentences    []timeline.SegmentWords `json:"sentences"`
	Translations []string                `json:"translations"`
}

// Realign 把先前生成的全局时间戳流对齐回独立重分段的段落文本。
// 段落文本来自 MD 定稿，和当初 TTS 的输入经过了不同的规整流程，
// 这里先做与 TTS 分词一致的规范化，再交给模糊对齐。
func Realign(entries []timeline.Entry, paragraphs []document.Paragraph) RealignResult {
	var segs []string
	for _, p := range paragraphs {
		if p.English == "" {
			continue
		}
		seg := strings.TrimSpace(strings.ReplaceAll(p.English, "\n", " "))
		segs = append(segs, document.NormalizeForAlignment(document.EnsureSpaceAfterPunctuation(seg)))
	}
	translations := document.Translations(paragraphs)

	// 过滤空文本条目：TTS 偶尔产生空 WordBoundary，
	// 被标上 sentIndex 后会让翻译块插错位置。
	// 条目保留落盘时的 index，分组后的单词引用仍指向原时间戳流
	filtered := make([]timeline.Entry, 0, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e.Text) != "" {
			filtered = append(filtered, e)
		}
	}

	aligned := timeline.Align(filtered, segs)
	groups := timeline.GroupWords(aligned, len(segs))

	return RealignResult{
		Entries:      aligned,
		Sentences:    groups,
		Translations: translations,
	}
}
