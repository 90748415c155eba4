package timeline

import (
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"txt2mp4/internal/document"
)

// 最多用几个 TTS 词拼成一个 MD token
const maxAccumulate = 5

var nonWordRe = regexp.MustCompile(`[^\w\s]`)

// normalizeToken 归一化用于匹配：小写、去除标点
func normalizeToken(w string) string {
	return strings.TrimSpace(nonWordRe.ReplaceAllString(strings.ToLower(w), ""))
}

type flatToken struct {
	src  int // 所属条目/段落的下标
	norm string
}

// flattenSegments 把 MD 段落打平为 (段落下标, 归一化词) 序列，
// 分词与 RemoveMarkers 后的空白切分一致
func flattenSegments(segments []string) []flatToken {
	var result []flatToken
	for si, seg := range segments {
		clean := document.RemoveMarkers(seg)
		for _, tok := range strings.Fields(clean) {
			if norm := normalizeToken(tok); norm != "" {
				result = append(result, flatToken{src: si, norm: norm})
			}
		}
	}
	return result
}

// flattenEntries 把时间戳条目打平为 (条目下标, 归一化词) 序列；
// 条目文本可能含多个词（如 "The park"），逐词展开便于拼接匹配
func flattenEntries(entries []Entry) []flatToken {
	var result []flatToken
	for i, entry := range entries {
		for _, part := range strings.Fields(entry.Text) {
			if norm := normalizeToken(part); norm != "" {
				result = append(result, flatToken{src: i, norm: norm})
			}
		}
	}
	return result
}

// Align 基于文本把时间戳条目对齐到 MD 段落，为每个条目填充 sentIndex。
// 条目的 Index 原样保留：它是与已落盘时间戳流的引用契约，
// 调用方传入子集（如剔除空文本条目）时下游仍能按 Index 找回原条目。
//
// TTS 的分词与 MD 的分词很少一一对应：TTS 可能合并多词、MD 可能因连字符
// 或笔误把多个 TTS 词并成一个 token。匹配策略：逐词精确匹配；不匹配时
// 尝试把当前词与后续至多 maxAccumulate 个 TTS 词无分隔拼接后与 MD token
// 比较；仍失败则沿用上一次成功匹配的段落下标并只推进 TTS 游标。
// 每一步都保证前进，所有条目都会得到 sentIndex。
func Align(entries []Entry, segments []string) []Entry {
	mdFlat := flattenSegments(segments)
	lrcFlat := flattenEntries(entries)

	mdIdx := 0
	lastSent := 0
	sentByEntry := make(map[int]int)

	lrcI := 0
	for lrcI < len(lrcFlat) {
		entryIdx, norm := lrcFlat[lrcI].src, lrcFlat[lrcI].norm
		if mdIdx >= len(mdFlat) {
			sentByEntry[entryIdx] = lastSent
			lrcI++
			continue
		}
		segIdx, mdNorm := mdFlat[mdIdx].src, mdFlat[mdIdx].norm
		if norm == mdNorm {
			sentByEntry[entryIdx] = segIdx
			lastSent = segIdx
			mdIdx++
			lrcI++
			continue
		}

		// 拼接匹配：如 myths+pointed -> mythspointed
		found := false
		for k := 1; k < maxAccumulate+1 && k < len(lrcFlat)-lrcI; k++ {
			acc := norm
			for j := 1; j <= k; j++ {
				acc += lrcFlat[lrcI+j].norm
			}
			if acc == mdNorm {
				for j := 0; j <= k; j++ {
					sentByEntry[lrcFlat[lrcI+j].src] = segIdx
				}
				lastSent = segIdx
				mdIdx++
				lrcI += k + 1
				found = true
				break
			}
		}
		if !found {
			sentByEntry[entryIdx] = lastSent
			lrcI++
		}
	}

	if mdIdx < len(mdFlat) && len(lrcFlat) > 0 {
		logrus.Debugf("timeline: %d md tokens left unmatched", len(mdFlat)-mdIdx)
	}

	result := make([]Entry, len(entries))
	for i, entry := range entries {
		si, ok := sentByEntry[i]
		if !ok {
			si = lastSent
		}
		entry.SentIndex = &si
		result[i] = entry
	}
	return result
}

// GroupWords 把对齐后的条目按 sentIndex 分组为每段一个单词列表。
// 越界的 sentIndex 忽略；没有词的段落得到空列表。
func GroupWords(aligned []Entry, numSegments int) []SegmentWords {
	out := make([]SegmentWords, numSegments)
	for i := range out {
		out[i].Words = []WordRef{}
	}
	for _, entry := range aligned {
		si := 0
		if entry.SentIndex != nil {
			si = *entry.SentIndex
		}
		if si >= 0 && si < numSegments {
			out[si].Words = append(out[si].Words, WordRef{Index: entry.Index, Text: entry.Text})
		}
	}
	return out
}
