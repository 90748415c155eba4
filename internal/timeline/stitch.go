package timeline

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// Stitcher 把各段落的本地时间戳拼接到单一全局时间轴上。
// 段落按文档顺序 Add；偏移用该段音频的实测时长推进，
// 避免 TTS 末词 end 小于真实音频长度导致下一段时间戳与音频重叠。
type Stitcher struct {
	offset   float64
	next     int
	entries  []Entry
	degraded bool
}

func NewStitcher() *Stitcher {
	return &Stitcher{}
}

// Add 追加一段的本地时间戳。measuredDur 为该段音频实测时长（秒）；
// <=0 表示无法测量，退化为用本段末词 end 推进偏移。
// 本段一个条目都没有时偏移保持不变，不能用更早段落的 end 回退偏移。
func (s *Stitcher) Add(local []Entry, measuredDur float64) {
	for _, e := range local {
		e.Start += s.offset
		e.End += s.offset
		e.Index = s.next
		e.SentIndex = nil
		s.next++
		s.entries = append(s.entries, e)
	}
	if measuredDur > 0 {
		s.offset += measuredDur
		return
	}
	if len(local) > 0 {
		s.offset = s.entries[len(s.entries)-1].End
		s.degraded = true
		logrus.Warn("timeline: segment duration unavailable, falling back to last boundary end")
	}
}

// Entries 返回当前全局时间戳流
func (s *Stitcher) Entries() []Entry {
	return s.entries
}

// Duration 返回当前累计偏移（即已拼接音频的总时长）
func (s *Stitcher) Duration() float64 {
	return s.offset
}

// Degraded 报告是否发生过时长退化
func (s *Stitcher) Degraded() bool {
	return s.degraded
}

// 英文词尾标点（用于 HTML 同步显示）
const trailingPunct = ".,!?;:\"'"

// AttachPunctuation 根据源文本为时间戳附加词尾标点。
// TTS WordBoundary 不含标点，需从合成输入文本中按序匹配并附加；
// 标点前加空格，便于下游把标点当作独立可匹配单元（去掉空格即可还原）。
// 扫描游标只在命中时前进，从不回退。
func AttachPunctuation(entries []Entry, source string) []Entry {
	if len(entries) == 0 || source == "" {
		return entries
	}
	src := strings.ReplaceAll(source, "\n", " ")
	srcLower := strings.ToLower(src)
	pos := 0

	result := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		raw := entry.Text
		if raw == "" {
			result = append(result, entry)
			continue
		}
		// 剥离已有标点，用纯词匹配源文本
		word := strings.TrimRight(raw, trailingPunct)
		idx := strings.Index(srcLower[pos:], strings.ToLower(word))
		if idx >= 0 {
			idx += pos
			end := idx + len(word)
			punct := ""
			for end < len(src) && strings.ContainsRune(trailingPunct, rune(src[end])) {
				punct += string(src[end])
				end++
			}
			if punct != "" {
				entry.Text = word + " " + punct
			} else {
				entry.Text = word
			}
			pos = end
		}
		result = append(result, entry)
	}
	return result
}
