package document

import (
	"regexp"
	"sort"
	"strings"
)

// 词汇标记的四种括号形式与 ^ 前缀形式
var markerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`「([^」]+)」`),
	regexp.MustCompile(`\[([^\]]+)\]`),
	regexp.MustCompile(`【([^】]+)】`),
	regexp.MustCompile(`\{([^}]+)\}`),
	// ^ 前缀：后跟 " (" 时匹配整个短语（如 ^make sense of (理解)），否则匹配单词
	regexp.MustCompile(`\^([a-zA-Z]+(?:'[a-zA-Z]+)?(?:\s+[a-zA-Z]+(?:'[a-zA-Z]+)?)*?)\s*\(`),
	regexp.MustCompile(`\^([a-zA-Z]+(?:'[a-zA-Z]+)?)([\s.,;:!?]|$)`),
}

// ExtractMarkedTerms 提取文中标记的核心词汇，按首次出现位置排序并去重。
// 单词若是某个已提取短语（含空格）的子串则被抑制，抑制在收集完成后统一做，
// 与各模式的匹配顺序无关（如 ^make sense of 抑制其中的 make）。
func ExtractMarkedTerms(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	type candidate struct {
		term string
		pos  int
	}
	var candidates []candidate
	for _, pattern := range markerPatterns {
		for _, m := range pattern.FindAllStringSubmatchIndex(text, -1) {
			term := strings.TrimSpace(text[m[2]:m[3]])
			if term == "" {
				continue
			}
			candidates = append(candidates, candidate{term: term, pos: m[0]})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].pos < candidates[j].pos
	})

	seen := make(map[string]bool)
	var terms []string
	for _, c := range candidates {
		if seen[c.term] {
			continue
		}
		seen[c.term] = true
		terms = append(terms, c.term)
	}

	// 子串抑制的最终遍历
	var result []string
	for _, t := range terms {
		suppressed := false
		for _, other := range terms {
			if other != t && strings.Contains(other, " ") && strings.Contains(other, t) {
				suppressed = true
				break
			}
		}
		if !suppressed {
			result = append(result, t)
		}
	}
	return result
}

var (
	caretPrefixRe = regexp.MustCompile(`\^([a-zA-Z])`)
	punctGapRe    = regexp.MustCompile(`([,.;:!?])([a-zA-Z0-9])`)
	sentenceGapRe = regexp.MustCompile(`([.!?])([A-Z])`)
)

// RemoveMarkers 移除词汇标记符（「」、【】、[]、{}、^ 前缀），保留内容。
// 用于统一清理 english 字段中的词汇标记，便于合成与展示。
func RemoveMarkers(text string) string {
	if text == "" {
		return text
	}
	replacer := strings.NewReplacer("「", "", "」", "", "【", "", "】", "", "[", "", "]", "", "{", "", "}", "")
	text = replacer.Replace(text)
	return caretPrefixRe.ReplaceAllString(text, "$1")
}

// EnsureSpaceAfterPunctuation 在「标点 + 字母/数字」之间补空格，
// 使 MD 与 TTS 分词一致，便于对齐。例如 myths,pointed -> myths, pointed
func EnsureSpaceAfterPunctuation(text string) string {
	if text == "" {
		return text
	}
	return punctGapRe.ReplaceAllString(text, "$1 $2")
}

// NormalizeForAlignment 在句末标点后紧跟大写字母时补空格（viral.I -> viral. I），
// 避免 MD 出现单 token 而 TTS 分成两个 token 导致整段错位
func NormalizeForAlignment(text string) string {
	if text == "" {
		return text
	}
	return sentenceGapRe.ReplaceAllString(text, "$1 $2")
}
