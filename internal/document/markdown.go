package document

import (
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"txt2mp4/internal/tts"
)

// MD 定稿形式的段落结构标题与字段标记
var (
	paragraphSectionMark = "## 段落结构"

	nextSectionRe = regexp.MustCompile(`\n##\s+`)
	blockHeaderRe = regexp.MustCompile(`###\s+段落\s*\d+`)

	englishLabelRe = regexp.MustCompile(`(?i)[-*]\s*\*\*english\*\*[:：]\s*`)
	chineseLabelRe = regexp.MustCompile(`(?i)[-*]\s*\*\*chinese\*\*[:：]\s*`)
	roleLabelRe    = regexp.MustCompile(`(?i)[-*]\s*\*\*role\*\*[:：]\s*(\S+)`)
	// 字段值止于下一个标记字段、空行或块结尾
	nextLabelRe = regexp.MustCompile(`\n[-*]\s*\*\*`)
	blankLineRe = regexp.MustCompile(`\n\s*\n`)

	indentedNewlineRe = regexp.MustCompile(`\n\s+`)
	parentheticalRe   = regexp.MustCompile(`\([^)]*\)`)
)

// ParseTitle 取 MD 的第一个一级标题作为文档标题，未找到返回空串
func ParseTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") && len(line) > 2 {
			return strings.TrimSpace(line[2:])
		}
	}
	return ""
}

// ParseMarkdown 从 MD 定稿的「段落结构」章节解析段落。
// 每个 ### 段落N 块内按标记字段取 english/chinese/role；
// 无 english 的块丢弃，chinese 缺省为空串，role 缺省或无法识别按 narration，
// 同一块出现多个 role 时取最后一个。
func ParseMarkdown(content string) []Paragraph {
	var paragraphs []Paragraph

	idx := strings.Index(content, paragraphSectionMark)
	if idx < 0 {
		logrus.Warn("document: paragraph section not found in markdown")
		return paragraphs
	}
	section := content[idx+len(paragraphSectionMark):]

	// 丢弃标题行余下的部分（如「（共 15 段）」）
	if nl := strings.Index(section, "\n"); nl >= 0 {
		section = section[nl+1:]
	} else {
		section = strings.TrimLeft(section, " \t")
	}

	// 只取到下一个二级标题之前
	if loc := nextSectionRe.FindStringIndex(section); loc != nil {
		section = section[:loc[0]]
	}

	headers := blockHeaderRe.FindAllStringIndex(section, -1)
	for i, header := range headers {
		start := header[1]
		end := len(section)
		if i+1 < len(headers) {
			end = headers[i+1][0]
		}
		block := strings.TrimSpace(section[start:end])
		if block == "" {
			continue
		}

		english := extractField(block, englishLabelRe)
		if english != "" {
			english = indentedNewlineRe.ReplaceAllString(english, "\n")
			if stripped, _, ok := tts.StripRolePrefix(english); ok && stripped != "" {
				english = stripped
			}
		}
		if english == "" {
			logrus.Debugf("document: paragraph block %d has no english, dropped", i+1)
			continue
		}

		chinese := extractField(block, chineseLabelRe)
		if chinese != "" {
			chinese = indentedNewlineRe.ReplaceAllString(chinese, " ")
			// 移除括号注释（如「(使用原文中已有的中文翻译)」）
			chinese = strings.TrimSpace(parentheticalRe.ReplaceAllString(chinese, ""))
		}

		role := tts.RoleNarration
		if matches := roleLabelRe.FindAllStringSubmatch(block, -1); len(matches) > 0 {
			role = tts.NormalizeRole(matches[len(matches)-1][1])
		}

		paragraphs = append(paragraphs, Paragraph{English: english, Chinese: chinese, Role: role})
	}

	logrus.Debugf("document: parsed %d paragraphs from markdown", len(paragraphs))
	return paragraphs
}

// extractField 取标记字段的值：从标记结束处开始，止于下一个标记字段、空行或块结尾
func extractField(block string, label *regexp.Regexp) string {
	loc := label.FindStringIndex(block)
	if loc == nil {
		return ""
	}
	rest := block[loc[1]:]
	end := len(rest)
	if l := nextLabelRe.FindStringIndex(rest); l != nil && l[0] < end {
		end = l[0]
	}
	if l := blankLineRe.FindStringIndex(rest); l != nil && l[0] < end {
		end = l[0]
	}
	return strings.TrimSpace(rest[:end])
}
