package document

import (
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"

	"txt2mp4/internal/tts"
)

// Paragraph 是文档的一个段落：英文正文、可选中文翻译、朗读角色。
// 段落顺序即文档顺序，解析后不可变。
type Paragraph struct {
	English string
	Chinese string
	Role    tts.Role
}

// Translations 返回逐段中文翻译，与可合成的段落序列按位对齐
// （无 english 的段落不占位），供播放页渲染使用
func Translations(paragraphs []Paragraph) []string {
	var result []string
	for _, p := range paragraphs {
		if p.English == "" {
			continue
		}
		result = append(result, strings.TrimSpace(p.Chinese))
	}
	return result
}

// 至少 3 个中文字符才视为中文行，避免 firework爆 这类夹杂单字触发交替逻辑
const minHanChars = 3

func isChineseLine(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	n := 0
	for _, r := range line {
		if unicode.Is(unicode.Han, r) {
			n++
			if n >= minHanChars {
				return true
			}
		}
	}
	return false
}

// ParseText 从原始 txt 解析段落结构。
//
// 两种模式自动选择：
//   - 全文没有中文行时按行分割，每个非空行一个段落；
//   - 否则英文行与中文行交替：连续英文行累积为一段的 english（换行连接），
//     中文行到来时该段闭合；结尾悬空的英文段落以空 chinese 收尾。
//
// 角色标记：单独一行 [男]/[M]/[female] 等只作用于下一段，自身不进入内容；
// 段首 [M]: 前缀剥离并直接设置该段角色。每段闭合后角色回到 narration。
func ParseText(content string) []Paragraph {
	var paragraphs []Paragraph
	lines := strings.Split(strings.TrimSpace(content), "\n")

	// 角色标记：当前「下一段」要使用的角色，段落闭合后复位
	pending := tts.RoleNarration

	hasChinese := false
	for _, line := range lines {
		if isChineseLine(line) {
			hasChinese = true
			break
		}
	}

	// 无中文行：按行分割
	if !hasChinese {
		for _, raw := range lines {
			line := strings.TrimSpace(raw)
			if line == "" {
				continue
			}
			if role, ok := tts.ParseRoleTag(line); ok {
				pending = role
				continue
			}
			stripped, role, ok := tts.StripRolePrefix(line)
			if ok {
				pending = role
			}
			english := stripped
			if english == "" {
				english = line
			}
			paragraphs = append(paragraphs, Paragraph{English: english, Role: pending})
			pending = tts.RoleNarration
		}
		logrus.Debugf("document: parsed %d paragraphs (line mode)", len(paragraphs))
		return paragraphs
	}

	// 有中文行：交替解析
	var englishLines []string
	chinese := ""

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if role, ok := tts.ParseRoleTag(line); ok {
			pending = role
			continue
		}

		if isChineseLine(line) {
			chinese = line
			if len(englishLines) > 0 {
				paragraphs = append(paragraphs, Paragraph{
					English: strings.Join(englishLines, "\n"),
					Chinese: chinese,
					Role:    pending,
				})
				englishLines = nil
				chinese = ""
				pending = tts.RoleNarration
			}
			continue
		}

		// 英文行；若前一段已齐备则先闭合
		if len(englishLines) > 0 && chinese != "" {
			paragraphs = append(paragraphs, Paragraph{
				English: strings.Join(englishLines, "\n"),
				Chinese: chinese,
				Role:    pending,
			})
			englishLines = nil
			chinese = ""
			pending = tts.RoleNarration
		}

		stripped, role, ok := tts.StripRolePrefix(line)
		if ok {
			pending = role
		}
		if stripped != "" {
			englishLines = append(englishLines, stripped)
		}
	}

	// 结尾悬空的英文段落（没有等到中文行）
	if len(englishLines) > 0 {
		paragraphs = append(paragraphs, Paragraph{
			English: strings.Join(englishLines, "\n"),
			Chinese: chinese,
			Role:    pending,
		})
	}

	logrus.Debugf("document: parsed %d paragraphs (alternating mode)", len(paragraphs))
	return paragraphs
}
