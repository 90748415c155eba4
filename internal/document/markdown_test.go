package document

import (
	"testing"

	"txt2mp4/internal/tts"
)

const sampleMarkdown = `# 小镇的早晨

## 核心词汇（共 2 个）

### inhabitant
- **音标**: /ɪnˈhæbɪtənt/

## 段落结构（共 3 段）

### 段落 1
- **english**: The town wakes up slowly.
- **chinese**: 小镇慢慢醒来。(使用原文中已有的中文翻译)
- **role**: narration

### 段落 2
- **english**: "Good morning!" he shouted.
- **chinese**: “早上好！”他喊道。
- **role**: female
- **role**: male

### 段落3
- **chinese**: 这一段没有英文，会被丢弃。

## 其他章节

忽略这里的内容。
`

func TestParseMarkdown(t *testing.T) {
	got := ParseMarkdown(sampleMarkdown)
	if len(got) != 2 {
		t.Fatalf("paragraphs got=%d want=2: %+v", len(got), got)
	}

	if got[0].English != "The town wakes up slowly." {
		t.Fatalf("english got=%q", got[0].English)
	}
	// 括号注释被移除
	if got[0].Chinese != "小镇慢慢醒来。" {
		t.Fatalf("chinese got=%q", got[0].Chinese)
	}
	if got[0].Role != tts.RoleNarration {
		t.Fatalf("role got=%q", got[0].Role)
	}

	// 同一块出现多个 role 时取最后一个
	if got[1].Role != tts.RoleMale {
		t.Fatalf("role got=%q want=male", got[1].Role)
	}
	if got[1].English != `"Good morning!" he shouted.` {
		t.Fatalf("english got=%q", got[1].English)
	}
}

func TestParseMarkdownMissingSection(t *testing.T) {
	got := ParseMarkdown("# 标题\n\n## 核心词汇\n\n### word\n")
	if len(got) != 0 {
		t.Fatalf("expected no paragraphs, got %+v", got)
	}
}

func TestParseMarkdownDefaults(t *testing.T) {
	md := `## 段落结构

### 段落 1
- **english**: Only english here.
`
	got := ParseMarkdown(md)
	if len(got) != 1 {
		t.Fatalf("paragraphs got=%d want=1", len(got))
	}
	if got[0].Chinese != "" {
		t.Fatalf("chinese got=%q want empty", got[0].Chinese)
	}
	if got[0].Role != tts.RoleNarration {
		t.Fatalf("role got=%q want=narration", got[0].Role)
	}
}

func TestParseMarkdownRolePrefixStripped(t *testing.T) {
	md := `## 段落结构

### 段落 1
- **english**: [M]: He spoke firmly.
- **chinese**: 他坚定地说。
`
	got := ParseMarkdown(md)
	if len(got) != 1 {
		t.Fatalf("paragraphs got=%d want=1", len(got))
	}
	if got[0].English != "He spoke firmly." {
		t.Fatalf("english got=%q", got[0].English)
	}
}

func TestParseTitle(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "simple", content: "# 小镇的早晨\n\n正文", want: "小镇的早晨"},
		{name: "not first line", content: "前言\n# Real Title\n", want: "Real Title"},
		{name: "missing", content: "## 二级标题\n", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseTitle(tt.content); got != tt.want {
				t.Fatalf("got=%q want=%q", got, tt.want)
			}
		})
	}
}
