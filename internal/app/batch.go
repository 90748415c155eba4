package app

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"txt2mp4/internal/document"
	"txt2mp4/internal/timeline"
)

// 输出目录布局（与词汇/渲染各步骤共享）
const (
	textSubdir  = "01-txt"
	vocabSubdir = "02-vocabulary"
	audioSubdir = "03-mp3"
)

// Runner 批处理：遍历输入目录下的 txt 文档逐个处理。
// 单个文档失败只记录并继续，便于事后只重跑失败的那一个。
type Runner struct {
	Processor *Processor
	InputDir  string
	OutputDir string
}

// Run 处理全部输入文档，返回成功与失败的数量
func (r *Runner) Run(ctx context.Context) (processed, failed int, err error) {
	matches, err := filepath.Glob(filepath.Join(r.InputDir, "*.txt"))
	if err != nil {
		return 0, 0, err
	}
	sort.Strings(matches)
	if len(matches) == 0 {
		logrus.Warnf("no txt files found under %s", r.InputDir)
		return 0, 0, nil
	}

	logrus.Infof("found %d documents under %s", len(matches), r.InputDir)
	for i, path := range matches {
		stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		logrus.Infof("[%d/%d] processing %s", i+1, len(matches), stem)
		if err := r.runOne(ctx, path, stem); err != nil {
			if err == ErrNoParagraphs {
				logrus.Warnf("skip %s: no paragraphs", stem)
				continue
			}
			logrus.Errorf("failed %s: %v", stem, err)
			failed++
			continue
		}
		processed++
	}
	logrus.Infof("batch done: %d processed, %d failed", processed, failed)
	return processed, failed, nil
}

// runOne 处理单个文档：有 MD 定稿时取其段落结构，否则直接解析原始 txt
func (r *Runner) runOne(ctx context.Context, txtPath, stem string) error {
	var paragraphs []document.Paragraph
	mdPath := filepath.Join(r.OutputDir, vocabSubdir, stem+".md")
	mdContent, mdErr := os.ReadFile(mdPath)
	if mdErr == nil {
		paragraphs = document.ParseMarkdown(string(mdContent))
	} else {
		raw, err := os.ReadFile(txtPath)
		if err != nil {
			return err
		}
		paragraphs = document.ParseText(string(raw))
	}
	if len(paragraphs) == 0 {
		return ErrNoParagraphs
	}

	// 纯英文短文中间产物，供后续词汇与渲染步骤使用
	texts, _ := segments(paragraphs)
	if len(texts) > 0 {
		textDir := filepath.Join(r.OutputDir, textSubdir)
		if err := os.MkdirAll(textDir, 0o755); err == nil {
			enPath := filepath.Join(textDir, stem+"_en.txt")
			if err := os.WriteFile(enPath, []byte(strings.Join(texts, "\n")+"\n"), 0o644); err != nil {
				logrus.Warnf("write %s: %v", enPath, err)
			}
		}
	}

	outDir := filepath.Join(r.OutputDir, audioSubdir)
	result, err := r.Processor.ProcessDocument(ctx, stem, paragraphs, outDir)
	if err != nil {
		return err
	}
	if result.Degraded {
		logrus.Warnf("%s: some segment durations were estimated from boundaries", stem)
	}
	logrus.Infof("generated %s and %s", result.AudioPath, result.TimestampsPath)

	// 有 MD 定稿时顺带产出渲染端需要的分组与翻译
	if mdErr == nil {
		if err := r.writeSentences(stem, result.TimestampsPath, paragraphs); err != nil {
			logrus.Warnf("%s: write sentences: %v", stem, err)
		}
	}
	return nil
}

// writeSentences 对齐时间戳流与 MD 段落，落盘分组单词表和逐段翻译
func (r *Runner) writeSentences(stem, timestampsPath string, paragraphs []document.Paragraph) error {
	entries, err := readEntries(timestampsPath)
	if err != nil {
		return err
	}
	realigned := Realign(entries, paragraphs)
	return writeJSON(filepath.Join(r.OutputDir, audioSubdir, stem+"_sentences.json"), realigned)
}

func readEntries(path string) ([]timeline.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []timeline.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
