package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"txt2mp4/internal/audio"
	"txt2mp4/internal/document"
	"txt2mp4/internal/timeline"
	"txt2mp4/internal/tts"
)

var ErrNoParagraphs = errors.New("app: no paragraphs")

// Processor 驱动单个文档的「段落 → 多角色 TTS → 拼接 → 落盘」流程。
// 段落严格按文档顺序串行合成：偏移拼接要求各段按序实测、按序累加。
// 不同文档之间无共享状态，可并行处理。
type Processor struct {
	engine tts.Engine
	voices *tts.RoleVoices
	concat *audio.Concatenator

	// 独白音色切换用的日期（日），显式传入以保持可测；见 RoleVoices.VoiceForRole
	day int
}

func NewProcessor(engine tts.Engine, voices *tts.RoleVoices, concat *audio.Concatenator, day int) *Processor {
	if voices == nil {
		voices = tts.DefaultRoleVoices()
	}
	return &Processor{engine: engine, voices: voices, concat: concat, day: day}
}

// Result 单个文档的产物路径
type Result struct {
	AudioPath      string
	TimestampsPath string
	Degraded       bool // 是否发生过时长探测退化
}

// segments 过滤出可合成的段落文本（去词汇标记、单行化）及其角色
func segments(paragraphs []document.Paragraph) (texts []string, roles []tts.Role) {
	for _, p := range paragraphs {
		if p.English == "" {
			continue
		}
		text := document.RemoveMarkers(strings.TrimSpace(strings.ReplaceAll(p.English, "\n", " ")))
		if strings.TrimSpace(text) == "" {
			continue
		}
		texts = append(texts, text)
		roles = append(roles, p.Role)
	}
	return texts, roles
}

// ProcessDocument 为一个文档生成拼接音频与全局时间戳流。
// name 为输出文件名主干；audioPath/jsonPath 写入 outDir/{name}.mp3、{name}.json。
// 任一段落合成失败即放弃整个文档：缺段继续拼接会产生错位的时间戳流。
func (p *Processor) ProcessDocument(ctx context.Context, name string, paragraphs []document.Paragraph, outDir string) (*Result, error) {
	texts, roles := segments(paragraphs)
	if len(texts) == 0 {
		return nil, ErrNoParagraphs
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("app: create output dir: %w", err)
	}

	// 每个文档独立的临时命名空间，多文档并行时互不碰撞；所有出口都清理
	tempDir := filepath.Join(os.TempDir(), "txt2mp4", uuid.New().String())
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return nil, fmt.Errorf("app: create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	stitcher := timeline.NewStitcher()
	var segmentFiles []string

	for i, text := range texts {
		voice := p.voices.VoiceForRole(roles[i], p.day)
		segPath := filepath.Join(tempDir, fmt.Sprintf("%s_seg_%d.mp3", name, i))

		local, err := p.synthesizeSegment(ctx, text, voice, segPath)
		if err != nil {
			return nil, fmt.Errorf("app: synthesize segment %d: %w", i, err)
		}
		segmentFiles = append(segmentFiles, segPath)

		// 下一段偏移用本段音频实测时长，测不出来由 Stitcher 退化处理
		dur, err := audio.Duration(segPath)
		if err != nil {
			logrus.Warnf("app: probe duration of segment %d: %v", i, err)
			dur = 0
		}
		stitcher.Add(local, dur)
	}

	audioPath := filepath.Join(outDir, name+".mp3")
	if err := p.concat.Concat(ctx, segmentFiles, audioPath); err != nil {
		return nil, fmt.Errorf("app: concat audio: %w", err)
	}

	// 标点附加以全文为参照（与合成输入一致的分段连接）
	fullText := strings.Join(texts, "\n")
	entries := timeline.AttachPunctuation(stitcher.Entries(), fullText)

	jsonPath := filepath.Join(outDir, name+".json")
	if err := writeJSON(jsonPath, entries); err != nil {
		os.Remove(audioPath)
		return nil, err
	}

	return &Result{
		AudioPath:      audioPath,
		TimestampsPath: jsonPath,
		Degraded:       stitcher.Degraded(),
	}, nil
}

// synthesizeSegment 合成一个段落：音频写入 path，返回段内本地时间戳
func (p *Processor) synthesizeSegment(ctx context.Context, text, voice, path string) ([]timeline.Entry, error) {
	stream, err := p.engine.Synthesize(ctx, text, voice)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("app: create segment file: %w", err)
	}

	var local []timeline.Entry
	for {
		chunk, err := stream.Read()
		if err == tts.ErrEOF {
			break
		}
		if err != nil {
			f.Close()
			os.Remove(path)
			return nil, err
		}
		switch chunk.Type {
		case tts.ChunkAudio:
			if _, err := f.Write(chunk.Audio); err != nil {
				f.Close()
				os.Remove(path)
				return nil, fmt.Errorf("app: write segment file: %w", err)
			}
		case tts.ChunkWordBoundary:
			local = append(local, timeline.Entry{
				Start: chunk.Boundary.Start,
				End:   chunk.Boundary.End,
				Text:  chunk.Boundary.Text,
			})
		}
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("app: close segment file: %w", err)
	}
	return local, nil
}

// writeJSON 先写临时文件再改名，最终路径上不会出现写了一半的产物
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("app: marshal json: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("app: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("app: rename to %s: %w", path, err)
	}
	return nil
}
