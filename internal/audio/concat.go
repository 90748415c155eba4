package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

var ErrNoInput = errors.New("audio: no input files")

// Concatenator 用 ffmpeg concat demuxer 按顺序无重编码拼接音频
type Concatenator struct {
	// FFmpeg 可执行文件路径，空则用 PATH 中的 ffmpeg
	FFmpeg string
}

func NewConcatenator(ffmpegPath string) *Concatenator {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Concatenator{FFmpeg: ffmpegPath}
}

// Concat 把 files 按顺序拼接到 out。单个输入为纯拷贝，不经过 ffmpeg。
// 失败时 out 位置不残留半成品；临时列表文件用后即删。
func (c *Concatenator) Concat(ctx context.Context, files []string, out string) error {
	if len(files) == 0 {
		return ErrNoInput
	}
	if len(files) == 1 {
		return copyFile(files[0], out)
	}

	listFile := strings.TrimSuffix(out, filepath.Ext(out)) + "_concat_list.txt"
	if err := writeConcatList(listFile, files); err != nil {
		return err
	}
	defer os.Remove(listFile)

	cmd := exec.CommandContext(ctx, c.FFmpeg,
		"-y", "-f", "concat", "-safe", "0",
		"-i", listFile,
		"-c", "copy",
		out,
	)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		// 不在输出位置留下截断的半成品
		os.Remove(out)
		msg := stderr.String()
		if len(msg) > 200 {
			msg = msg[:200]
		}
		logrus.Warnf("audio: ffmpeg concat failed: %s", msg)
		return fmt.Errorf("audio: ffmpeg concat: %w", err)
	}
	return nil
}

// writeConcatList 写 ffmpeg concat demuxer 的列表文件，一行 file '<绝对路径>'
func writeConcatList(path string, files []string) error {
	var b strings.Builder
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return fmt.Errorf("audio: resolve %s: %w", f, err)
		}
		fmt.Fprintf(&b, "file '%s'\n", abs)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("audio: write concat list: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("audio: open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("audio: create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("audio: copy to %s: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return fmt.Errorf("audio: close %s: %w", dst, err)
	}
	return nil
}
