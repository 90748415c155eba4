package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/wav"
)

// Duration 解码音频文件并返回实测时长（秒）。
// 多段拼接的时间戳偏移必须用实测时长，不能用 TTS 末词的 end（会偏短）。
// 无法解码时返回错误，由调用方决定退化策略。
func Duration(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("audio: open %s: %w", path, err)
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	default:
		f.Close()
		return 0, fmt.Errorf("audio: unsupported format: %s", path)
	}
	if err != nil {
		f.Close()
		return 0, fmt.Errorf("audio: decode %s: %w", path, err)
	}
	defer streamer.Close()

	return format.SampleRate.D(streamer.Len()).Seconds(), nil
}
