package tts

import (
	"context"
)

// WordBoundary 表示一次合成调用内的单词时间信息，时间相对该次调用的零点（秒）
type WordBoundary struct {
	Text  string
	Start float64
	End   float64
}

// Engine 是合成引擎的统一接口：一次调用合成一段文本，
// 音频与单词边界事件交错地从返回的 Stream 中流出。
type Engine interface {
	Synthesize(ctx context.Context, text, voiceID string) (*Stream, error)
	Close() error
}
