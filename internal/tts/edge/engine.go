package edge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"txt2mp4/internal/tts"
	"txt2mp4/pkg/ws"
)

// Config Edge TTS 引擎配置
type Config struct {
	Rate         string // 语速，如 "+0%"
	Volume       string // 音量，如 "+0%"
	Pitch        string // 音高，如 "+0Hz"
	OutputFormat string // 音频输出格式
}

// DefaultConfig 返回默认引擎配置（24kHz mp3）
func DefaultConfig() Config {
	return Config{
		Rate:         "+0%",
		Volume:       "+0%",
		Pitch:        "+0Hz",
		OutputFormat: "audio-24khz-48kbitrate-mono-mp3",
	}
}

// Engine 通过 Edge TTS readaloud 服务合成音频。
// 每次 Synthesize 建立一条独立的 WebSocket 连接（一次连接一个 turn），
// 音频块与 WordBoundary 事件交错写入返回的 Stream。
type Engine struct {
	cfg Config
}

func NewEngine(cfg ...Config) *Engine {
	c := DefaultConfig()
	if len(cfg) > 0 {
		c = cfg[0]
	}
	if c.Rate == "" {
		c.Rate = "+0%"
	}
	if c.Volume == "" {
		c.Volume = "+0%"
	}
	if c.Pitch == "" {
		c.Pitch = "+0Hz"
	}
	if c.OutputFormat == "" {
		c.OutputFormat = "audio-24khz-48kbitrate-mono-mp3"
	}
	return &Engine{cfg: c}
}

// Synthesize 实现 tts.Engine 接口
func (e *Engine) Synthesize(ctx context.Context, text, voiceID string) (*tts.Stream, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("edge: empty text")
	}
	if voiceID == "" {
		return nil, errors.New("edge: voice is required")
	}

	s := &session{
		cfg:       e.cfg,
		text:      text,
		voiceID:   voiceID,
		requestID: connectID(),
		stream:    tts.NewStream(64),
	}

	header := http.Header{}
	header.Set("Origin", chromiumOrigin)
	header.Set("User-Agent", userAgent)
	header.Set("Pragma", "no-cache")
	header.Set("Cache-Control", "no-cache")

	url := wssEndpoint + "?TrustedClientToken=" + trustedClientToken + "&ConnectionId=" + connectID()

	client, err := ws.Dial(ctx, url, header, s)
	if err != nil {
		return nil, fmt.Errorf("edge: dial websocket: %w", err)
	}
	s.client = client

	// 消费者取消或合成结束时关闭连接
	go func() {
		<-s.stream.Done()
		client.Close()
	}()

	return s.stream, nil
}

// Close 实现 tts.Engine 接口；连接随各自的 Stream 生命周期关闭，这里无长连接可释放
func (e *Engine) Close() error {
	return nil
}

// connectID 生成不带连字符的连接/请求 ID（服务端要求 hex 形式）
func connectID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// session 处理单次合成的 WebSocket 事件
type session struct {
	cfg       Config
	text      string
	voiceID   string
	requestID string

	client *ws.Client
	stream *tts.Stream

	mu       sync.Mutex
	gotAudio bool
	finished bool
}

// OnOpen 实现 ws.EventHandler：连接建立后立即下发 speech.config 与 ssml
func (s *session) OnOpen(c *ws.Client) {
	c.SendText(buildSpeechConfig(s.cfg.OutputFormat))
	c.SendText(buildSSML(s.requestID, s.text, s.voiceID, s.cfg.Rate, s.cfg.Volume, s.cfg.Pitch))
}

func (s *session) OnMessage(c *ws.Client, msgType int, msg []byte) {
	switch msgType {
	case websocket.TextMessage:
		s.handleText(msg)
	case websocket.BinaryMessage:
		payload, err := parseBinaryMessage(msg)
		if err != nil {
			logrus.Warnf("edge: %v", err)
			return
		}
		if len(payload) == 0 {
			return
		}
		s.mu.Lock()
		s.gotAudio = true
		s.mu.Unlock()
		s.stream.Write(tts.Chunk{Type: tts.ChunkAudio, Audio: payload})
	}
}

func (s *session) handleText(msg []byte) {
	path, body := parseTextMessage(msg)
	switch path {
	case pathTurnStart, pathResponse:
		// 无需处理
	case pathAudioMetadata:
		var resp MetadataResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			logrus.Warnf("edge: failed to parse audio metadata: %v", err)
			return
		}
		for _, meta := range resp.Metadata {
			if meta.Type != "WordBoundary" {
				continue
			}
			s.stream.Write(tts.Chunk{Type: tts.ChunkWordBoundary, Boundary: tts.WordBoundary{
				Text:  meta.Data.Text.Text,
				Start: meta.Data.Offset / ticksPerSecond,
				End:   (meta.Data.Offset + meta.Data.Duration) / ticksPerSecond,
			}})
		}
	case pathTurnEnd:
		s.finish(nil)
	default:
		logrus.Debugf("edge: ignore message path=%q", path)
	}
}

func (s *session) OnError(c *ws.Client, err error) {
	if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		return
	}
	s.mu.Lock()
	done := s.finished
	s.mu.Unlock()
	if done {
		return
	}
	logrus.Warnf("edge: ws error: %v", err)
	s.finish(err)
}

func (s *session) OnClose(c *ws.Client) {
	// turn.end 之前连接被动断开
	s.finish(errors.New("edge: connection closed before turn end"))
}

func (s *session) finish(err error) {
	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		return
	}
	s.finished = true
	if err == nil && !s.gotAudio {
		err = errors.New("edge: no audio received")
	}
	s.mu.Unlock()

	s.stream.CloseWrite(err)
	if s.client != nil {
		s.client.Close()
	}
}
