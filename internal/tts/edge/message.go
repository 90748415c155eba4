package edge

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Edge TTS readaloud 服务端点与固定令牌
const (
	wssEndpoint        = "wss://speech.platform.bing.com/consumer/speech/synthesize/readaloud/edge/v1"
	trustedClientToken = "6A5AA1D4EAFF4E9FB37E23D68491D6F4"

	chromiumOrigin = "chrome-extension://jdiccldimpdaibmpdkjnbmckianbfold"
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0.0.0 Safari/537.36 Edg/130.0.0.0"

	// 服务端消息的 Path 取值
	pathTurnStart     = "turn.start"
	pathTurnEnd       = "turn.end"
	pathAudio         = "audio"
	pathAudioMetadata = "audio.metadata"
	pathResponse      = "response"

	// 时间戳单位：100ns ticks
	ticksPerSecond = 10_000_000.0
)

var errShortBinaryMessage = errors.New("edge: binary message too short")

// Metadata 是 audio.metadata 消息体内的一个事件（WordBoundary / SentenceBoundary）
// Offset/Duration 单位为 100ns ticks
type Metadata struct {
	Type string `json:"Type"`
	Data struct {
		Offset   float64 `json:"Offset"`
		Duration float64 `json:"Duration"`
		Text     struct {
			Text string `json:"Text"`
		} `json:"text"`
	} `json:"Data"`
}

// MetadataResponse 是 audio.metadata 消息体
type MetadataResponse struct {
	Metadata []Metadata `json:"Metadata"`
}

// textMessage 组装客户端文本消息：若干 header 行 + 空行 + 正文
func textMessage(headers map[string]string, body string) []byte {
	var b strings.Builder
	for k, v := range headers {
		b.WriteString(k)
		b.WriteString(":")
		b.WriteString(v)
		b.WriteString("\r\n")
	}
	b.WriteString("X-Timestamp:")
	b.WriteString(time.Now().UTC().Format("Mon Jan 02 2006 15:04:05 GMT+0000 (Coordinated Universal Time)"))
	b.WriteString("\r\n\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

// buildSpeechConfig 构造 speech.config 消息：开启 WordBoundary，关闭 SentenceBoundary
func buildSpeechConfig(outputFormat string) []byte {
	body := fmt.Sprintf(`{"context":{"synthesis":{"audio":{"metadataoptions":{"sentenceBoundaryEnabled":"false","wordBoundaryEnabled":"true"},"outputFormat":"%s"}}}}`, outputFormat)
	return textMessage(map[string]string{
		"Content-Type": "application/json; charset=utf-8",
		"Path":         "speech.config",
	}, body)
}

// buildSSML 构造 ssml 消息
func buildSSML(requestID, text, voiceID, rate, volume, pitch string) []byte {
	ssml := fmt.Sprintf(
		`<speak version='1.0' xmlns='http://www.w3.org/2001/10/synthesis' xml:lang='en-US'><voice name='%s'><prosody pitch='%s' rate='%s' volume='%s'>%s</prosody></voice></speak>`,
		voiceID, pitch, rate, volume, escapeXML(text),
	)
	return textMessage(map[string]string{
		"X-RequestId":  requestID,
		"Content-Type": "application/ssml+xml",
		"Path":         "ssml",
	}, ssml)
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

// parseTextMessage 解析服务端文本消息，返回 Path header 与正文
func parseTextMessage(msg []byte) (path string, body []byte) {
	head := msg
	if i := bytes.Index(msg, []byte("\r\n\r\n")); i >= 0 {
		head = msg[:i]
		body = msg[i+4:]
	}
	for _, line := range bytes.Split(head, []byte("\r\n")) {
		if k, v, ok := bytes.Cut(line, []byte(":")); ok {
			if string(bytes.TrimSpace(k)) == "Path" {
				path = string(bytes.TrimSpace(v))
			}
		}
	}
	return path, body
}

// parseBinaryMessage 解析服务端二进制消息：前 2 字节为 header 区长度（大端），
// 其后为 header 区与音频负载
func parseBinaryMessage(msg []byte) ([]byte, error) {
	if len(msg) < 2 {
		return nil, errShortBinaryMessage
	}
	headerLen := int(binary.BigEndian.Uint16(msg[:2]))
	if len(msg) < 2+headerLen {
		return nil, errShortBinaryMessage
	}
	return msg[2+headerLen:], nil
}
