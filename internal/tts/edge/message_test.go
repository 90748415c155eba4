package edge

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseTextMessage(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		wantPath string
		wantBody string
	}{
		{
			name:     "turn end",
			msg:      "X-RequestId:abc123\r\nPath:turn.end\r\n\r\n{}",
			wantPath: "turn.end",
			wantBody: "{}",
		},
		{
			name:     "metadata with spaces",
			msg:      "Path: audio.metadata\r\n\r\n{\"Metadata\":[]}",
			wantPath: "audio.metadata",
			wantBody: "{\"Metadata\":[]}",
		},
		{
			name:     "no body separator",
			msg:      "Path:turn.start",
			wantPath: "turn.start",
			wantBody: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, body := parseTextMessage([]byte(tt.msg))
			if path != tt.wantPath {
				t.Fatalf("path got=%q want=%q", path, tt.wantPath)
			}
			if string(body) != tt.wantBody {
				t.Fatalf("body got=%q want=%q", body, tt.wantBody)
			}
		})
	}
}

func TestParseBinaryMessage(t *testing.T) {
	header := []byte("Path:audio\r\n")
	payload := []byte{0xFF, 0xFB, 0x90, 0x64}
	msg := append([]byte{0x00, byte(len(header))}, header...)
	msg = append(msg, payload...)

	got, err := parseBinaryMessage(msg)
	if err != nil {
		t.Fatalf("parseBinaryMessage: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload got=%v want=%v", got, payload)
	}
}

func TestParseBinaryMessageShort(t *testing.T) {
	for _, msg := range [][]byte{nil, {0x01}, {0x00, 0x10, 0x01}} {
		if _, err := parseBinaryMessage(msg); err == nil {
			t.Fatalf("msg=%v want error", msg)
		}
	}
}

func TestMetadataUnmarshal(t *testing.T) {
	raw := `{"Metadata":[{"Type":"WordBoundary","Data":{"Offset":1000000,"Duration":5000000,"text":{"Text":"hello","Length":5,"BoundaryType":"WordBoundary"}}}]}`
	var resp MetadataResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Metadata) != 1 {
		t.Fatalf("metadata got=%d want=1", len(resp.Metadata))
	}
	md := resp.Metadata[0]
	if md.Type != "WordBoundary" {
		t.Fatalf("type got=%q", md.Type)
	}
	if md.Data.Text.Text != "hello" {
		t.Fatalf("text got=%q", md.Data.Text.Text)
	}
	// ticks 换算为秒在引擎层完成：0.1s 起始、0.5s 时长
	if md.Data.Offset/ticksPerSecond != 0.1 {
		t.Fatalf("offset seconds got=%v", md.Data.Offset/ticksPerSecond)
	}
	if md.Data.Duration/ticksPerSecond != 0.5 {
		t.Fatalf("duration seconds got=%v", md.Data.Duration/ticksPerSecond)
	}
}

func TestBuildSSML(t *testing.T) {
	msg := string(buildSSML("req-1", "Tom & Jerry say <hi>", "en-US-JennyNeural", "+10%", "+0%", "+0Hz"))

	head, body, ok := strings.Cut(msg, "\r\n\r\n")
	if !ok {
		t.Fatalf("no header/body separator in %q", msg)
	}
	for _, want := range []string{"X-RequestId:req-1", "Path:ssml", "Content-Type:application/ssml+xml", "X-Timestamp:"} {
		if !strings.Contains(head, want) {
			t.Fatalf("header missing %q in %q", want, head)
		}
	}
	for _, want := range []string{
		"name='en-US-JennyNeural'",
		"rate='+10%'",
		"Tom &amp; Jerry say &lt;hi&gt;",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q in %q", want, body)
		}
	}
}

func TestBuildSpeechConfig(t *testing.T) {
	msg := string(buildSpeechConfig("audio-24khz-48kbitrate-mono-mp3"))
	for _, want := range []string{
		"Path:speech.config",
		`"wordBoundaryEnabled":"true"`,
		`"sentenceBoundaryEnabled":"false"`,
		`"outputFormat":"audio-24khz-48kbitrate-mono-mp3"`,
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("missing %q in %q", want, msg)
		}
	}
}

func TestEscapeXML(t *testing.T) {
	got := escapeXML(`a & b < c > "d" 'e'`)
	want := "a &amp; b &lt; c &gt; &quot;d&quot; &apos;e&apos;"
	if got != want {
		t.Fatalf("got=%q want=%q", got, want)
	}
}
