package tts

import (
	"errors"
	"testing"
)

func TestStreamWriteRead(t *testing.T) {
	s := NewStream(4)
	chunks := []Chunk{
		{Type: ChunkAudio, Audio: []byte{0x01, 0x02}},
		{Type: ChunkWordBoundary, Boundary: WordBoundary{Text: "hello", Start: 0.1, End: 0.5}},
	}
	for _, c := range chunks {
		if err := s.Write(c); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	s.CloseWrite(nil)

	got, err := s.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Type != ChunkAudio || len(got.Audio) != 2 {
		t.Fatalf("chunk got=%+v", got)
	}
	got, err = s.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Type != ChunkWordBoundary || got.Boundary.Text != "hello" {
		t.Fatalf("chunk got=%+v", got)
	}
	if _, err := s.Read(); err != ErrEOF {
		t.Fatalf("after drain err got=%v want=ErrEOF", err)
	}
}

func TestStreamCloseWriteWithError(t *testing.T) {
	s := NewStream(1)
	wantErr := errors.New("synthesis aborted")
	s.CloseWrite(wantErr)

	if _, err := s.Read(); err != wantErr {
		t.Fatalf("err got=%v want=%v", err, wantErr)
	}
	if s.Err() != wantErr {
		t.Fatalf("Err got=%v", s.Err())
	}
}

func TestStreamConsumerClose(t *testing.T) {
	s := NewStream(0)
	s.Close()

	if err := s.Write(Chunk{Type: ChunkAudio}); err != ErrStreamClosed {
		t.Fatalf("Write after Close err got=%v want=ErrStreamClosed", err)
	}
	select {
	case <-s.Done():
	default:
		t.Fatalf("Done should be closed")
	}
}

func TestStreamReadDrainsResidueAfterClose(t *testing.T) {
	s := NewStream(2)
	if err := s.Write(Chunk{Type: ChunkAudio, Audio: []byte{0xFF}}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	s.Close()

	got, err := s.Read()
	if err != nil {
		t.Fatalf("Read residue: %v", err)
	}
	if got.Type != ChunkAudio {
		t.Fatalf("chunk got=%+v", got)
	}
	if _, err := s.Read(); err != ErrStreamClosed {
		t.Fatalf("err got=%v want=ErrStreamClosed", err)
	}
}
