package tts

import (
	"errors"
	"sync"
)

var (
	ErrStreamClosed = errors.New("stream closed")
	ErrEOF          = errors.New("eof")
)

// ChunkType 区分流内数据块种类
type ChunkType int

const (
	ChunkAudio ChunkType = iota
	ChunkWordBoundary
)

// Chunk 是 Stream 中的一个数据块：音频字节或单词边界事件
type Chunk struct {
	Type     ChunkType
	Audio    []byte       // 仅 ChunkAudio
	Boundary WordBoundary // 仅 ChunkWordBoundary
}

// Stream 是一次合成调用的输出流，生产者（引擎）写入，消费者读取。
// 生产者写完后调用 CloseWrite；消费者中途放弃时调用 Close。
type Stream struct {
	queue chan Chunk
	done  chan struct{}
	err   error
	mu    sync.Mutex

	writeOnce sync.Once
	doneOnce  sync.Once
}

func NewStream(size int) *Stream {
	return &Stream{
		queue: make(chan Chunk, size),
		done:  make(chan struct{}),
	}
}

// Write 写入一个数据块；消费者已关闭时返回 ErrStreamClosed
func (s *Stream) Write(chunk Chunk) error {
	select {
	case <-s.done:
		return ErrStreamClosed
	case s.queue <- chunk:
		return nil
	}
}

// Read 读取下一个数据块；流正常结束返回 ErrEOF，被关闭返回 ErrStreamClosed
func (s *Stream) Read() (*Chunk, error) {
	select {
	case chunk, ok := <-s.queue:
		if !ok {
			if err := s.Err(); err != nil {
				return nil, err
			}
			return nil, ErrEOF
		}
		return &chunk, nil
	case <-s.done:
		// done 后 queue 里可能还有残留数据，优先取完
		select {
		case chunk, ok := <-s.queue:
			if ok {
				return &chunk, nil
			}
		default:
		}
		return nil, ErrStreamClosed
	}
}

// CloseWrite 生产者写入完毕（或出错）时调用，err 为 nil 表示正常结束
func (s *Stream) CloseWrite(err error) {
	s.writeOnce.Do(func() {
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		close(s.queue)
	})
}

// Close 消费者调用，通知生产者停止写入
func (s *Stream) Close() error {
	s.doneOnce.Do(func() {
		close(s.done)
	})
	return nil
}

func (s *Stream) Done() <-chan struct{} {
	return s.done
}

// Err 返回生产者记录的错误
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
