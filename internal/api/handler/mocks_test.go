package handler

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/thanhng/foodchat/internal/detector"
	"github.com/thanhng/foodchat/internal/llm"
)

// MockEngine is a mock language engine.
type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) Complete(ctx context.Context, messages []llm.Message, maxTokens int) (string, error) {
	args := m.Called(ctx, messages, maxTokens)
	return args.String(0), args.Error(1)
}

func (m *MockEngine) CompleteStream(ctx context.Context, messages []llm.Message) (llm.Stream, error) {
	args := m.Called(ctx, messages)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(llm.Stream), args.Error(1)
}

func (m *MockEngine) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// stubStream replays fixed deltas then io.EOF.
type stubStream struct {
	chunks []string
	next   int
}

func newStubStream(chunks ...string) *stubStream {
	return &stubStream{chunks: chunks}
}

func (s *stubStream) Recv() (string, error) {
	if s.next >= len(s.chunks) {
		return "", io.EOF
	}
	chunk := s.chunks[s.next]
	s.next++
	return chunk, nil
}

func (s *stubStream) Close() error { return nil }

// MockDetector is a mock detection engine.
type MockDetector struct {
	mock.Mock
}

func (m *MockDetector) Detect(ctx context.Context, imagePath string, confidence float64) ([]detector.Box, error) {
	args := m.Called(ctx, imagePath, confidence)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]detector.Box), args.Error(1)
}

func (m *MockDetector) Classes(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// stubPinger always reports the configured error.
type stubPinger struct {
	err error
}

func (p stubPinger) Ping(ctx context.Context) error { return p.err }
