package service

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

// stubStream replays a fixed sequence of deltas, then finishErr
// (io.EOF for a clean stream).
type stubStream struct {
	chunks    []string
	finishErr error
	next      int
	closed    bool
}

func newStubStream(chunks ...string) *stubStream {
	return &stubStream{chunks: chunks, finishErr: io.EOF}
}

func (s *stubStream) Recv() (string, error) {
	if s.next >= len(s.chunks) {
		return "", s.finishErr
	}
	chunk := s.chunks[s.next]
	s.next++
	return chunk, nil
}

func (s *stubStream) Close() error {
	s.closed = true
	return nil
}

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

// MockRecipeCache is a mock recipe cache.
type MockRecipeCache struct {
	mock.Mock
}

func (m *MockRecipeCache) Get(ctx context.Context, ingredients []string) (string, bool) {
	args := m.Called(ctx, ingredients)
	return args.String(0), args.Bool(1)
}

func (m *MockRecipeCache) Set(ctx context.Context, ingredients []string, recipe string) error {
	args := m.Called(ctx, ingredients, recipe)
	return args.Error(0)
}
