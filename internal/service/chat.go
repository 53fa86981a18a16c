package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thanhng/foodchat/internal/domain"
	"github.com/thanhng/foodchat/internal/llm"
)

const (
	// historyWindow bounds the number of prior exchanges included in the
	// prompt; older messages are dropped, not summarized.
	historyWindow = 8

	// recipeExcerptLimit caps the recipe text quoted into the system prompt.
	recipeExcerptLimit = 400

	// fallbackNote marks done events produced by the fallback responder.
	fallbackNote = "fallback"
)

// ChatService manages recipe chat sessions and the streaming answer relay.
type ChatService struct {
	store             domain.SessionStore
	engine            llm.Engine
	fallbackWordDelay time.Duration
}

// NewChatService creates a chat service. fallbackWordDelay paces the
// synthetic fallback stream; zero disables the delay.
func NewChatService(store domain.SessionStore, engine llm.Engine, fallbackWordDelay time.Duration) *ChatService {
	return &ChatService{
		store:             store,
		engine:            engine,
		fallbackWordDelay: fallbackWordDelay,
	}
}

// StartChat creates a session bound to the detected ingredients and the
// generated recipe.
func (s *ChatService) StartChat(ingredients []string, recipe string) string {
	return s.store.Create(ingredients, recipe)
}

// History returns a snapshot of the session.
func (s *ChatService) History(sessionID string) (domain.Session, error) {
	session, ok := s.store.Get(sessionID)
	if !ok {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return session, nil
}

// EndChat removes the session.
func (s *ChatService) EndChat(sessionID string) error {
	if !s.store.Delete(sessionID) {
		return domain.ErrSessionNotFound
	}
	return nil
}

// StreamAnswer answers one follow-up question, emitting protocol events
// in order through emit. The event sequence always terminates with
// exactly one done or error event, except when ctx is cancelled mid-
// stream (the client is gone; the partial answer is still persisted).
func (s *ChatService) StreamAnswer(ctx context.Context, sessionID, question string, emit func(domain.StreamEvent)) {
	if strings.TrimSpace(sessionID) == "" || strings.TrimSpace(question) == "" {
		emit(domain.ErrorEvent("session_id and question are required"))
		return
	}

	session, ok := s.store.Get(sessionID)
	if !ok {
		emit(domain.ErrorEvent("session not found or expired"))
		return
	}
	s.store.Touch(sessionID)

	messages := BuildChatContext(session, question)

	stream, err := s.engine.CompleteStream(ctx, messages)
	if err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("engine stream failed to open, using fallback")
		s.streamFallback(ctx, sessionID, question, emit)
		return
	}
	defer stream.Close()

	var buf strings.Builder
	for {
		delta, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			if ctx.Err() != nil {
				s.persistPartial(sessionID, question, buf.String())
				return
			}
			log.Warn().Err(recvErr).Str("session_id", sessionID).Msg("engine stream broke mid-answer, using fallback")
			s.streamFallback(ctx, sessionID, question, emit)
			return
		}
		if delta == "" {
			continue
		}

		buf.WriteString(delta)
		emit(domain.ChunkEvent(delta))

		if ctx.Err() != nil {
			s.persistPartial(sessionID, question, buf.String())
			return
		}
	}

	answer := strings.TrimSpace(buf.String())
	s.store.AppendMessage(sessionID, question, answer)
	emit(domain.DoneEvent(answer, ""))
}

// streamFallback replaces the engine stream with the canned answer,
// emitted word by word to preserve the client-visible pacing.
func (s *ChatService) streamFallback(ctx context.Context, sessionID, question string, emit func(domain.StreamEvent)) {
	answer := FallbackAnswer(question)

	var sent strings.Builder
	for _, word := range strings.Fields(answer) {
		chunk := word + " "
		sent.WriteString(chunk)
		emit(domain.ChunkEvent(chunk))

		if s.fallbackWordDelay > 0 {
			select {
			case <-ctx.Done():
				s.persistPartial(sessionID, question, sent.String())
				return
			case <-time.After(s.fallbackWordDelay):
			}
		} else if ctx.Err() != nil {
			s.persistPartial(sessionID, question, sent.String())
			return
		}
	}

	s.store.AppendMessage(sessionID, question, answer)
	emit(domain.DoneEvent(answer, fallbackNote))
}

// persistPartial saves whatever answer was accumulated before the client
// disconnected. Best effort: the client is gone, so failures are only
// logged.
func (s *ChatService) persistPartial(sessionID, question, partial string) {
	partial = strings.TrimSpace(partial)
	if partial == "" {
		return
	}
	s.store.AppendMessage(sessionID, question, partial)
	log.Debug().Str("session_id", sessionID).Msg("persisted partial answer after client disconnect")
}

// BuildChatContext assembles the bounded prompt for one follow-up
// question: system instructions grounded in the session's ingredients and
// recipe excerpt, the last historyWindow exchanges oldest-first, then the
// new question. Pure; the session is not mutated.
func BuildChatContext(session domain.Session, question string) []llm.Message {
	messages := make([]llm.Message, 0, 2*historyWindow+2)
	messages = append(messages, llm.Message{
		Role:    llm.RoleSystem,
		Content: llm.BuildChatSystemPrompt(session.Ingredients, recipeExcerpt(session.Recipe)),
	})

	history := session.Messages
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	for _, m := range history {
		messages = append(messages,
			llm.Message{Role: llm.RoleUser, Content: m.Question},
			llm.Message{Role: llm.RoleAssistant, Content: m.Answer},
		)
	}

	return append(messages, llm.Message{Role: llm.RoleUser, Content: question})
}

func recipeExcerpt(recipe string) string {
	runes := []rune(recipe)
	if len(runes) <= recipeExcerptLimit {
		return recipe
	}
	return string(runes[:recipeExcerptLimit])
}
