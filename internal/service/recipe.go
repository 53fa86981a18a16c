package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/thanhng/foodchat/internal/domain"
	"github.com/thanhng/foodchat/internal/llm"
)

const (
	recipeMaxTokens    = 1000
	questionsMaxTokens = 600
	questionsExpected  = 4
)

// RecipeCache caches generated recipes between identical requests.
type RecipeCache interface {
	Get(ctx context.Context, ingredients []string) (string, bool)
	Set(ctx context.Context, ingredients []string, recipe string) error
}

// SuggestedQuestion mirrors the JSON shape the model is asked to return.
type SuggestedQuestion struct {
	Text     string `json:"text"`
	Question string `json:"question"`
	Category string `json:"category"`
}

// RecipeService generates recipes and suggested questions through the
// language engine.
type RecipeService struct {
	engine llm.Engine
	cache  RecipeCache // nil when redis is not configured
}

// NewRecipeService creates a recipe service. cache may be nil.
func NewRecipeService(engine llm.Engine, cache RecipeCache) *RecipeService {
	return &RecipeService{engine: engine, cache: cache}
}

// GenerateRecipe asks the engine for Vietnamese recipe suggestions from
// the given ingredients.
func (s *RecipeService) GenerateRecipe(ctx context.Context, ingredients []string) (string, error) {
	if len(ingredients) == 0 {
		return "", fmt.Errorf("%w: ingredients list is empty", domain.ErrValidation)
	}

	if s.cache != nil {
		if recipe, ok := s.cache.Get(ctx, ingredients); ok {
			log.Debug().Strs("ingredients", ingredients).Msg("recipe served from cache")
			return recipe, nil
		}
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: llm.RecipeSystemPrompt},
		{Role: llm.RoleUser, Content: llm.BuildRecipePrompt(ingredients)},
	}

	recipe, err := s.engine.Complete(ctx, messages, recipeMaxTokens)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrEngineUnavailable, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, ingredients, recipe); err != nil {
			log.Warn().Err(err).Msg("failed to cache recipe")
		}
	}

	return recipe, nil
}

// GenerateQuestions asks the engine for exactly 4 suggested questions
// about the dish, as strict JSON. Output that fails to parse into the
// requested shape is a malformed-output error, not a server fault.
func (s *RecipeService) GenerateQuestions(ctx context.Context, ingredients []string, recipe string) ([]SuggestedQuestion, error) {
	if len(ingredients) == 0 {
		return nil, fmt.Errorf("%w: ingredients list is empty", domain.ErrValidation)
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: llm.QuestionsSystemPrompt},
		{Role: llm.RoleUser, Content: llm.BuildQuestionsPrompt(ingredients, recipe)},
	}

	raw, err := s.engine.Complete(ctx, messages, questionsMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEngineUnavailable, err)
	}

	var questions []SuggestedQuestion
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &questions); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedOutput, err)
	}
	if len(questions) != questionsExpected {
		return nil, fmt.Errorf("%w: expected %d questions, got %d", domain.ErrMalformedOutput, questionsExpected, len(questions))
	}
	for _, q := range questions {
		if q.Text == "" || q.Question == "" || q.Category == "" {
			return nil, fmt.Errorf("%w: question missing required fields", domain.ErrMalformedOutput)
		}
	}

	return questions, nil
}
