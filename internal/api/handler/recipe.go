package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/thanhng/foodchat/internal/api/response"
	"github.com/thanhng/foodchat/internal/domain"
	"github.com/thanhng/foodchat/internal/service"
)

var validate = validator.New()

// lmStudioHints is sent with 503 responses so the (Vietnamese-speaking)
// operator can fix the local engine without digging through logs.
var lmStudioHints = []string{
	"Kiểm tra LM Studio có đang chạy không (localhost:1234)",
	"Kiểm tra model đã được load chưa",
	"Kiểm tra kết nối mạng",
	"Xem lại cấu hình API endpoint",
}

var malformedOutputHints = []string{
	"Model có thể không hiểu yêu cầu JSON",
	"Thử giảm max_tokens hoặc thay đổi prompt",
	"Kiểm tra model có hỗ trợ JSON output không",
}

type generateRecipeRequest struct {
	Ingredients []string `json:"ingredients" validate:"required,min=1,dive,required"`
}

type generateQuestionsRequest struct {
	Ingredients []string `json:"ingredients" validate:"required,min=1,dive,required"`
	Recipe      string   `json:"recipe"`
}

// RecipeHandler handles recipe and suggested-question generation.
type RecipeHandler struct {
	recipeService *service.RecipeService
}

// NewRecipeHandler creates a new recipe handler.
func NewRecipeHandler(recipeService *service.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService}
}

// GenerateRecipe handles POST /generate-recipe.
func (h *RecipeHandler) GenerateRecipe(w http.ResponseWriter, r *http.Request) {
	var req generateRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		response.Fail(w, http.StatusBadRequest, "ingredients list is required and must not be empty")
		return
	}

	recipe, err := h.recipeService.GenerateRecipe(r.Context(), req.Ingredients)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	response.OK(w, map[string]any{
		"success":          true,
		"recipe":           recipe,
		"ingredients_used": req.Ingredients,
	})
}

// GenerateQuestions handles POST /generate-questions.
func (h *RecipeHandler) GenerateQuestions(w http.ResponseWriter, r *http.Request) {
	var req generateQuestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		response.Fail(w, http.StatusBadRequest, "ingredients list is required and must not be empty")
		return
	}

	questions, err := h.recipeService.GenerateQuestions(r.Context(), req.Ingredients, req.Recipe)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	response.OK(w, map[string]any{
		"success":   true,
		"questions": questions,
		"total":     len(questions),
	})
}

// writeEngineError maps service errors to the wire contract's status
// codes and troubleshooting hints.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		response.Fail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrEngineUnavailable):
		log.Error().Err(err).Msg("language engine unavailable")
		response.JSON(w, http.StatusServiceUnavailable, map[string]any{
			"success":         false,
			"error":           "Không thể kết nối đến LM Studio",
			"troubleshooting": lmStudioHints,
		})
	case errors.Is(err, domain.ErrMalformedOutput):
		log.Warn().Err(err).Msg("language engine returned malformed output")
		response.JSON(w, http.StatusUnprocessableEntity, map[string]any{
			"success":         false,
			"error":           "Model trả về dữ liệu không hợp lệ",
			"troubleshooting": malformedOutputHints,
		})
	default:
		log.Error().Err(err).Msg("unexpected error")
		response.Fail(w, http.StatusInternalServerError, "Server error: "+err.Error())
	}
}
