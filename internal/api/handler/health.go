package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/thanhng/foodchat/internal/api/response"
	"github.com/thanhng/foodchat/internal/domain"
)

const probeTimeout = 5 * time.Second

// Pinger reports whether a downstream engine is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports service and downstream engine health.
type HealthHandler struct {
	engine      Pinger
	detector    Pinger
	store       domain.SessionStore
	lmStudioURL string
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(engine, detector Pinger, store domain.SessionStore, lmStudioURL string) *HealthHandler {
	return &HealthHandler{
		engine:      engine,
		detector:    detector,
		store:       store,
		lmStudioURL: lmStudioURL,
	}
}

// Health handles GET /health. The service reports healthy as long as it
// is serving; downstream engines get their own status fields because
// either can be down while the other still works.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	detectorStatus := "connected"
	if err := h.detector.Ping(ctx); err != nil {
		detectorStatus = "disconnected"
	}

	lmStudioStatus := "connected"
	if err := h.engine.Ping(ctx); err != nil {
		lmStudioStatus = "disconnected"
	}

	stats := h.store.Stats()

	response.OK(w, map[string]any{
		"success":          true,
		"status":           "healthy",
		"detector_status":  detectorStatus,
		"lm_studio_status": lmStudioStatus,
		"lm_studio_url":    h.lmStudioURL,
		"sessions": map[string]any{
			"active_sessions": stats.ActiveSessions,
			"total_messages":  stats.TotalMessages,
		},
	})
}

// Root handles GET /. It describes the API surface for anyone poking at
// the base URL.
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]any{
		"name":    "Food Detection & Recipe API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"POST /detect":                      "Nhận diện nguyên liệu từ ảnh món ăn",
			"GET /classes":                      "Danh sách nguyên liệu có thể nhận diện",
			"POST /generate-recipe":             "Tạo công thức nấu ăn từ danh sách nguyên liệu",
			"POST /generate-questions":          "Tạo câu hỏi gợi ý về món ăn",
			"POST /start-chat":                  "Bắt đầu phiên chat về công thức",
			"POST /chat-stream":                 "Hỏi đáp về công thức (streaming)",
			"GET /get-chat-history/{sessionID}": "Xem lịch sử phiên chat",
			"DELETE /end-chat/{sessionID}":      "Kết thúc phiên chat",
			"GET /health":                       "Kiểm tra trạng thái hệ thống",
		},
	})
}
