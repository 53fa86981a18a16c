package handler

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/thanhng/foodchat/internal/api/response"
	"github.com/thanhng/foodchat/internal/service"
)

const maxUploadSize = 20 << 20

var allowedImageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
}

// DetectHandler handles food image detection requests.
type DetectHandler struct {
	detectionService *service.DetectionService
	uploadDir        string
}

// NewDetectHandler creates a new detect handler.
func NewDetectHandler(detectionService *service.DetectionService, uploadDir string) *DetectHandler {
	return &DetectHandler{
		detectionService: detectionService,
		uploadDir:        uploadDir,
	}
}

// Detect handles POST /detect. The image is spooled to a temp file for
// the detection engine and always removed afterwards.
func (h *DetectHandler) Detect(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		h.fail(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			h.fail(w, http.StatusBadRequest, "image file is required")
			return
		}
		h.fail(w, http.StatusBadRequest, "failed to read image file")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExts[ext] {
		h.fail(w, http.StatusBadRequest, "unsupported image format: "+ext)
		return
	}

	imagePath := filepath.Join(h.uploadDir, uuid.NewString()+ext)
	if err := h.saveUpload(file, imagePath); err != nil {
		log.Error().Err(err).Msg("failed to save uploaded image")
		h.fail(w, http.StatusInternalServerError, "failed to save uploaded image")
		return
	}
	defer os.Remove(imagePath)

	results, ingredients, err := h.detectionService.DetectIngredients(r.Context(), imagePath)
	if err != nil {
		log.Error().Err(err).Msg("detection failed")
		h.fail(w, http.StatusServiceUnavailable, "detection engine unavailable")
		return
	}

	response.OK(w, map[string]any{
		"success":          true,
		"ingredients":      ingredients,
		"detailed_results": results,
		"total_detected":   len(results),
	})
}

// Classes handles GET /classes.
func (h *DetectHandler) Classes(w http.ResponseWriter, r *http.Request) {
	classes, err := h.detectionService.ClassNames(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to load class names")
		h.fail(w, http.StatusServiceUnavailable, "detection engine unavailable")
		return
	}

	response.OK(w, map[string]any{
		"success":       true,
		"classes":       classes,
		"total_classes": len(classes),
	})
}

func (h *DetectHandler) saveUpload(src io.Reader, path string) error {
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return err
	}
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

// fail keeps the detect endpoints' failure shape, which carries an empty
// ingredient list so clients can render without branching.
func (h *DetectHandler) fail(w http.ResponseWriter, status int, message string) {
	response.JSON(w, status, map[string]any{
		"success":     false,
		"error":       message,
		"ingredients": []string{},
	})
}
