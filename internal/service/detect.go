package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/thanhng/foodchat/internal/detector"
	"github.com/thanhng/foodchat/internal/domain"
)

// defaultConfidenceThreshold matches the threshold the detection model
// was tuned with.
const defaultConfidenceThreshold = 0.3

// Detector is the narrow view of the detection engine used by
// DetectionService.
type Detector interface {
	Detect(ctx context.Context, imagePath string, confidence float64) ([]detector.Box, error)
	Classes(ctx context.Context) ([]string, error)
}

// DetectionService turns raw engine boxes into a ranked ingredient list.
type DetectionService struct {
	engine     Detector
	confidence float64
}

// NewDetectionService creates a detection service with the given
// confidence threshold (<= 0 selects the default).
func NewDetectionService(engine Detector, confidence float64) *DetectionService {
	if confidence <= 0 {
		confidence = defaultConfidenceThreshold
	}
	return &DetectionService{engine: engine, confidence: confidence}
}

// DetectIngredients runs one detection pass over the image at path.
// Boxes with unrecognized class ids are dropped; duplicates of the same
// ingredient keep the highest confidence; results are sorted by
// descending confidence. Returns the detailed results and the name-only
// list in the same order.
func (s *DetectionService) DetectIngredients(ctx context.Context, imagePath string) ([]domain.Detection, []string, error) {
	boxes, err := s.engine.Detect(ctx, imagePath, s.confidence)
	if err != nil {
		return nil, nil, fmt.Errorf("detection failed: %w", err)
	}

	names, err := s.engine.Classes(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load class names: %w", err)
	}

	best := make(map[string]domain.Detection)
	for _, box := range boxes {
		if box.ClassID < 0 || box.ClassID >= len(names) {
			log.Warn().Int("class_id", box.ClassID).Msg("dropping box with unknown class id")
			continue
		}

		name := detector.Localize(names[box.ClassID])
		if current, ok := best[name]; !ok || box.Confidence > current.Confidence {
			best[name] = domain.Detection{
				Name:       name,
				Confidence: box.Confidence,
				ClassID:    box.ClassID,
			}
		}
	}

	results := make([]domain.Detection, 0, len(best))
	for _, d := range best {
		results = append(results, d)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Confidence != results[j].Confidence {
			return results[i].Confidence > results[j].Confidence
		}
		return results[i].Name < results[j].Name
	})

	ingredients := make([]string, len(results))
	for i, d := range results {
		ingredients[i] = d.Name
	}

	return results, ingredients, nil
}

// ClassNames returns the localized list of ingredients the engine can
// detect.
func (s *DetectionService) ClassNames(ctx context.Context) ([]string, error) {
	names, err := s.engine.Classes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load class names: %w", err)
	}

	localized := make([]string, len(names))
	for i, name := range names {
		localized[i] = detector.Localize(name)
	}
	return localized, nil
}
