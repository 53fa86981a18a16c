package domain

// Detection is one recognized ingredient from the detection engine.
// A detection response never carries two entries with the same name.
type Detection struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	ClassID    int     `json:"class_id"`
}
