package domain

// Layer is the sharing scope of a page or use case.
type Layer string

// Sharing layers, widest first.
const (
	// LayerGlobal is usable by the whole system.
	LayerGlobal Layer = "global"

	// LayerOperation is shared by all use cases of one business operation.
	LayerOperation Layer = "operation"

	// LayerUseCase belongs to a single use case.
	LayerUseCase Layer = "usecase"
)

// IsValid returns true if the layer is recognised.
func (l Layer) IsValid() bool {
	switch l {
	case LayerGlobal, LayerOperation, LayerUseCase:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (l Layer) String() string {
	return string(l)
}

// Phase returns the migration phase a layer is handled in.
// Narrow layers go first because they touch the fewest consumers.
func (l Layer) Phase() int {
	switch l {
	case LayerUseCase:
		return 1
	case LayerOperation:
		return 2
	case LayerGlobal:
		return 3
	default:
		return 0
	}
}

// ClassificationResult is the recommended layer of one document.
type ClassificationResult struct {
	Document         Document `json:"document"`
	RecommendedLayer Layer    `json:"recommendedLayer"`
	Confidence       float64  `json:"confidence"`
	Reasons          []string `json:"reasons"`
}

// LowConfidence is the confidence below which a classification
// should be reviewed by hand.
const LowConfidence = 0.7

// IsLowConfidence returns true if the result needs manual review.
func (r ClassificationResult) IsLowConfidence() bool {
	return r.Confidence < LowConfidence
}
