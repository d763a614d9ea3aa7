package domain

// UseCasePageMapping pairs a use case document with its page in the
// one-to-one layout.
type UseCasePageMapping struct {
	// UseCase is the matched or synthesized use case document.
	UseCase Document `json:"useCase"`

	// Page is the matched page, or nil when no page cleared the threshold.
	// SynthesizedPage then holds the templated replacement.
	Page *Document `json:"page,omitempty"`

	// SynthesizedPage is templated page content used when Page is nil.
	SynthesizedPage string `json:"-"`

	// SynthesizedUseCase is true when UseCase was generated from a template.
	SynthesizedUseCase bool `json:"synthesizedUseCase,omitempty"`

	// NewDirectoryName is the slug under usecases/. Unique within an operation.
	NewDirectoryName string `json:"newDirectoryName"`

	UseCaseScore float64 `json:"useCaseScore"`
	PageScore    float64 `json:"pageScore"`
}

// PageContent returns the content to write to page.md.
func (m UseCasePageMapping) PageContent() string {
	if m.Page != nil {
		return m.Page.CleanContent
	}
	return m.SynthesizedPage
}

// IdealUseCase is one entry of the target structure derived for an operation.
type IdealUseCase struct {
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	PageName string `json:"pageName"`

	// Step is the process-flow step the entry came from, if any.
	Step string `json:"step,omitempty"`

	// Origin records how the entry was derived.
	Origin IdealOrigin `json:"origin"`
}

// IdealOrigin records how an ideal entry was derived.
type IdealOrigin string

// Ideal entry origins.
const (
	OriginPattern IdealOrigin = "pattern"
	OriginVerb    IdealOrigin = "verb"
	OriginLegacy  IdealOrigin = "legacy"
)
