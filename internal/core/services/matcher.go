package services

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/parasol/internal/core/domain"
	"github.com/custodia-labs/parasol/internal/logger"
	"github.com/custodia-labs/parasol/internal/normalisers/markdown"
)

// roleMarkers are name tokens that say what a file is rather than what
// it is about.
var roleMarkers = map[string]bool{
	"page":    true,
	"pages":   true,
	"usecase": true,
	"ui":      true,
	"screen":  true,
}

// roleMarkersJA are removed as substrings; Japanese names have no separators.
var roleMarkersJA = []string{"ユースケース", "画面", "ページ"}

// Levenshtein returns the edit distance between a and b, counted in runes.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// Similarity returns (max − distance) / max over rune lengths.
// Two empty strings are identical.
func Similarity(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	return float64(longest-Levenshtein(a, b)) / float64(longest)
}

// MatchKey reduces a corpus path to the name used for fuzzy matching:
// the lower-cased base name without extension and role markers.
// Role-named files (usecase.md, page.md) use their directory name.
func MatchKey(path string) string {
	return NameKey(markdown.FallbackName(path))
}

// NameKey lower-cases a name and removes role markers.
func NameKey(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	for _, m := range roleMarkersJA {
		lowered = strings.ReplaceAll(lowered, m, "")
	}
	tokens := strings.FieldsFunc(lowered, func(r rune) bool {
		return r == '-' || r == '_' || r == ' ' || r == '.' || r == '　'
	})
	kept := tokens[:0]
	for _, t := range tokens {
		if !roleMarkers[t] {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		return strings.Join(tokens, "-")
	}
	return strings.Join(kept, "-")
}

// coverThreshold is the similarity at which an existing use case directory
// stands in for an ideal entry.
const coverThreshold = 0.6

// Matcher pairs use case files with page files by name similarity.
type Matcher struct {
	threshold float64
}

// NewMatcher creates a matcher. A candidate is accepted only when its
// similarity is strictly above threshold; non-positive values use the default.
func NewMatcher(threshold float64) *Matcher {
	if threshold <= 0 {
		threshold = domain.DefaultMatchThreshold
	}
	return &Matcher{threshold: threshold}
}

// Threshold returns the acceptance threshold.
func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// Score is the similarity of two documents: the better of their path
// keys and their display names.
func Score(a, b domain.Document) float64 {
	return max(Similarity(MatchKey(a.Path), MatchKey(b.Path)), nameSimilarity(a.DisplayName, b.DisplayName))
}

// nameSimilarity compares display names. An empty name matches nothing.
func nameSimilarity(a, b string) float64 {
	ka, kb := NameKey(a), NameKey(b)
	if ka == "" || kb == "" {
		return 0
	}
	return Similarity(ka, kb)
}

// Match pairs each use case with its most similar unclaimed page.
// Use cases without a page above the threshold get a templated page.
func (m *Matcher) Match(useCases, pages []domain.Document) []domain.UseCasePageMapping {
	claimed := make([]bool, len(pages))
	slugs := newSlugSet()
	out := make([]domain.UseCasePageMapping, 0, len(useCases))

	for _, uc := range useCases {
		mapping := domain.UseCasePageMapping{
			UseCase:          uc,
			UseCaseScore:     1,
			NewDirectoryName: slugs.unique(MatchKey(uc.Path)),
		}
		m.attachPage(&mapping, pages, claimed, func(p domain.Document) float64 { return Score(uc, p) })
		out = append(out, mapping)
	}
	return out
}

// MatchIdeal maps each ideal entry to its best existing use case and page.
//
// Existing usecases/<dir>/ pairs keep their directory and come first; ideal
// entries they already cover are dropped. Entries without a use case above
// the threshold get templated content. Use cases and pages that no entry
// claims are appended as their own mappings so no legacy content is lost.
func (m *Matcher) MatchIdeal(
	op domain.Document, ideal []domain.IdealUseCase, useCases, pages []domain.Document,
) []domain.UseCasePageMapping {
	ucClaimed := make([]bool, len(useCases))
	pageClaimed := make([]bool, len(pages))
	slugs := newSlugSet()
	var out []domain.UseCasePageMapping

	pinned := m.pinExisting(op, useCases, pages, ucClaimed, pageClaimed, slugs)
	out = append(out, pinned...)

	for _, entry := range ideal {
		if m.covered(entry, pinned) {
			continue
		}
		mapping := domain.UseCasePageMapping{NewDirectoryName: slugs.unique(entry.Slug)}

		i, score := best(useCases, ucClaimed, func(uc domain.Document) float64 {
			return max(Similarity(entry.Slug, MatchKey(uc.Path)), nameSimilarity(entry.Name, uc.DisplayName))
		})
		if i >= 0 && score > m.threshold {
			ucClaimed[i] = true
			mapping.UseCase = useCases[i]
			mapping.UseCaseScore = score
		} else {
			logger.Debug("%v: use case %q, synthesizing", domain.ErrMatchMiss, entry.Name)
			mapping.UseCase = synthesizedUseCase(op, entry, mapping.NewDirectoryName)
			mapping.SynthesizedUseCase = true
		}

		uc := mapping.UseCase
		m.attachPage(&mapping, pages, pageClaimed, func(p domain.Document) float64 {
			return max(Similarity(entry.Slug, MatchKey(p.Path)), nameSimilarity(entry.PageName, p.DisplayName), Score(uc, p))
		})
		out = append(out, mapping)
	}

	for i, uc := range useCases {
		if ucClaimed[i] {
			continue
		}
		mapping := domain.UseCasePageMapping{
			UseCase:          uc,
			UseCaseScore:     1,
			NewDirectoryName: slugs.unique(MatchKey(uc.Path)),
		}
		m.attachPage(&mapping, pages, pageClaimed, func(p domain.Document) float64 { return Score(uc, p) })
		out = append(out, mapping)
	}

	for i, page := range pages {
		if pageClaimed[i] {
			continue
		}
		slug := slugs.unique(MatchKey(page.Path))
		entry := domain.IdealUseCase{Slug: slug, Name: page.DisplayName, PageName: page.DisplayName, Origin: domain.OriginLegacy}
		p := page
		out = append(out, domain.UseCasePageMapping{
			UseCase:            synthesizedUseCase(op, entry, slug),
			SynthesizedUseCase: true,
			Page:               &p,
			PageScore:          1,
			NewDirectoryName:   slug,
		})
	}
	return out
}

// pinExisting maps the usecases/<dir>/ documents to their own directory.
// A directory with only one of its two files is completed from the loose
// pages or from a template.
func (m *Matcher) pinExisting(
	op domain.Document, useCases, pages []domain.Document, ucClaimed, pageClaimed []bool, slugs *slugSet,
) []domain.UseCasePageMapping {
	var out []domain.UseCasePageMapping
	index := make(map[string]int)

	for i, uc := range useCases {
		if uc.SourceType != domain.SourceUseCaseCurrent {
			continue
		}
		ucClaimed[i] = true
		slugs.reserve(uc.UseCaseID)
		index[uc.UseCaseID] = len(out)
		out = append(out, domain.UseCasePageMapping{UseCase: uc, UseCaseScore: 1, NewDirectoryName: uc.UseCaseID})
	}

	for i, page := range pages {
		if page.SourceType != domain.SourceUseCaseCurrent {
			continue
		}
		pageClaimed[i] = true
		p := page
		if j, ok := index[page.UseCaseID]; ok {
			out[j].Page = &p
			out[j].PageScore = 1
			continue
		}
		slugs.reserve(page.UseCaseID)
		entry := domain.IdealUseCase{Slug: page.UseCaseID, Name: page.DisplayName, PageName: page.DisplayName, Origin: domain.OriginLegacy}
		out = append(out, domain.UseCasePageMapping{
			UseCase:            synthesizedUseCase(op, entry, page.UseCaseID),
			SynthesizedUseCase: true,
			Page:               &p,
			PageScore:          1,
			NewDirectoryName:   page.UseCaseID,
		})
	}

	for j := range out {
		if out[j].Page != nil {
			continue
		}
		uc := out[j].UseCase
		m.attachPage(&out[j], pages, pageClaimed, func(p domain.Document) float64 { return Score(uc, p) })
	}
	return out
}

// covered reports whether an existing directory already holds the entry.
func (m *Matcher) covered(entry domain.IdealUseCase, pinned []domain.UseCasePageMapping) bool {
	bar := max(m.threshold, coverThreshold)
	for _, p := range pinned {
		if Similarity(entry.Slug, NameKey(p.NewDirectoryName)) >= bar ||
			nameSimilarity(entry.Name, p.UseCase.DisplayName) >= bar {
			return true
		}
	}
	return false
}

func (m *Matcher) attachPage(
	mapping *domain.UseCasePageMapping, pages []domain.Document, claimed []bool,
	score func(domain.Document) float64,
) {
	i, s := best(pages, claimed, score)
	if i >= 0 && s > m.threshold {
		claimed[i] = true
		p := pages[i]
		mapping.Page = &p
		mapping.PageScore = s
		return
	}
	logger.Debug("%v: page for %q (best %.2f), synthesizing", domain.ErrMatchMiss, mapping.UseCase.DisplayName, s)
	mapping.PageScore = s
	mapping.SynthesizedPage = PageTemplate(pageNameFor(mapping.UseCase.DisplayName), mapping.UseCase.DisplayName)
}

// best returns the index and score of the highest-scoring unclaimed
// candidate. Ties keep the earliest. Returns -1 when none is left.
func best(candidates []domain.Document, claimed []bool, score func(domain.Document) float64) (int, float64) {
	bestIdx, bestScore := -1, 0.0
	for i, c := range candidates {
		if claimed[i] {
			continue
		}
		if s := score(c); bestIdx < 0 || s > bestScore {
			bestIdx, bestScore = i, s
		}
	}
	return bestIdx, bestScore
}

func synthesizedUseCase(op domain.Document, entry domain.IdealUseCase, slug string) domain.Document {
	content := UseCaseTemplate(entry.Name, op.DisplayName, entry.Step)
	return domain.Document{
		Path:         filepath.Join(filepath.Dir(op.Path), useCasesDir, slug, useCaseFile),
		RawContent:   content,
		CleanContent: content,
		DisplayName:  entry.Name,
		ServiceID:    op.ServiceID,
		CapabilityID: op.CapabilityID,
		OperationID:  op.OperationID,
		UseCaseID:    slug,
		SourceType:   domain.SourceUseCaseCurrent,
		Kind:         domain.KindUseCase,
	}
}

func pageNameFor(useCaseName string) string {
	if useCaseName == "" {
		return "画面"
	}
	return useCaseName + "画面"
}

// slugSet hands out filesystem-safe directory names unique within one operation.
type slugSet struct {
	used map[string]bool
}

func newSlugSet() *slugSet {
	return &slugSet{used: make(map[string]bool)}
}

// reserve marks an existing directory name as taken.
func (s *slugSet) reserve(name string) {
	s.used[name] = true
}

func (s *slugSet) unique(name string) string {
	base := Slugify(name)
	if base == "" {
		base = fmt.Sprintf("usecase-%d", len(s.used)+1)
	}
	slug := base
	for n := 2; s.used[slug]; n++ {
		slug = fmt.Sprintf("%s-%d", base, n)
	}
	s.used[slug] = true
	return slug
}

// Slugify lower-cases s and keeps [a-z0-9], joining runs of anything else
// with a single hyphen.
func Slugify(s string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}
