package services

import (
	"strings"

	"github.com/custodia-labs/parasol/internal/core/domain"
	"github.com/custodia-labs/parasol/internal/normalisers/markdown"
)

// stepPattern maps process-step keywords to a known use case.
type stepPattern struct {
	keywords []string
	slug     string
	name     string
	page     string
}

// stepPatterns are the use cases that recur across consulting operations.
// The first pattern with a keyword in the step wins.
var stepPatterns = []stepPattern{
	{[]string{"提案", "proposal"}, "create-proposal", "提案書を作成", "提案書作成画面"},
	{[]string{"見積", "estimate"}, "estimate-cost", "見積を作成", "見積作成画面"},
	{[]string{"契約", "contract"}, "sign-contract", "契約を締結", "契約締結画面"},
	{[]string{"アサイン", "メンバー", "assign", "member"}, "assign-members", "メンバーをアサイン", "メンバーアサイン画面"},
	{[]string{"計画", "plan"}, "plan-project", "計画を策定", "計画策定画面"},
	{[]string{"進捗", "progress"}, "report-progress", "進捗を報告", "進捗報告画面"},
	{[]string{"成果物", "deliverable"}, "submit-deliverable", "成果物を提出", "成果物提出画面"},
	{[]string{"承認", "approv"}, "approve-request", "承認する", "承認画面"},
	{[]string{"請求", "invoice"}, "issue-invoice", "請求書を発行", "請求書発行画面"},
	{[]string{"レビュー", "review"}, "review-deliverable", "レビューする", "レビュー画面"},
	{[]string{"工数", "タイムシート", "timesheet"}, "record-timesheet", "工数を記録", "工数記録画面"},
	{[]string{"ナレッジ", "knowledge"}, "share-knowledge", "ナレッジを共有", "ナレッジ共有画面"},
}

// verbSlugs maps Japanese verbs to slug verbs for steps that match no pattern.
var verbSlugs = []struct {
	verb string
	slug string
}{
	{"登録", "register"},
	{"確認", "confirm"},
	{"提出", "submit"},
	{"承認", "approve"},
	{"作成", "create"},
	{"更新", "update"},
	{"削除", "delete"},
	{"検索", "search"},
	{"一覧", "list"},
	{"選定", "select"},
	{"報告", "report"},
	{"分析", "analyze"},
	{"計画", "plan"},
}

// maxSlugWords bounds slugs inferred from English steps.
const maxSlugWords = 3

// IdealDeriver derives the target use case list of an operation.
type IdealDeriver struct{}

// NewIdealDeriver creates an ideal-structure deriver.
func NewIdealDeriver() *IdealDeriver {
	return &IdealDeriver{}
}

// Derive returns the ideal use cases of an operation. The process flow in
// its operation.md is used when present; otherwise the existing use case
// files define the list. Use cases the list does not cover are kept by
// the matcher.
func (d *IdealDeriver) Derive(op domain.Document, useCases []domain.Document) []domain.IdealUseCase {
	steps := markdown.ExtractProcessSteps(op.CleanContent)
	if len(steps) == 0 {
		return d.fromLegacy(useCases)
	}

	seen := make(map[string]bool)
	out := make([]domain.IdealUseCase, 0, len(steps))
	for _, step := range steps {
		entry := DeriveStep(step)
		if entry.Origin == domain.OriginPattern {
			if seen[entry.Slug] {
				continue
			}
			seen[entry.Slug] = true
		}
		out = append(out, entry)
	}
	return out
}

func (d *IdealDeriver) fromLegacy(useCases []domain.Document) []domain.IdealUseCase {
	out := make([]domain.IdealUseCase, 0, len(useCases))
	for _, uc := range useCases {
		out = append(out, domain.IdealUseCase{
			Slug:     Slugify(MatchKey(uc.Path)),
			Name:     uc.DisplayName,
			PageName: pageNameFor(uc.DisplayName),
			Origin:   domain.OriginLegacy,
		})
	}
	return out
}

// DeriveStep turns one process step into an ideal use case, first from
// the pattern table, then by verb inference.
func DeriveStep(step string) domain.IdealUseCase {
	lower := strings.ToLower(step)
	for _, p := range stepPatterns {
		if containsAny(lower, p.keywords) {
			return domain.IdealUseCase{
				Slug:     p.slug,
				Name:     p.name,
				PageName: p.page,
				Step:     step,
				Origin:   domain.OriginPattern,
			}
		}
	}

	name := trimVerbEnding(step)
	entry := domain.IdealUseCase{
		Name:     name,
		PageName: pageNameFor(name),
		Step:     step,
		Origin:   domain.OriginVerb,
	}
	for _, v := range verbSlugs {
		if strings.Contains(step, v.verb) {
			entry.Slug = v.slug
			if object := Slugify(step); object != "" {
				entry.Slug += "-" + object
			}
			return entry
		}
	}

	if slug := Slugify(lower); slug != "" {
		words := strings.Split(slug, "-")
		if len(words) > maxSlugWords {
			words = words[:maxSlugWords]
		}
		entry.Slug = strings.Join(words, "-")
	}
	return entry
}

// trimVerbEnding removes the polite or plain verb ending from a step.
func trimVerbEnding(step string) string {
	step = strings.TrimSpace(strings.TrimRight(step, "。."))
	for _, suffix := range []string{"します", "する"} {
		if s := strings.TrimSuffix(step, suffix); s != step && s != "" {
			return s
		}
	}
	return step
}
