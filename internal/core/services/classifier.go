package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/parasol/internal/core/domain"
	"github.com/custodia-labs/parasol/internal/core/ports/driving"
)

// Ensure Classifier implements the interface.
var _ driving.LayerClassifier = (*Classifier)(nil)

// Classification confidences.
const (
	globalConfidence    = 0.9
	operationConfidence = 0.8
	dedicatedConfidence = 0.9
	defaultConfidence   = 0.6
)

var (
	globalKeywords = []string{
		"ログイン", "ログアウト", "ダッシュボード", "通知", "エラー", "認証",
		"login", "logout", "dashboard", "notification", "error", "authentication",
	}
	operationKeywords = []string{
		"提出", "一覧", "検索", "請求", "コスト", "費用", "承認",
		"submit", "list", "search", "invoice", "cost", "approval",
	}
	dedicatedKeywords = []string{
		"ウィザード", "専用", "固有", "カスタム",
		"wizard", "dedicated", "specific", "custom",
	}
)

// Classifier recommends a sharing layer from keyword rules.
// Rules are checked in order: global, operation, then the use case default.
type Classifier struct{}

// NewClassifier creates a layer classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify returns the recommended layer of one document. The result
// depends only on the document's clean content and display name.
func (c *Classifier) Classify(doc domain.Document) domain.ClassificationResult {
	text := strings.ToLower(doc.DisplayName + "\n" + doc.CleanContent)
	result := domain.ClassificationResult{Document: doc}

	if k, ok := firstKeyword(text, globalKeywords); ok {
		result.RecommendedLayer = domain.LayerGlobal
		result.Confidence = globalConfidence
		result.Reasons = []string{fmt.Sprintf("global keyword %q", k)}
		return result
	}
	if k, ok := firstKeyword(text, operationKeywords); ok {
		result.RecommendedLayer = domain.LayerOperation
		result.Confidence = operationConfidence
		result.Reasons = []string{fmt.Sprintf("operation keyword %q", k)}
		return result
	}

	result.RecommendedLayer = domain.LayerUseCase
	if k, ok := firstKeyword(text, dedicatedKeywords); ok {
		result.Confidence = dedicatedConfidence
		result.Reasons = []string{fmt.Sprintf("dedicated keyword %q", k)}
		return result
	}
	result.Confidence = defaultConfidence
	result.Reasons = []string{"no shared-layer keyword"}
	return result
}

// ClassifyAll classifies the use case and page documents, in input order.
func (c *Classifier) ClassifyAll(docs []domain.Document) []domain.ClassificationResult {
	out := make([]domain.ClassificationResult, 0, len(docs))
	for _, d := range docs {
		if d.Kind != domain.KindUseCase && d.Kind != domain.KindPage {
			continue
		}
		out = append(out, c.Classify(d))
	}
	return out
}
