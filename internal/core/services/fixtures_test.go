package services

import (
	"path/filepath"

	"github.com/custodia-labs/parasol/internal/adapters/driven/storage/memory"
)

const corpusRoot = "/corpus"

// opPath returns the directory of an operation in the test corpus.
func opPath(service, capability, operation string) string {
	return filepath.Join(corpusRoot, "services", service, "capabilities", capability, "operations", operation)
}

// legacyCorpus builds a corpus with one legacy operation (deliver) and one
// already one-to-one operation (review), plus a service without capabilities.
func legacyCorpus() *memory.Corpus {
	c := memory.NewCorpus()
	svc := filepath.Join(corpusRoot, "services", "consulting")
	c.AddFile(filepath.Join(svc, "service.md"), "# コンサルティング\n\n**パターン**: Service\n")
	c.AddFile(filepath.Join(svc, "capabilities", "delivery", "capability.md"),
		"# 納品管理\n\n- **カテゴリ**: core\n")

	deliver := opPath("consulting", "delivery", "deliver")
	c.AddFile(filepath.Join(deliver, "operation.md"),
		"# 成果物管理\n\n- **パターン**: Workflow\n- **ロール**: PM、コンサルタント\n- **業務状態**: 作成中、提出済\n\n"+
			"## 業務フロー\n1. 成果物を提出する\n2. 承認を得る\n")
	c.AddFile(filepath.Join(deliver, "pages", "submit-deliverable-page.md"), "# 成果物提出画面\n")
	c.AddFile(filepath.Join(deliver, "pages", "approval-page.md"), "# 承認画面\n")
	c.AddFile(filepath.Join(deliver, "usecases", "submit-deliverable.md"), "# ユースケース：成果物を提出\n")
	c.AddFile(filepath.Join(deliver, "usecases", "approve-request.md"), "# ユースケース：承認\n")

	review := opPath("consulting", "delivery", "review")
	c.AddFile(filepath.Join(review, "operation.md"), "# レビュー\n")
	c.AddFile(filepath.Join(review, "usecases", "review-deliverable", "usecase.md"), "# ユースケース：成果物をレビュー\n")
	c.AddFile(filepath.Join(review, "usecases", "review-deliverable", "page.md"), "# ページ定義：レビュー画面\n")

	c.AddFile(filepath.Join(corpusRoot, "services", "billing", "service.md"), "# 請求\n")
	return c
}
