package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/parasol/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/parasol/internal/core/domain"
)

func TestNewScanner(t *testing.T) {
	s := NewScanner(memory.NewCorpus(), 0)
	require.NotNil(t, s)
	assert.Equal(t, 1, s.parallelism)
}

func TestScanner_Scan(t *testing.T) {
	s := NewScanner(legacyCorpus(), 4)

	result, err := s.Scan(context.Background(), corpusRoot)
	require.NoError(t, err)

	type row struct {
		rel    string
		kind   domain.Kind
		source domain.SourceType
		name   string
	}
	var got []row
	for _, d := range result.Documents {
		rel, _ := filepath.Rel(corpusRoot, d.Path)
		got = append(got, row{rel, d.Kind, d.SourceType, d.DisplayName})
	}

	ops := "services/consulting/capabilities/delivery/operations/"
	assert.Equal(t, []row{
		{"services/consulting/service.md", domain.KindService, domain.SourceCurrent, "コンサルティング"},
		{"services/consulting/capabilities/delivery/capability.md", domain.KindCapability, domain.SourceCurrent, "納品管理"},
		{ops + "deliver/operation.md", domain.KindOperation, domain.SourceCurrent, "成果物管理"},
		{ops + "deliver/pages/approval-page.md", domain.KindPage, domain.SourceCurrent, "承認画面"},
		{ops + "deliver/pages/submit-deliverable-page.md", domain.KindPage, domain.SourceCurrent, "成果物提出画面"},
		{ops + "deliver/usecases/approve-request.md", domain.KindUseCase, domain.SourceCurrent, "承認"},
		{ops + "deliver/usecases/submit-deliverable.md", domain.KindUseCase, domain.SourceCurrent, "成果物を提出"},
		{ops + "review/operation.md", domain.KindOperation, domain.SourceCurrent, "レビュー"},
		{ops + "review/usecases/review-deliverable/usecase.md", domain.KindUseCase, domain.SourceUseCaseCurrent, "成果物をレビュー"},
		{ops + "review/usecases/review-deliverable/page.md", domain.KindPage, domain.SourceUseCaseCurrent, "レビュー画面"},
	}, got[1:])

	require.Len(t, result.Documents, 11)
	assert.Equal(t, "billing", result.Documents[0].ServiceID, "services are scanned in sorted order")

	require.Len(t, result.Errors, 1)
	assert.Equal(t, "billing", result.Errors[0].ServiceID)
	assert.Contains(t, result.Errors[0].Reason, "capabilities directory not found")
	assert.True(t, errors.Is(result.Errors[0], domain.ErrScanSkip))
}

func TestScanner_Scan_IDsAndMetadata(t *testing.T) {
	s := NewScanner(legacyCorpus(), 1)
	result, err := s.Scan(context.Background(), corpusRoot)
	require.NoError(t, err)

	ops := result.ByKind(domain.KindOperation)
	require.Len(t, ops, 2)
	assert.Equal(t, "consulting", ops[0].ServiceID)
	assert.Equal(t, "delivery", ops[0].CapabilityID)
	assert.Equal(t, "deliver", ops[0].OperationID)
	assert.Equal(t, "Workflow", ops[0].Meta("pattern"))

	var uc domain.Document
	for _, d := range result.ByKind(domain.KindUseCase) {
		if d.SourceType == domain.SourceUseCaseCurrent {
			uc = d
		}
	}
	assert.Equal(t, "review-deliverable", uc.UseCaseID)
}

func TestScanner_Scan_Deterministic(t *testing.T) {
	corpus := legacyCorpus()
	first, err := NewScanner(corpus, 1).Scan(context.Background(), corpusRoot)
	require.NoError(t, err)
	second, err := NewScanner(corpus, 8).Scan(context.Background(), corpusRoot)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestScanner_Scan_StripsEscapes(t *testing.T) {
	c := memory.NewCorpus()
	c.AddFile(filepath.Join(opPath("svc", "cap", "op"), "pages", "a.md"), "\x1b[32m# 一覧画面\x1b[0m\n")

	result, err := NewScanner(c, 1).Scan(context.Background(), corpusRoot)
	require.NoError(t, err)
	require.Len(t, result.Documents, 1)
	assert.Equal(t, "一覧画面", result.Documents[0].DisplayName)
	assert.NotContains(t, result.Documents[0].CleanContent, "\x1b")
}

func TestScanner_Scan_DegradedName(t *testing.T) {
	c := memory.NewCorpus()
	c.AddFile(filepath.Join(opPath("svc", "cap", "op"), "usecases", "list-items.md"), "no heading")

	result, err := NewScanner(c, 1).Scan(context.Background(), corpusRoot)
	require.NoError(t, err)
	require.Len(t, result.Documents, 1)
	assert.Equal(t, "list-items", result.Documents[0].DisplayName)
	assert.True(t, result.Documents[0].Degraded)
	assert.Equal(t, "list-items", result.Documents[0].UseCaseID)
}

func TestScanner_Scan_MissingBranches(t *testing.T) {
	c := memory.NewCorpus()
	c.AddDir(filepath.Join(corpusRoot, "services", "a", "capabilities", "empty"))
	c.AddFile(filepath.Join(opPath("a", "full", "bare"), "operation.md"), "# Bare")
	c.AddFile(filepath.Join(opPath("a", "full", "ok"), "pages", "p.md"), "# P")

	result, err := NewScanner(c, 2).Scan(context.Background(), corpusRoot)
	require.NoError(t, err)

	require.Len(t, result.Errors, 2)
	assert.Equal(t, "empty", result.Errors[0].CapabilityID)
	assert.Contains(t, result.Errors[0].Reason, "operations directory not found")
	assert.Equal(t, "bare", result.Errors[1].OperationID)
	assert.Contains(t, result.Errors[1].Reason, "no pages, usecases or shared-usecases")

	assert.Len(t, result.ByKind(domain.KindPage), 1)
	assert.Len(t, result.ByKind(domain.KindOperation), 1, "descriptor of a skipped operation is still read")
}

func TestScanner_Scan_SharedUseCases(t *testing.T) {
	c := memory.NewCorpus()
	c.AddFile(filepath.Join(opPath("svc", "cap", "op"), "shared-usecases", "notify", "usecase.md"), "# 通知")

	result, err := NewScanner(c, 1).Scan(context.Background(), corpusRoot)
	require.NoError(t, err)
	require.Len(t, result.Documents, 1)
	assert.Equal(t, domain.SourceShared, result.Documents[0].SourceType)
	assert.Equal(t, "notify", result.Documents[0].UseCaseID)
}

func TestScanner_Scan_MissingServicesDir(t *testing.T) {
	c := memory.NewCorpus()
	c.AddDir(corpusRoot)

	result, err := NewScanner(c, 1).Scan(context.Background(), corpusRoot)
	require.NoError(t, err)
	assert.Empty(t, result.Documents)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Reason, "services directory not found")
}

func TestScanner_Scan_MissingRoot(t *testing.T) {
	_, err := NewScanner(memory.NewCorpus(), 1).Scan(context.Background(), "/nowhere")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestScanner_Scan_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewScanner(legacyCorpus(), 1).Scan(ctx, corpusRoot)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestScanner_Operations(t *testing.T) {
	refs, errs := NewScanner(legacyCorpus(), 1).Operations(corpusRoot)
	require.Len(t, refs, 2)
	assert.Equal(t, "consulting/delivery/deliver", refs[0].Key())
	assert.Equal(t, "consulting/delivery/review", refs[1].Key())
	assert.Equal(t, opPath("consulting", "delivery", "deliver"), refs[0].Path)
	require.Len(t, errs, 1)
	assert.Equal(t, "billing", errs[0].ServiceID)
}
