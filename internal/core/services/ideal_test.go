package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/parasol/internal/core/domain"
)

func TestDeriveStep(t *testing.T) {
	tests := []struct {
		step   string
		slug   string
		name   string
		origin domain.IdealOrigin
	}{
		{"成果物を提出する", "submit-deliverable", "成果物を提出", domain.OriginPattern},
		{"上長の承認を得る", "approve-request", "承認する", domain.OriginPattern},
		{"Send an invoice", "issue-invoice", "請求書を発行", domain.OriginPattern},
		{"顧客情報を登録する", "register", "顧客情報を登録", domain.OriginVerb},
		{"CSVを更新します", "update-csv", "CSVを更新", domain.OriginVerb},
		{"Export the quarterly figures", "export-the-quarterly", "Export the quarterly figures", domain.OriginVerb},
		{"顧客に連絡", "", "顧客に連絡", domain.OriginVerb},
	}
	for _, tt := range tests {
		t.Run(tt.step, func(t *testing.T) {
			got := DeriveStep(tt.step)
			assert.Equal(t, tt.slug, got.Slug)
			assert.Equal(t, tt.name, got.Name)
			assert.Equal(t, tt.origin, got.Origin)
			assert.Equal(t, tt.step, got.Step)
			assert.NotEmpty(t, got.PageName)
		})
	}
}

func TestIdealDeriver_FromProcessFlow(t *testing.T) {
	op := domain.Document{CleanContent: "# 成果物管理\n\n## 業務フロー\n" +
		"1. 成果物を作成する\n2. 成果物を提出する\n3. 承認を得る\n4. 顧客情報を登録する\n"}

	ideal := NewIdealDeriver().Derive(op, nil)

	require.Len(t, ideal, 3, "repeated patterns collapse")
	assert.Equal(t, "submit-deliverable", ideal[0].Slug)
	assert.Equal(t, "成果物を作成する", ideal[0].Step, "first step of the pattern is kept")
	assert.Equal(t, "approve-request", ideal[1].Slug)
	assert.Equal(t, "register", ideal[2].Slug)
}

func TestIdealDeriver_FromLegacy(t *testing.T) {
	useCases := []domain.Document{
		fileDoc(domain.KindUseCase, "/op/usecases/submit-report.md", "報告を提出"),
		fileDoc(domain.KindUseCase, "/op/usecases/一覧.md", "一覧"),
	}

	ideal := NewIdealDeriver().Derive(domain.Document{CleanContent: "# 概要のみ"}, useCases)

	require.Len(t, ideal, 2)
	assert.Equal(t, domain.IdealUseCase{
		Slug: "submit-report", Name: "報告を提出", PageName: "報告を提出画面", Origin: domain.OriginLegacy,
	}, ideal[0])
	assert.Equal(t, "", ideal[1].Slug)
}

func TestTrimVerbEnding(t *testing.T) {
	assert.Equal(t, "登録", trimVerbEnding("登録する。"))
	assert.Equal(t, "確認", trimVerbEnding("確認します"))
	assert.Equal(t, "する", trimVerbEnding("する"))
}
