package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	normaliser := New()
	require.NotNil(t, normaliser)
	assert.IsType(t, &Normaliser{}, normaliser)
}

func TestStripANSI(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no escapes", "# Title", "# Title"},
		{"colour codes", "\x1b[32m# 成果物を提出\x1b[0m", "# 成果物を提出"},
		{"compound codes", "\x1b[1;31mError\x1b[m text", "Error text"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripANSI(tt.input))
		})
	}
}

func TestExtractDisplayName(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		ok      bool
	}{
		{"plain heading", "# 成果物を提出\n\n本文", "成果物を提出", true},
		{"use case prefix full-width colon", "# ユースケース：成果物を提出", "成果物を提出", true},
		{"use case prefix ascii colon", "# ユースケース: 成果物を提出", "成果物を提出", true},
		{"page prefix", "# ページ定義：提出画面", "提出画面", true},
		{"english prefix", "# Use Case: Submit report", "Submit report", true},
		{"first heading wins", "intro\n# First\n# Second", "First", true},
		{"leading whitespace", "   # Indented", "Indented", true},
		{"h2 is not a title", "## Section\ntext", "", false},
		{"no heading", "just text", "", false},
		{"prefix only", "# ユースケース：", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractDisplayName(tt.content)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFallbackName(t *testing.T) {
	assert.Equal(t, "submit-report", FallbackName("/corpus/usecases/submit-report.md"))
	assert.Equal(t, "submit-deliverable", FallbackName("/corpus/usecases/submit-deliverable/usecase.md"))
	assert.Equal(t, "submit-deliverable", FallbackName("/corpus/usecases/submit-deliverable/page.md"))
	assert.Equal(t, "readme", FallbackName("readme"))
}

func TestNormalise(t *testing.T) {
	normaliser := New()

	t.Run("strips escapes before extraction", func(t *testing.T) {
		raw := []byte("\x1b[36m# ユースケース：成果物を提出\x1b[0m\n\n- **パターン**: Workflow\n")
		n := normaliser.Normalise("/ops/deliver/usecases/submit.md", raw)

		assert.Equal(t, string(raw), n.Raw)
		assert.NotContains(t, n.Clean, "\x1b")
		assert.Equal(t, "成果物を提出", n.DisplayName)
		assert.False(t, n.Degraded)
		assert.Equal(t, "Workflow", n.Metadata["pattern"])
	})

	t.Run("falls back to filename without heading", func(t *testing.T) {
		n := normaliser.Normalise("/ops/deliver/pages/report-page.md", []byte("no heading here"))

		assert.Equal(t, "report-page", n.DisplayName)
		assert.True(t, n.Degraded)
	})

	t.Run("identical input gives identical output", func(t *testing.T) {
		raw := []byte("# 同じ\n**カテゴリ**: core")
		a := normaliser.Normalise("/a/page.md", raw)
		b := normaliser.Normalise("/a/page.md", raw)
		assert.Equal(t, a, b)
	})
}

func TestExtractMetadata(t *testing.T) {
	content := "# 案件管理\n\n" +
		"- **パターン**: Workflow\n" +
		"- **ロール**: PM、コンサルタント\n" +
		"カテゴリ: core\n" +
		"**Owner Team**: delivery\n" +
		"URL: https://example.com\n" +
		"```\n**パターン**: ignored\n```\n" +
		"- **パターン**: second\n"

	meta := ExtractMetadata(content)

	assert.Equal(t, "Workflow", meta["pattern"])
	assert.Equal(t, "PM、コンサルタント", meta["roles"])
	assert.Equal(t, "core", meta["category"])
	assert.Equal(t, "delivery", meta["owner_team"])
	_, hasURL := meta["url"]
	assert.False(t, hasURL, "unknown plain keys are ignored")
}

func TestExtractMetadata_Empty(t *testing.T) {
	meta := ExtractMetadata("")
	assert.NotNil(t, meta)
	assert.Empty(t, meta)
}

func TestExtractProcessSteps(t *testing.T) {
	content := "# 成果物管理\n\n" +
		"## 概要\n1. not a step\n\n" +
		"## 業務フロー\n" +
		"1. **成果物**を作成する\n" +
		"2) レビューを依頼する\n" +
		"3. [承認](link.md)を得る\n\n" +
		"## 備考\n1. not a step either\n"

	steps := ExtractProcessSteps(content)

	assert.Equal(t, []string{"成果物を作成する", "レビューを依頼する", "承認を得る"}, steps)
}

func TestExtractProcessSteps_English(t *testing.T) {
	content := "# Delivery\n\n## Process Flow\n1. Submit the report\n2. Approve the report\n"
	assert.Equal(t, []string{"Submit the report", "Approve the report"}, ExtractProcessSteps(content))
}

func TestExtractProcessSteps_NoFlow(t *testing.T) {
	assert.Empty(t, ExtractProcessSteps("# Title\n\n1. orphan"))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"PM", "コンサルタント", "経理"}, SplitList("PM、コンサルタント, 経理"))
	assert.Empty(t, SplitList(""))
}

func TestInlinePlain(t *testing.T) {
	assert.Equal(t, "see docs now", InlinePlain("see [docs](x.md) `now`"))
	assert.Equal(t, "bold", InlinePlain("**bold**"))
}
