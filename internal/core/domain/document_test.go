package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_IsValid(t *testing.T) {
	for _, k := range []Kind{KindService, KindCapability, KindOperation, KindUseCase, KindPage, KindAPIUsage} {
		assert.True(t, k.IsValid(), k)
	}
	assert.False(t, Kind("readme").IsValid())
}

func TestDocument_Accessors(t *testing.T) {
	doc := Document{
		Path:         "/corpus/services/s/capabilities/c/operations/o/pages/list-page.md",
		ServiceID:    "s",
		CapabilityID: "c",
		OperationID:  "o",
		Metadata:     map[string]string{"pattern": "Workflow"},
	}

	assert.Equal(t, doc.Path, doc.ID())
	assert.Equal(t, "list-page.md", doc.BaseName())
	assert.Equal(t, "s/c/o", doc.OperationKey())
	assert.Equal(t, "Workflow", doc.Meta("pattern"))
	assert.Empty(t, doc.Meta("category"))
	assert.Empty(t, Document{}.Meta("pattern"))
}

func TestScanResult_ByKind(t *testing.T) {
	result := ScanResult{Documents: []Document{
		{Path: "a", Kind: KindService},
		{Path: "b", Kind: KindPage},
		{Path: "c", Kind: KindUseCase},
		{Path: "d", Kind: KindPage},
	}}

	pages := result.ByKind(KindPage)
	assert.Len(t, pages, 2)
	assert.Equal(t, "b", pages[0].Path)

	both := result.ByKind(KindUseCase, KindPage)
	assert.Equal(t, []string{"b", "c", "d"}, []string{both[0].Path, both[1].Path, both[2].Path})
}

func TestOperationRef_Key(t *testing.T) {
	ref := OperationRef{ServiceID: "s", CapabilityID: "c", OperationID: "o"}
	assert.Equal(t, "s/c/o", ref.Key())
}

func TestLayer(t *testing.T) {
	assert.Equal(t, 1, LayerUseCase.Phase())
	assert.Equal(t, 2, LayerOperation.Phase())
	assert.Equal(t, 3, LayerGlobal.Phase())
	assert.Zero(t, Layer("other").Phase())
	assert.False(t, Layer("other").IsValid())
	assert.Equal(t, "global", LayerGlobal.String())
}

func TestClassificationResult_IsLowConfidence(t *testing.T) {
	assert.True(t, ClassificationResult{Confidence: 0.6}.IsLowConfidence())
	assert.False(t, ClassificationResult{Confidence: 0.7}.IsLowConfidence())
}

func TestNewDuplicateCluster(t *testing.T) {
	_, err := NewDuplicateCluster("承認", KindPage, []Document{{Path: "a"}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	cluster, err := NewDuplicateCluster("承認", KindPage, []Document{
		{Path: "a", ServiceID: "s", CapabilityID: "c", OperationID: "o1"},
		{Path: "b", ServiceID: "s", CapabilityID: "c", OperationID: "o2"},
		{Path: "c", ServiceID: "s", CapabilityID: "c", OperationID: "o1"},
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{"s/c/o1", "s/c/o2"}, cluster.Operations())

	analysis := SharingAnalysis{SharedCandidates: []DuplicateCluster{cluster}}
	assert.Equal(t, 3, analysis.DuplicateDocuments())
}

func TestScope_Contains(t *testing.T) {
	doc := Document{ServiceID: "s", CapabilityID: "c", OperationID: "o"}

	assert.True(t, Scope{}.Contains(doc))
	assert.True(t, Scope{ServiceID: "s", CapabilityID: "c"}.Contains(doc))
	assert.False(t, Scope{ServiceID: "x"}.Contains(doc))
	assert.False(t, Scope{ServiceID: "s", OperationID: "x"}.Contains(doc))
}
