package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/parasol/internal/core/domain"
)

func sampleRecords() []domain.Record {
	roles := domain.NewPayload(domain.PayloadRoles, []string{"PM"})
	return []domain.Record{
		{ID: "1", Kind: domain.KindService, ServiceID: "consulting", Name: "consulting", DisplayName: "コンサル", Content: "# コンサル"},
		{ID: "2", Kind: domain.KindCapability, ServiceID: "consulting", CapabilityID: "delivery", Name: "delivery", DisplayName: "納品", Category: "core"},
		{ID: "3", Kind: domain.KindOperation, ServiceID: "consulting", CapabilityID: "delivery", OperationID: "deliver", Name: "deliver", DisplayName: "成果物管理", Pattern: "Workflow", Attributes: []domain.Payload{roles}},
		{ID: "4", Kind: domain.KindUseCase, ServiceID: "consulting", CapabilityID: "delivery", OperationID: "deliver", UseCaseID: "submit", SourceType: domain.SourceUseCaseCurrent, Name: "submit", DisplayName: "成果物を提出", Content: "uc"},
		{ID: "5", Kind: domain.KindPage, ServiceID: "consulting", CapabilityID: "delivery", OperationID: "deliver", UseCaseID: "submit", SourceType: domain.SourceUseCaseCurrent, Name: "submit", DisplayName: "提出画面", Content: "page"},
		{ID: "6", Kind: domain.KindAPIUsage, ServiceID: "consulting", CapabilityID: "delivery", OperationID: "deliver", UseCaseID: "submit", Name: "submit", Content: "api"},
		{ID: "7", Kind: domain.KindService, ServiceID: "billing", Name: "billing", DisplayName: "請求"},
	}
}

func TestRecordStore_WriteUpsertsByNaturalKey(t *testing.T) {
	ctx := context.Background()
	store := NewRecordStore()

	rec := domain.Record{ID: "a", Kind: domain.KindService, ServiceID: "svc", Name: "svc", Content: "v1"}
	require.NoError(t, store.Write(ctx, rec))
	rec.ID = "b"
	rec.Content = "v2"
	require.NoError(t, store.Write(ctx, rec))

	records := store.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "a", records[0].ID, "first ID is kept")
	assert.Equal(t, "v2", records[0].Content)
}

func TestRecordStore_FailOn(t *testing.T) {
	store := NewRecordStore()
	rec := domain.Record{Kind: domain.KindService, ServiceID: "svc", Name: "svc"}
	store.FailOn[rec.NaturalKey()] = errors.New("boom")

	assert.EqualError(t, store.Write(context.Background(), rec), "boom")
	assert.Empty(t, store.Records())
}

func TestRecordStore_ListAndLoad(t *testing.T) {
	ctx := context.Background()
	store := NewRecordStore()
	for _, r := range sampleRecords() {
		require.NoError(t, store.Write(ctx, r))
	}

	services, err := store.ListServices(ctx)
	require.NoError(t, err)
	require.Len(t, services, 2)
	assert.Equal(t, "billing", services[0].ID)
	assert.Equal(t, "consulting", services[1].ID)

	svc, caps, ops, err := store.LoadService(ctx, "consulting")
	require.NoError(t, err)
	assert.Equal(t, "コンサル", svc.DisplayName)
	require.Len(t, caps, 1)
	assert.Equal(t, "core", caps[0].Category)
	require.Len(t, ops, 1)
	assert.Equal(t, "Workflow", ops[0].Pattern)
	assert.Equal(t, []string{"PM"}, ops[0].Roles.Values)
	require.Len(t, ops[0].UseCases, 1)
	uc := ops[0].UseCases[0]
	assert.Equal(t, "uc", uc.Content)
	assert.Equal(t, "page", uc.PageContent)
	assert.Equal(t, "api", uc.APIUsageContent)

	_, _, _, err = store.LoadService(ctx, "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestRecordStore_Closed(t *testing.T) {
	ctx := context.Background()
	store := NewRecordStore()
	require.NoError(t, store.Close())

	assert.ErrorIs(t, store.Write(ctx, domain.Record{}), domain.ErrStoreClosed)
	_, err := store.ListServices(ctx)
	assert.ErrorIs(t, err, domain.ErrStoreClosed)
}
