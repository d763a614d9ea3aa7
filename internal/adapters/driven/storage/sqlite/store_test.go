package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/parasol/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, string) {
	t.Helper()

	tempDir := t.TempDir()
	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})

	return store, tempDir
}

func publishedRecords() []domain.Record {
	roles := domain.NewPayload(domain.PayloadRoles, []string{"PM", "コンサルタント"})
	states := domain.NewPayload(domain.PayloadBusinessStates, []string{"作成中"})
	return []domain.Record{
		{ID: "1", Kind: domain.KindService, ServiceID: "consulting", Name: "consulting", DisplayName: "コンサル", Content: "# コンサル"},
		{ID: "2", Kind: domain.KindCapability, ServiceID: "consulting", CapabilityID: "delivery", Name: "delivery", DisplayName: "納品", Category: "core"},
		{ID: "3", Kind: domain.KindOperation, ServiceID: "consulting", CapabilityID: "delivery", OperationID: "deliver", Name: "deliver", DisplayName: "成果物管理", Pattern: "Workflow", Attributes: []domain.Payload{roles, states}},
		{ID: "4", Kind: domain.KindUseCase, ServiceID: "consulting", CapabilityID: "delivery", OperationID: "deliver", UseCaseID: "submit", SourceType: domain.SourceUseCaseCurrent, Name: "submit", DisplayName: "成果物を提出", Content: "uc"},
		{ID: "5", Kind: domain.KindPage, ServiceID: "consulting", CapabilityID: "delivery", OperationID: "deliver", UseCaseID: "submit", SourceType: domain.SourceUseCaseCurrent, Name: "submit", DisplayName: "提出画面", Content: "page"},
		{ID: "6", Kind: domain.KindAPIUsage, ServiceID: "consulting", CapabilityID: "delivery", OperationID: "deliver", UseCaseID: "submit", Name: "submit", Content: "api"},
		{ID: "7", Kind: domain.KindCapability, ServiceID: "billing", CapabilityID: "invoicing", Name: "invoicing", DisplayName: "請求書"},
	}
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	store, dir := setupTestStore(t)

	assert.Equal(t, filepath.Join(dir, domain.DefaultDatabaseName), store.Path())
	_, err := os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestNewStore_RecordsMigrations(t *testing.T) {
	store, dir := setupTestStore(t)

	var count int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)

	// Reopening applies nothing new
	again, err := NewStore(dir)
	require.NoError(t, err)
	defer again.Close()
	require.NoError(t, again.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestStore_WriteUpsertsByNaturalKey(t *testing.T) {
	ctx := context.Background()
	store, _ := setupTestStore(t)

	rec := domain.Record{ID: "a", Kind: domain.KindService, ServiceID: "svc", Name: "svc", Content: "v1"}
	require.NoError(t, store.Write(ctx, rec))
	rec.ID = "b"
	rec.Content = "v2"
	require.NoError(t, store.Write(ctx, rec))

	records, err := store.Records(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "a", records[0].ID, "first ID is kept")
	assert.Equal(t, "v2", records[0].Content)
}

func TestStore_WriteAssignsMissingID(t *testing.T) {
	ctx := context.Background()
	store, _ := setupTestStore(t)

	require.NoError(t, store.Write(ctx, domain.Record{Kind: domain.KindService, ServiceID: "svc", Name: "svc"}))

	records, err := store.Records(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Len(t, records[0].ID, 36)
}

func TestStore_RoundTripsFields(t *testing.T) {
	ctx := context.Background()
	store, _ := setupTestStore(t)
	updated := time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

	rec := publishedRecords()[2]
	rec.UpdatedAt = updated
	require.NoError(t, store.Write(ctx, rec))

	records, err := store.Records(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	got := records[0]
	assert.Equal(t, rec.Attributes, got.Attributes)
	assert.Equal(t, "Workflow", got.Pattern)
	assert.True(t, updated.Equal(got.UpdatedAt))

	// A record without attributes reads back as nil
	require.NoError(t, store.Write(ctx, publishedRecords()[0]))
	records, err = store.Records(ctx)
	require.NoError(t, err)
	assert.Nil(t, records[1].Attributes)
}

func TestStore_ListServices(t *testing.T) {
	ctx := context.Background()
	store, _ := setupTestStore(t)
	for _, r := range publishedRecords() {
		require.NoError(t, store.Write(ctx, r))
	}

	services, err := store.ListServices(ctx)
	require.NoError(t, err)
	require.Len(t, services, 2)

	assert.Equal(t, "billing", services[0].ID)
	assert.Equal(t, "billing", services[0].DisplayName, "service without its own record is named by ID")
	assert.Equal(t, "consulting", services[1].ID)
	assert.Equal(t, "コンサル", services[1].DisplayName)
	assert.Equal(t, "# コンサル", services[1].Content)
}

func TestStore_ListServices_Empty(t *testing.T) {
	store, _ := setupTestStore(t)

	services, err := store.ListServices(context.Background())
	require.NoError(t, err)
	assert.Empty(t, services)
}

func TestStore_LoadService(t *testing.T) {
	ctx := context.Background()
	store, _ := setupTestStore(t)
	for _, r := range publishedRecords() {
		require.NoError(t, store.Write(ctx, r))
	}

	svc, caps, ops, err := store.LoadService(ctx, "consulting")
	require.NoError(t, err)
	assert.Equal(t, "コンサル", svc.DisplayName)
	require.Len(t, caps, 1)
	assert.Equal(t, "core", caps[0].Category)
	require.Len(t, ops, 1)
	assert.Equal(t, "成果物管理", ops[0].DisplayName)
	assert.Equal(t, []string{"PM", "コンサルタント"}, ops[0].Roles.Values)
	assert.Equal(t, []string{"作成中"}, ops[0].BusinessStates.Values)
	require.Len(t, ops[0].UseCases, 1)
	uc := ops[0].UseCases[0]
	assert.Equal(t, "成果物を提出", uc.DisplayName)
	assert.Equal(t, "uc", uc.Content)
	assert.Equal(t, "page", uc.PageContent)
	assert.Equal(t, "api", uc.APIUsageContent)
}

func TestStore_LoadService_NotFound(t *testing.T) {
	store, _ := setupTestStore(t)

	_, _, _, err := store.LoadService(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	for _, r := range publishedRecords() {
		require.NoError(t, store.Write(ctx, r))
	}
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	records, err := reopened.Records(ctx)
	require.NoError(t, err)
	require.Len(t, records, 7)
	assert.Equal(t, "1", records[0].ID)
	assert.Equal(t, "7", records[6].ID)
}

func TestStore_Closed(t *testing.T) {
	ctx := context.Background()
	store, _ := setupTestStore(t)
	require.NoError(t, store.Close())

	assert.ErrorIs(t, store.Write(ctx, publishedRecords()[0]), domain.ErrStoreClosed)
	_, err := store.ListServices(ctx)
	assert.ErrorIs(t, err, domain.ErrStoreClosed)
	_, _, _, err = store.LoadService(ctx, "consulting")
	assert.ErrorIs(t, err, domain.ErrStoreClosed)
	_, err = store.Records(ctx)
	assert.ErrorIs(t, err, domain.ErrStoreClosed)
}
