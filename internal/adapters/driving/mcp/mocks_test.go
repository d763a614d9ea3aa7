package mcp

import (
	"context"

	"github.com/custodia-labs/parasol/internal/core/domain"
	"github.com/custodia-labs/parasol/internal/core/ports/driving"
)

// mockCorpusService is a mock implementation of driving.CorpusService.
type mockCorpusService struct {
	report *driving.CorpusReport
	plan   *domain.MigrationPlan
	err    error

	gotRoot  string
	gotScope domain.Scope
}

func (m *mockCorpusService) Inspect(
	_ context.Context,
	root string,
	scope domain.Scope,
) (*driving.CorpusReport, error) {
	m.gotRoot = root
	m.gotScope = scope
	return m.report, m.err
}

func (m *mockCorpusService) Plan(_ context.Context, root string) (*domain.MigrationPlan, error) {
	m.gotRoot = root
	return m.plan, m.err
}

// mockTreeService is a mock implementation of driving.TreeService.
type mockTreeService struct {
	services []domain.ServiceRow
	tree     *domain.TreeNode
	err      error

	gotService string
}

func (m *mockTreeService) Services(_ context.Context) ([]domain.ServiceRow, error) {
	return m.services, m.err
}

func (m *mockTreeService) Tree(_ context.Context, serviceID string) (*domain.TreeNode, error) {
	m.gotService = serviceID
	return m.tree, m.err
}
