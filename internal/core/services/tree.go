package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/custodia-labs/parasol/internal/core/domain"
	"github.com/custodia-labs/parasol/internal/core/ports/driven"
	"github.com/custodia-labs/parasol/internal/core/ports/driving"
)

// Ensure TreeService implements the interface.
var _ driving.TreeService = (*TreeService)(nil)

// Tree labels.
const (
	uncategorized      = "uncategorized"
	legacyUseCasesDir  = "usecases"
	legacyUIDefsDir    = "ui-definitions"
	apiUsageLabel      = apiUsageFile
	metaContent        = domain.NodeMetaContent
	metaCategory       = "category"
	metaPattern        = "pattern"
	metaRoles          = "roles"
	metaBusinessStates = "businessStates"
)

// BuildTree converts persisted rows into a labeled tree. Capabilities are
// grouped by category in first-seen order and operations are nested under
// their capability. An operation without per-use-case rows shows its legacy
// flat lists instead. Operations whose capability has no row get one
// under "uncategorized".
func BuildTree(service domain.ServiceRow, capabilities []domain.CapabilityRow, operations []domain.OperationRow) *domain.TreeNode {
	root := &domain.TreeNode{
		ID:       "service:" + service.ID,
		Label:    labelOf(service.DisplayName, service.Name, service.ID),
		Type:     domain.NodeService,
		Metadata: map[string]string{metaContent: service.Content},
	}

	categories := make(map[string]*domain.TreeNode)
	category := func(name string) *domain.TreeNode {
		if name == "" {
			name = uncategorized
		}
		if node, ok := categories[name]; ok {
			return node
		}
		node := &domain.TreeNode{ID: root.ID + "/category:" + name, Label: name, Type: domain.NodeCategory}
		categories[name] = node
		root.Children = append(root.Children, node)
		return node
	}

	capNodes := make(map[string]*domain.TreeNode)
	addCapability := func(c domain.CapabilityRow) *domain.TreeNode {
		node := &domain.TreeNode{
			ID:    "capability:" + c.ID,
			Label: labelOf(c.DisplayName, c.Name, c.ID),
			Type:  domain.NodeCapability,
			Metadata: map[string]string{
				metaCategory: c.Category,
				metaContent:  c.Content,
			},
		}
		parent := category(c.Category)
		parent.Children = append(parent.Children, node)
		capNodes[c.ID] = node
		return node
	}
	for _, c := range capabilities {
		if _, dup := capNodes[c.ID]; !dup {
			addCapability(c)
		}
	}

	for _, op := range operations {
		parent, ok := capNodes[op.CapabilityID]
		if !ok {
			parent = addCapability(domain.CapabilityRow{ID: op.CapabilityID, ServiceID: service.ID})
		}
		parent.Children = append(parent.Children, operationNode(op))
	}
	return root
}

func operationNode(op domain.OperationRow) *domain.TreeNode {
	id := "operation:" + op.CapabilityID + "/" + op.ID
	node := &domain.TreeNode{
		ID:    id,
		Label: labelOf(op.DisplayName, op.Name, op.ID),
		Type:  domain.NodeOperation,
		Metadata: map[string]string{
			metaPattern:        op.Pattern,
			metaContent:        op.Content,
			metaRoles:          strings.Join(op.Roles.Values, ", "),
			metaBusinessStates: strings.Join(op.BusinessStates.Values, ", "),
		},
	}

	if len(op.UseCases) > 0 {
		for _, uc := range op.UseCases {
			ucID := id + "/usecase:" + uc.ID
			node.Children = append(node.Children, &domain.TreeNode{
				ID:    ucID,
				Label: labelOf(uc.DisplayName, uc.Name, uc.ID),
				Type:  domain.NodeUseCase,
				Children: []*domain.TreeNode{
					fileNode(ucID, useCaseFile, uc.Content),
					fileNode(ucID, pageFile, uc.PageContent),
					fileNode(ucID, apiUsageLabel, uc.APIUsageContent),
				},
			})
		}
		return node
	}

	if len(op.LegacyUseCases) > 0 {
		node.Children = append(node.Children, legacyFolder(id, legacyUseCasesDir, op.LegacyUseCases))
	}
	if len(op.LegacyUIDefinitions) > 0 {
		node.Children = append(node.Children, legacyFolder(id, legacyUIDefsDir, op.LegacyUIDefinitions))
	}
	return node
}

func legacyFolder(parentID, name string, items []domain.LegacyItem) *domain.TreeNode {
	folder := &domain.TreeNode{ID: parentID + "/" + name, Label: name, Type: domain.NodeFolder}
	for i, item := range items {
		label := item.Name
		if label == "" {
			label = name
		}
		file := fileNode(folder.ID, label, item.Content)
		file.ID += "#" + strconv.Itoa(i)
		folder.Children = append(folder.Children, file)
	}
	return folder
}

func fileNode(parentID, name, content string) *domain.TreeNode {
	return &domain.TreeNode{
		ID:       parentID + "/" + name,
		Label:    name,
		Type:     domain.NodeFile,
		Metadata: map[string]string{metaContent: content},
	}
}

// labelOf returns the first non-empty value.
func labelOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// TreeService serves trees built from the record store.
type TreeService struct {
	reader driven.RecordReader
}

// NewTreeService creates a tree service.
func NewTreeService(reader driven.RecordReader) *TreeService {
	return &TreeService{reader: reader}
}

// Services lists the persisted services.
func (s *TreeService) Services(ctx context.Context) ([]domain.ServiceRow, error) {
	return s.reader.ListServices(ctx)
}

// Tree builds the tree of one service.
func (s *TreeService) Tree(ctx context.Context, serviceID string) (*domain.TreeNode, error) {
	service, capabilities, operations, err := s.reader.LoadService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	return BuildTree(*service, capabilities, operations), nil
}
