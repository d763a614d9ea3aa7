package domain

// ServiceRow is a persisted service.
type ServiceRow struct {
	ID          string
	Name        string
	DisplayName string
	Content     string
}

// CapabilityRow is a persisted capability.
type CapabilityRow struct {
	ID          string
	ServiceID   string
	Name        string
	DisplayName string
	Category    string
	Content     string
}

// UseCaseRow is a persisted use case with its page and API usage content.
type UseCaseRow struct {
	ID              string
	Name            string
	DisplayName     string
	Content         string
	PageContent     string
	APIUsageContent string
}

// LegacyItem is an entry of the flat pre-migration use case and
// UI definition lists.
type LegacyItem struct {
	Name    string
	Content string
}

// OperationRow is a persisted business operation.
type OperationRow struct {
	ID           string
	CapabilityID string
	Name         string
	DisplayName  string
	Pattern      string
	Content      string

	// UseCases is the per-use-case structure. When empty the tree
	// falls back to the legacy flat lists.
	UseCases []UseCaseRow

	LegacyUseCases      []LegacyItem
	LegacyUIDefinitions []LegacyItem

	Roles          Payload
	BusinessStates Payload
}

// NodeType identifies a tree node.
type NodeType string

// Tree node types.
const (
	NodeService    NodeType = "service"
	NodeCategory   NodeType = "category"
	NodeCapability NodeType = "capability"
	NodeOperation  NodeType = "operation"
	NodeFolder     NodeType = "folder"
	NodeUseCase    NodeType = "usecase"
	NodeFile       NodeType = "file"
)

// NodeMetaContent is the metadata key holding a node's markdown.
const NodeMetaContent = "content"

// TreeNode is a labeled node of the rendered corpus tree.
type TreeNode struct {
	ID       string            `json:"id"`
	Label    string            `json:"label"`
	Type     NodeType          `json:"type"`
	Children []*TreeNode       `json:"children,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Walk visits the node and its descendants depth-first.
// Returning false from fn stops descent below that node.
func (n *TreeNode) Walk(fn func(node *TreeNode, depth int) bool) {
	n.walk(fn, 0)
}

func (n *TreeNode) walk(fn func(node *TreeNode, depth int) bool, depth int) {
	if n == nil || !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// Find returns the first descendant (or the node itself) with the given ID.
func (n *TreeNode) Find(id string) *TreeNode {
	var found *TreeNode
	n.Walk(func(node *TreeNode, _ int) bool {
		if found != nil {
			return false
		}
		if node.ID == id {
			found = node
			return false
		}
		return true
	})
	return found
}

// Content returns the markdown attached to the node, if any.
func (n *TreeNode) Content() string {
	if n == nil || n.Metadata == nil {
		return ""
	}
	return n.Metadata[NodeMetaContent]
}

// Count returns the number of nodes in the subtree.
func (n *TreeNode) Count() int {
	count := 0
	n.Walk(func(*TreeNode, int) bool {
		count++
		return true
	})
	return count
}
