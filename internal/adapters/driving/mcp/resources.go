package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// URIScheme is the custom URI scheme for Parasol resources.
	uriScheme = "parasol://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing published services.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "services",
		Name:        "services",
		Description: "List of all published services",
		MIMEType:    "application/json",
	}, s.handleServicesResource)

	// Template for a service tree.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "services/{serviceId}/tree",
		Name:        "service-tree",
		Description: "Capability, operation and use case tree of a published service",
		MIMEType:    "application/json",
	}, s.handleTreeResource)
}

// handleServicesResource returns a list of all published services.
func (s *Server) handleServicesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Tree == nil {
		return jsonResult(req.Params.URI, "[]"), nil
	}

	services, err := s.ports.Tree.Services(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing services: %w", err)
	}

	type serviceInfo struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		DisplayName string `json:"display_name"`
		URI         string `json:"uri"`
	}

	infos := make([]serviceInfo, len(services))
	for i, svc := range services {
		infos[i] = serviceInfo{
			ID:          svc.ID,
			Name:        svc.Name,
			DisplayName: svc.DisplayName,
			URI:         uriScheme + "services/" + svc.ID + "/tree",
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling services: %w", err)
	}
	return jsonResult(req.Params.URI, string(data)), nil
}

// handleTreeResource returns the tree of a specific service.
func (s *Server) handleTreeResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Tree == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract serviceId from URI: parasol://services/{serviceId}/tree
	serviceID := extractServiceID(req.Params.URI)
	if serviceID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	tree, err := s.ports.Tree.Tree(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("building tree: %w", err)
	}

	data, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling tree: %w", err)
	}
	return jsonResult(req.Params.URI, string(data)), nil
}

func jsonResult(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     text,
		}},
	}
}

// extractServiceID extracts the service ID from a URI like parasol://services/{serviceId}/tree.
func extractServiceID(uri string) string {
	const prefix = uriScheme + "services/"
	const suffix = "/tree"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	id := strings.TrimSuffix(uri, suffix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
