package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ToolClusterDistances is the name of the clustering tool
const ToolClusterDistances = "cluster_distances"

// RegisterTools registers all distclust MCP tools with the server
func RegisterTools(s *server.MCPServer, h *HandlerSet) {
	if h == nil {
		h = NewHandlerSet(nil)
	}

	s.AddTool(mcp.NewTool(ToolClusterDistances,
		mcp.WithDescription("Cluster labels from pairwise distances (\"label1 label2 distance\" lines) "+
			"with single or complete linkage and a distance cutoff. Returns cluster assignments and summary statistics as JSON."),
		mcp.WithString("path",
			mcp.Description("Distance file or doublestar glob such as runs/**/*.dist. Either path or content is required")),
		mcp.WithString("content",
			mcp.Description("Inline distance lines. Either path or content is required")),
		mcp.WithString("method",
			mcp.Enum("single", "complete"),
			mcp.Description("Linkage method (default: single, or the config file's method)")),
		mcp.WithNumber("cutoff",
			mcp.Description("Distance cutoff, must be greater than 0 (default: the config file's cutoff)")),
		mcp.WithBoolean("strict",
			mcp.Description("Complete linkage: reject distances equal to the cutoff (default: false)")),
		mcp.WithBoolean("early_stop",
			mcp.Description("Single linkage: stop once as many labels are clustered as self-declared; set false for unordered input (default: true)")),
		mcp.WithBoolean("sorted",
			mcp.Description("Sort assignments by cluster id then label (default: true for single, false for complete)")),
		mcp.WithBoolean("include_merges",
			mcp.Description("Include the complete-linkage merge history (default: false)")),
	), h.HandleClusterDistances)
}
