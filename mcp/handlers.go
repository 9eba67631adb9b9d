package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ludo-technologies/distclust/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

// HandlerSet exposes MCP tool handlers with shared dependencies.
type HandlerSet struct {
	deps *Dependencies
}

// NewHandlerSet constructs a handler set.
func NewHandlerSet(deps *Dependencies) *HandlerSet {
	if deps == nil {
		deps = NewDependencies("", nil)
	}
	return &HandlerSet{deps: deps}
}

// HandleClusterDistances handles the cluster_distances tool
func (h *HandlerSet) HandleClusterDistances(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	req, err := requestFromArgs(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	req.ConfigPath = h.deps.ConfigPath()

	uc, err := h.deps.BuildClusterUseCase()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create clustering use case: %v", err)), nil
	}

	result, err := uc.ClusterAndReturn(ctx, req)
	if err != nil {
		h.deps.Logger().Warn("cluster_distances failed", zap.Error(err))
		return mcp.NewToolResultError(fmt.Sprintf("clustering failed: %v", err)), nil
	}

	jsonData, err := json.Marshal(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// requestFromArgs maps tool arguments onto a request. Parameters left out
// stay zero so the configuration file can supply them.
func requestFromArgs(args map[string]interface{}) (domain.ClusterRequest, error) {
	req := domain.ClusterRequest{OutputFormat: domain.OutputFormatJSON}

	path, hasPath := args["path"].(string)
	content, hasContent := args["content"].(string)
	switch {
	case hasPath && hasContent:
		return req, fmt.Errorf("only one of path or content may be given")
	case hasPath:
		if path == "" || path == domain.StdinPath {
			return req, fmt.Errorf("path must name a file or glob")
		}
		req.Paths = []string{path}
	case hasContent:
		req.Input = strings.NewReader(content)
		req.InputName = "content"
	default:
		return req, fmt.Errorf("path or content parameter is required")
	}

	if raw, ok := args["method"]; ok {
		method, ok := raw.(string)
		if !ok {
			return req, fmt.Errorf("method must be a string")
		}
		req.Method = domain.ClusterMethod(strings.ToLower(method))
	}

	if raw, ok := args["cutoff"]; ok {
		cutoff, ok := raw.(float64)
		if !ok {
			return req, fmt.Errorf("cutoff must be a number")
		}
		if !(cutoff > 0) {
			return req, fmt.Errorf("cutoff must be greater than 0")
		}
		req.Cutoff = cutoff
	}

	var err error
	if req.Strict, err = optionalBool(args, "strict"); err != nil {
		return req, err
	}
	if req.EarlyStop, err = optionalBool(args, "early_stop"); err != nil {
		return req, err
	}
	if req.Sort, err = optionalBool(args, "sorted"); err != nil {
		return req, err
	}
	merges, err := optionalBool(args, "include_merges")
	if err != nil {
		return req, err
	}
	req.ShowMerges = domain.BoolValue(merges, false)

	return req, nil
}

func optionalBool(args map[string]interface{}, key string) (*bool, error) {
	raw, ok := args[key]
	if !ok {
		return nil, nil
	}
	b, ok := raw.(bool)
	if !ok {
		return nil, fmt.Errorf("%s must be a boolean", key)
	}
	return domain.BoolPtr(b), nil
}
