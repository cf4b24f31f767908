package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/docnav/internal/display"
	"github.com/standardbeagle/docnav/internal/tree"
	"github.com/standardbeagle/docnav/internal/types"
)

// ItemInfo is the JSON form of one item
type ItemInfo struct {
	*display.Node
	Path        *types.Path       `json:"path,omitempty"`
	HasChildren bool              `json:"has_children"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

func itemInfo(it *tree.Item) ItemInfo {
	return ItemInfo{
		Node:        display.NodeOf(it, 0),
		HasChildren: it.HasChildren(),
		Metadata:    it.MetadataSnapshot(),
	}
}

// BrowseResponse lists the children at a path
type BrowseResponse struct {
	Path  types.Path `json:"path"`
	Count int        `json:"count"`
	Items []ItemInfo `json:"items"`
}

// SearchResponse lists search hits in rank order
type SearchResponse struct {
	Query string     `json:"query"`
	Count int        `json:"count"`
	Items []ItemInfo `json:"items"`
}

// LanguagesResponse lists the languages providers document
type LanguagesResponse struct {
	Languages []string `json:"languages"`
}

func collectionInfo(coll *tree.Collection) []ItemInfo {
	items := coll.Items()
	out := make([]ItemInfo, len(items))
	for i, it := range items {
		out[i] = itemInfo(it)
	}
	return out
}

// createJSONResponse creates a standardized JSON response for MCP tools
func createJSONResponse(data interface{}) (*mcp.CallToolResult, error) {
	content, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response data: %v", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(content)},
		},
	}, nil
}

// createErrorResponse reports a tool failure inside the result so the
// client sees it, with IsError set
func createErrorResponse(operation string, err error) (*mcp.CallToolResult, error) {
	errorData := map[string]interface{}{
		"success":   false,
		"error":     err.Error(),
		"operation": operation,
	}

	response, marshalErr := createJSONResponse(errorData)
	if marshalErr != nil {
		return nil, marshalErr
	}
	response.IsError = true
	return response, nil
}
