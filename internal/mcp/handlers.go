package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/docnav/internal/provider"
	"github.com/standardbeagle/docnav/internal/tree"
	"github.com/standardbeagle/docnav/internal/types"
)

type BrowseParams struct {
	Path string `json:"path"`
}

type LookupParams struct {
	ID string `json:"id"`
}

type SearchParams struct {
	Query    string   `json:"query"`
	Max      int      `json:"max,omitempty"`
	Variants []string `json:"variants,omitempty"`
}

// decodeParams accepts a missing argument object as all defaults
func decodeParams(req *mcp.CallToolRequest, v interface{}) error {
	if req == nil || req.Params == nil || len(req.Params.Arguments) == 0 {
		return nil
	}
	if err := json.Unmarshal(req.Params.Arguments, v); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	return nil
}

func (s *Server) handleBrowse(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.recoverFromPanic("browse", func() (*mcp.CallToolResult, error) {
		var params BrowseParams
		if err := decodeParams(req, &params); err != nil {
			return nil, err
		}

		path := types.ParsePath(params.Path)
		coll, err := s.lib.Populate(ctx, path)
		if err != nil {
			return nil, err
		}
		items := collectionInfo(coll)
		return createJSONResponse(BrowseResponse{Path: path, Count: len(items), Items: items})
	})
}

func (s *Server) handleLookup(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.recoverFromPanic("lookup", func() (*mcp.CallToolResult, error) {
		it, path, err := s.lookup(ctx, req)
		if err != nil {
			return nil, err
		}
		info := itemInfo(it)
		if !path.IsEmpty() {
			info.Path = &path
		}
		return createJSONResponse(info)
	})
}

func (s *Server) handleExtend(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.recoverFromPanic("extend", func() (*mcp.CallToolResult, error) {
		it, _, err := s.lookup(ctx, req)
		if err != nil {
			return nil, err
		}
		if err := s.lib.ExtendItem(ctx, it); err != nil {
			return nil, err
		}
		return createJSONResponse(itemInfo(it))
	})
}

// lookup places the requested item in the tree, populating down to it
// when the session has not reached it yet
func (s *Server) lookup(ctx context.Context, req *mcp.CallToolRequest) (*tree.Item, types.Path, error) {
	var params LookupParams
	if err := decodeParams(req, &params); err != nil {
		return nil, types.Path{}, err
	}
	id := types.Identifier(strings.TrimSpace(params.ID))
	if id.IsEmpty() {
		return nil, types.Path{}, errors.New("id is required")
	}
	it, path, err := s.lib.Locate(ctx, id)
	if err != nil {
		return nil, types.Path{}, fmt.Errorf("item %s: %w", id, err)
	}
	return it, path, nil
}

func (s *Server) handleSearch(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.recoverFromPanic("search", func() (*mcp.CallToolResult, error) {
		var params SearchParams
		if err := decodeParams(req, &params); err != nil {
			return nil, err
		}
		if strings.TrimSpace(params.Query) == "" {
			return nil, errors.New("query is required")
		}

		criteria := provider.SearchCriteria{Text: params.Query, Limit: params.Max}
		if criteria.Limit <= 0 {
			criteria.Limit = s.maxResults
		}
		for _, name := range params.Variants {
			v, err := types.ParseVariant(name)
			if err != nil {
				return nil, err
			}
			criteria.Variants = append(criteria.Variants, v)
		}

		coll, err := s.lib.Search(ctx, criteria)
		if err != nil {
			return nil, err
		}
		items := collectionInfo(coll)
		return createJSONResponse(SearchResponse{Query: params.Query, Count: len(items), Items: items})
	})
}

func (s *Server) handleLanguages(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.recoverFromPanic("languages", func() (*mcp.CallToolResult, error) {
		langs := s.lib.SupportedLanguages()
		if langs == nil {
			langs = []string{}
		}
		return createJSONResponse(LanguagesResponse{Languages: langs})
	})
}
