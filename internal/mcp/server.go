package mcp

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/docnav/internal/library"
	"github.com/standardbeagle/docnav/internal/version"
)

// DefaultMaxResults caps search hits when a request sets no max
const DefaultMaxResults = 50

// Server exposes a library's navigation operations as MCP tools
type Server struct {
	lib              *library.Library
	server           *mcp.Server
	diagnosticLogger *DiagnosticLogger
	maxResults       int
}

// Option configures a Server
type Option func(*Server)

// WithMaxResults sets the search cap used when a request sets no max
func WithMaxResults(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxResults = n
		}
	}
}

// WithLogger replaces the file-backed diagnostic logger
func WithLogger(dl *DiagnosticLogger) Option {
	return func(s *Server) {
		if dl != nil {
			s.diagnosticLogger = dl
		}
	}
}

// NewServer creates an MCP server over lib
func NewServer(lib *library.Library, opts ...Option) (*Server, error) {
	if lib == nil {
		return nil, fmt.Errorf("mcp server requires a library")
	}
	s := &Server{
		lib:        lib,
		maxResults: DefaultMaxResults,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.diagnosticLogger == nil {
		s.diagnosticLogger = NewDiagnosticLogger(true)
	}

	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    "docnav",
		Version: version.Info(),
	}, nil)
	s.registerTools()
	s.diagnosticLogger.Printf("MCP server initialized with %d providers", len(lib.Providers()))
	return s, nil
}

func (s *Server) registerTools() {
	s.server.AddTool(&mcp.Tool{
		Name:        "browse",
		Description: "List the children of a documentation tree node. The path is a comma-joined list of item ids from the root; empty lists the top level.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"path": {
					Type:        "string",
					Description: "Comma-joined ids, e.g. 'platform:graphics,gir:Gtk-3.0'",
				},
			},
		},
	}, s.handleBrowse)

	s.server.AddTool(&mcp.Tool{
		Name:        "lookup",
		Description: "Look up one item by id and report its path from the root",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"id": {
					Type:        "string",
					Description: "Item id, e.g. 'gir:Gtk-3.0.Window'",
				},
			},
			Required: []string{"id"},
		},
	}, s.handleLookup)

	s.server.AddTool(&mcp.Tool{
		Name:        "search",
		Description: "Fuzzy search across every documentation provider",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"query": {
					Type:        "string",
					Description: "Search text",
				},
				"max": {
					Type:        "integer",
					Description: "Maximum results",
				},
				"variants": {
					Type:        "array",
					Description: "Only return these variants (container, category, member, leaf)",
					Items:       &jsonschema.Schema{Type: "string"},
				},
			},
			Required: []string{"query"},
		},
	}, s.handleSearch)

	s.server.AddTool(&mcp.Tool{
		Name:        "extend",
		Description: "Load the detailed metadata of one item",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"id": {
					Type:        "string",
					Description: "Item id",
				},
			},
			Required: []string{"id"},
		},
	}, s.handleExtend)

	s.server.AddTool(&mcp.Tool{
		Name:        "languages",
		Description: "List the programming languages the documentation covers",
		InputSchema: &jsonschema.Schema{Type: "object"},
	}, s.handleLanguages)
}

// recoverFromPanic turns a handler panic or error into an error result
func (s *Server) recoverFromPanic(operation string, handler func() (*mcp.CallToolResult, error)) (result *mcp.CallToolResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.diagnosticLogger.Errorf("PANIC RECOVERED in %s: %v\n%s", operation, r, debug.Stack())
			result, err = createErrorResponse(operation, fmt.Errorf("internal error: %v", r))
		}
	}()

	result, err = handler()
	if err != nil {
		s.diagnosticLogger.Printf("Error in %s: %v", operation, err)
		return createErrorResponse(operation, err)
	}
	return result, nil
}

// Start serves on stdio until ctx ends or the client disconnects
func (s *Server) Start(ctx context.Context) error {
	s.diagnosticLogger.Printf("Starting MCP server with stdio transport")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Close flushes the diagnostic log
func (s *Server) Close() error {
	s.diagnosticLogger.Printf("MCP server shutdown complete")
	return s.diagnosticLogger.Close()
}
