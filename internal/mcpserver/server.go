// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the wiki's backlink graph and generators over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/wikiblocks/internal/apperr"
	"github.com/starford/wikiblocks/internal/wikiservice"
)

const contractURI = "wikiblocks://markers"

// Server wraps the MCP server with wiki tools.
type Server struct {
	mcp *server.MCPServer
	svc *wikiservice.Service
}

// New creates a new MCP server with all tools registered.
func New(svc *wikiservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"wikiblocks",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_pages",
		mcp.WithDescription("List every wiki page with its display name and path."),
	), s.listPages)

	s.mcp.AddTool(mcp.NewTool("get_backlinks",
		mcp.WithDescription("List the pages that link to a page. Known page names match case-insensitively."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Page display name (e.g. My Page for My-Page.md)")),
	), s.getBacklinks)

	s.mcp.AddTool(mcp.NewTool("preview_toc",
		mcp.WithDescription("Render a page with a regenerated table of contents without saving it."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Page path relative to the wiki root")),
	), s.previewTOC)

	s.mcp.AddTool(mcp.NewTool("regenerate",
		mcp.WithDescription("Regenerate backlinks and tables of contents across the wiki. "+
			"Read the marker contract first via the "+contractURI+" resource."),
	), s.regenerate)

	s.mcp.AddResource(
		mcp.NewResource(contractURI, "Marker Contract",
			mcp.WithResourceDescription("How pages request generated tables of contents and backlinks."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readContract,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listPages(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pages, err := s.svc.Pages(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	lines := make([]string, 0, len(pages))
	for _, p := range pages {
		lines = append(lines, fmt.Sprintf("%s\t%s", p.Name, p.Path))
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) getBacklinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	detail, err := s.svc.Backlinks(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(detail.Backlinks) == 0 {
		return mcp.NewToolResultText("no backlinks found"), nil
	}
	return mcp.NewToolResultText(strings.Join(detail.Backlinks, "\n")), nil
}

func (s *Server) previewTOC(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, managed, err := s.svc.PreviewTOC(ctx, path)
	if errors.Is(err, apperr.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !managed {
		return mcp.NewToolResultError(fmt.Sprintf("%s has no __TOC__ placeholder", path)), nil
	}
	return mcp.NewToolResultText(string(content)), nil
}

func (s *Server) regenerate(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reports, err := s.svc.Regenerate(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	summary := make(map[string][]string, len(reports))
	for _, r := range reports {
		summary[string(r.Feature)] = append([]string{}, r.Updated...)
	}
	out, _ := json.MarshalIndent(summary, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readContract(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      contractURI,
			MIMEType: "text/markdown",
			Text:     MarkerContract,
		},
	}, nil
}
