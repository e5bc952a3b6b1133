package mcpserver

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/wikiblocks/internal/block"
	"github.com/starford/wikiblocks/internal/generator"
	"github.com/starford/wikiblocks/internal/testutil"
	"github.com/starford/wikiblocks/internal/wikiservice"
)

func testServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir, store, _ := testutil.TestWiki(t, map[string]string{
		"Home.md":    "# Home\n__TOC__\n[[my page]]\n",
		"My-Page.md": "# My Page\n__BACKLINKS__\n",
		"Plain.md":   "# Plain\n",
	})
	db := testutil.TestDB(t)
	runner := generator.New(store, generator.WithSkipUnchanged(true))
	svc := wikiservice.NewService(store, runner, db, slog.New(slog.DiscardHandler))
	return New(svc, "test"), dir
}

func callTool(t *testing.T, srv *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" helper; call the handlers.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_pages":
		result, err = srv.listPages(ctx, req)
	case "get_backlinks":
		result, err = srv.getBacklinks(ctx, req)
	case "preview_toc":
		result, err = srv.previewTOC(ctx, req)
	case "regenerate":
		result, err = srv.regenerate(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestRegenerateThenBacklinks(t *testing.T) {
	srv, dir := testServer(t)

	r := callTool(t, srv, "regenerate", map[string]any{})
	if r.IsError {
		t.Fatalf("regenerate failed: %s", resultText(r))
	}
	if !strings.Contains(resultText(r), "My-Page.md") {
		t.Errorf("summary = %s", resultText(r))
	}
	if got := testutil.ReadFile(t, dir, "My-Page.md"); !strings.Contains(got, "- [[Home]]\n") {
		t.Errorf("My-Page.md:\n%s", got)
	}

	r = callTool(t, srv, "get_backlinks", map[string]any{"name": "MY page"})
	if text := resultText(r); text != "Home" {
		t.Errorf("backlinks = %q, want Home", text)
	}
}

func TestGetBacklinks_None(t *testing.T) {
	srv, _ := testServer(t)
	callTool(t, srv, "regenerate", map[string]any{})
	r := callTool(t, srv, "get_backlinks", map[string]any{"name": "Plain"})
	if text := resultText(r); text != "no backlinks found" {
		t.Errorf("text = %q", text)
	}
}

func TestGetBacklinks_MissingArg(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "get_backlinks", map[string]any{})
	if !r.IsError {
		t.Error("expected error without name")
	}
}

func TestListPages(t *testing.T) {
	srv, _ := testServer(t)
	callTool(t, srv, "regenerate", map[string]any{})
	text := resultText(callTool(t, srv, "list_pages", map[string]any{}))
	if !strings.Contains(text, "My Page\tMy-Page.md") || strings.Count(text, "\n") != 2 {
		t.Errorf("list = %q", text)
	}
}

func TestPreviewTOC(t *testing.T) {
	srv, dir := testServer(t)
	r := callTool(t, srv, "preview_toc", map[string]any{"path": "Home.md"})
	if r.IsError || !strings.Contains(resultText(r), "- [Home](#home)") {
		t.Errorf("preview = %q", resultText(r))
	}
	if got := testutil.ReadFile(t, dir, "Home.md"); !strings.Contains(got, "__TOC__") {
		t.Error("preview must not write")
	}

	if r := callTool(t, srv, "preview_toc", map[string]any{"path": "Plain.md"}); !r.IsError {
		t.Error("expected error for page without placeholder")
	}
	if r := callTool(t, srv, "preview_toc", map[string]any{"path": "nope.md"}); !r.IsError {
		t.Error("expected error for missing page")
	}
}

func TestContractMatchesRenderedComments(t *testing.T) {
	for _, m := range []block.Markers{block.TOC, block.Backlinks} {
		for _, s := range []string{m.Start, m.End, m.Placeholder, m.Comment} {
			if !strings.Contains(MarkerContract, s) {
				t.Errorf("contract is missing %q", s)
			}
		}
	}
}
