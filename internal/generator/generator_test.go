package generator

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/starford/wikiblocks/internal/backlinks"
	"github.com/starford/wikiblocks/internal/testutil"
	"github.com/starford/wikiblocks/internal/toc"
)

func TestTOC_UpdatesOnlyManagedPages(t *testing.T) {
	dir, store, paths := testutil.TestWiki(t, map[string]string{
		"Guide.md": "# Guide\n__TOC__\n## Install\n",
		"Plain.md": "# Plain\nnothing requested\n",
	})
	var out bytes.Buffer
	r := New(store, WithOutput(&out))

	rep, err := r.TOC(context.Background(), paths)
	if err != nil {
		t.Fatalf("TOC: %v", err)
	}
	if rep.Processed != 2 || len(rep.Updated) != 1 || rep.Updated[0] != "Guide.md" {
		t.Errorf("report = %+v", rep)
	}
	if out.String() != "Updated TOC in Guide.md\n" {
		t.Errorf("output = %q", out.String())
	}
	if got := testutil.ReadFile(t, dir, "Plain.md"); got != "# Plain\nnothing requested\n" {
		t.Errorf("unmanaged page changed: %q", got)
	}
	if got := testutil.ReadFile(t, dir, "Guide.md"); !strings.Contains(got, "- [Guide](#guide)\n    - [Install](#install)\n") {
		t.Errorf("TOC missing:\n%s", got)
	}
}

func TestTOC_SecondRunIsNoOpDiff(t *testing.T) {
	dir, store, paths := testutil.TestWiki(t, map[string]string{
		"A.md": "## One\n__TOC__\n### Two\n",
	})
	r := New(store)
	if _, err := r.TOC(context.Background(), paths); err != nil {
		t.Fatal(err)
	}
	first := testutil.ReadFile(t, dir, "A.md")
	if _, err := r.TOC(context.Background(), paths); err != nil {
		t.Fatal(err)
	}
	if second := testutil.ReadFile(t, dir, "A.md"); second != first {
		t.Errorf("second run changed the file:\n%s\n---\n%s", first, second)
	}
}

func TestBacklinks_TwoPass(t *testing.T) {
	dir, store, paths := testutil.TestWiki(t, map[string]string{
		"Alpha.md":   "links to [[my page]] and [[Beta]]\n",
		"Beta.md":    "__BACKLINKS__\n",
		"My-Page.md": "# My Page\n__BACKLINKS__",
		"zeta.md":    "[[My Page]]\n",
	})
	var out bytes.Buffer
	r := New(store, WithOutput(&out), WithBacklinksOptions(backlinks.Options{Header: "## Linked from"}))

	rep, graph, err := r.Backlinks(context.Background(), paths)
	if err != nil {
		t.Fatalf("Backlinks: %v", err)
	}
	if len(rep.Updated) != 2 {
		t.Errorf("updated = %v", rep.Updated)
	}
	if got := graph.Linking("My Page"); len(got) != 2 || got[0] != "Alpha" || got[1] != "zeta" {
		t.Errorf("Linking(My Page) = %v", got)
	}
	got := testutil.ReadFile(t, dir, "My-Page.md")
	if !strings.Contains(got, "## Linked from\n\n- [[Alpha]]\n- [[zeta]]\n\n<!-- backlinks:end -->\n") {
		t.Errorf("unexpected My-Page.md:\n%s", got)
	}
	if !strings.Contains(out.String(), "Updated backlinks in Beta.md\n") {
		t.Errorf("output = %q", out.String())
	}
}

func TestBacklinks_Idempotent(t *testing.T) {
	dir, store, paths := testutil.TestWiki(t, map[string]string{
		"A.md": "[[B]]\n__BACKLINKS__\n",
		"B.md": "[[A]]\n__BACKLINKS__\n",
	})
	r := New(store)
	ctx := context.Background()
	if _, _, err := r.Backlinks(ctx, paths); err != nil {
		t.Fatal(err)
	}
	a1, b1 := testutil.ReadFile(t, dir, "A.md"), testutil.ReadFile(t, dir, "B.md")
	if _, _, err := r.Backlinks(ctx, paths); err != nil {
		t.Fatal(err)
	}
	if a2 := testutil.ReadFile(t, dir, "A.md"); a2 != a1 {
		t.Errorf("A.md changed:\n%s\n---\n%s", a1, a2)
	}
	if b2 := testutil.ReadFile(t, dir, "B.md"); b2 != b1 {
		t.Errorf("B.md changed:\n%s\n---\n%s", b1, b2)
	}
}

func TestSkipUnchanged(t *testing.T) {
	_, store, paths := testutil.TestWiki(t, map[string]string{"A.md": "# A\n__TOC__\n"})
	var out bytes.Buffer
	r := New(store, WithOutput(&out), WithSkipUnchanged(true))
	ctx := context.Background()

	if rep, _ := r.TOC(ctx, paths); len(rep.Updated) != 1 {
		t.Fatalf("first run should write, got %+v", rep)
	}
	rep, err := r.TOC(ctx, paths)
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Updated) != 0 || len(rep.Unchanged) != 1 {
		t.Errorf("second run report = %+v", rep)
	}
	if strings.Count(out.String(), "Updated") != 1 {
		t.Errorf("output = %q", out.String())
	}
}

func TestMissingFileAborts(t *testing.T) {
	dir, store, paths := testutil.TestWiki(t, map[string]string{"A.md": "__TOC__\n"})
	r := New(store)
	_, err := r.TOC(context.Background(), append(paths, "missing.md"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	// Files before the failure stay written.
	if got := testutil.ReadFile(t, dir, "A.md"); !strings.HasPrefix(got, "<!-- toc:start -->") {
		t.Errorf("A.md = %q", got)
	}

	if _, _, err := r.Backlinks(context.Background(), []string{"missing.md"}); err == nil {
		t.Error("expected error from backlinks")
	}
}

func TestAll_RunsBoth(t *testing.T) {
	dir, store, paths := testutil.TestWiki(t, map[string]string{
		"A.md": "# A\n__TOC__\n[[B]]\n",
		"B.md": "# B\n__BACKLINKS__\n",
	})
	r := New(store, WithTOCOptions(toc.Options{Header: "Contents"}))
	reports, _, err := r.All(context.Background(), paths)
	if err != nil {
		t.Fatal(err)
	}
	if len(reports) != 2 || reports[0].Feature != "backlinks" || reports[1].Feature != "toc" {
		t.Fatalf("reports = %+v", reports)
	}
	if got := testutil.ReadFile(t, dir, "A.md"); !strings.Contains(got, "Contents\n\n- [A](#a)\n") {
		t.Errorf("A.md:\n%s", got)
	}
	if got := testutil.ReadFile(t, dir, "B.md"); !strings.Contains(got, "- [[A]]\n") {
		t.Errorf("B.md:\n%s", got)
	}
}

func TestPreviewTOC_DoesNotWrite(t *testing.T) {
	dir, store, _ := testutil.TestWiki(t, map[string]string{"A.md": "# A\n__TOC__\n"})
	r := New(store)
	content, ok, err := r.PreviewTOC("A.md")
	if err != nil || !ok {
		t.Fatalf("PreviewTOC: ok=%v err=%v", ok, err)
	}
	if !strings.Contains(string(content), "<!-- toc:end -->") {
		t.Errorf("preview = %q", content)
	}
	if got := testutil.ReadFile(t, dir, "A.md"); got != "# A\n__TOC__\n" {
		t.Errorf("file was written: %q", got)
	}
}

func TestCancelledContext(t *testing.T) {
	_, store, paths := testutil.TestWiki(t, map[string]string{"A.md": "__TOC__\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(store).TOC(ctx, paths); err == nil {
		t.Error("expected context error")
	}
}
