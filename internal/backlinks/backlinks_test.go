package backlinks

import (
	"reflect"
	"strings"
	"testing"

	"github.com/starford/wikiblocks/internal/block"
	"github.com/starford/wikiblocks/internal/models"
	"github.com/starford/wikiblocks/internal/page"
)

func pages(files map[string]string) []*page.Page {
	var out []*page.Page
	for path, content := range files {
		out = append(out, page.New(path, []byte(content)))
	}
	return out
}

func paths(ps []*page.Page) []string {
	var out []string
	for _, p := range ps {
		out = append(out, p.Path)
	}
	return out
}

func TestBuildNameMap(t *testing.T) {
	names := BuildNameMap([]string{"wiki/My-Page.md", "Home.md"})
	if names["my page"] != "My Page" {
		t.Errorf("my page -> %q", names["my page"])
	}
	if names["home"] != "Home" {
		t.Errorf("home -> %q", names["home"])
	}
}

func TestBuildNameMap_LastWins(t *testing.T) {
	names := BuildNameMap([]string{"a/Topic.md", "b/topic.md"})
	if names["topic"] != "topic" {
		t.Errorf("topic -> %q, want the later spelling", names["topic"])
	}
}

func TestResolve_CaseInsensitive(t *testing.T) {
	names := BuildNameMap([]string{"My-Page.md"})
	if got := names.Resolve("my page"); got != "My Page" {
		t.Errorf("Resolve = %q, want %q", got, "My Page")
	}
	if got := names.Resolve("MY PAGE"); got != "My Page" {
		t.Errorf("Resolve = %q, want %q", got, "My Page")
	}
}

func TestBuild_CaseInsensitiveResolution(t *testing.T) {
	ps := pages(map[string]string{
		"My-Page.md": "target\n",
		"Other.md":   "see [[my page]]\n",
	})
	g := Build(ps, BuildNameMap(paths(ps)))
	if got := g.Linking("My Page"); !reflect.DeepEqual(got, []string{"Other"}) {
		t.Errorf("Linking(My Page) = %v", got)
	}
	if _, ok := g["my page"]; ok {
		t.Error("graph should not be keyed by the literal lowercase text")
	}
}

func TestBuild_UnresolvedFallback(t *testing.T) {
	ps := pages(map[string]string{"Home.md": "todo: [[Missing Page]] and [[missing page]]\n"})
	g := Build(ps, BuildNameMap(paths(ps)))
	if got := g.Linking("Missing Page"); !reflect.DeepEqual(got, []string{"Home"}) {
		t.Errorf("Linking(Missing Page) = %v", got)
	}
	if got := g.Linking("missing page"); !reflect.DeepEqual(got, []string{"Home"}) {
		t.Errorf("unresolved keys are case-sensitive; Linking(missing page) = %v", got)
	}
}

func TestBuild_SelfLinkAllowed(t *testing.T) {
	ps := pages(map[string]string{"Loop.md": "[[Loop]]\n"})
	g := Build(ps, BuildNameMap(paths(ps)))
	if got := g.Linking("Loop"); !reflect.DeepEqual(got, []string{"Loop"}) {
		t.Errorf("Linking(Loop) = %v", got)
	}
}

func TestBuild_IgnoresRenderedBlock(t *testing.T) {
	ps := pages(map[string]string{
		"B.md": "<!-- backlinks:start -->\n- [[A]]\n<!-- backlinks:end -->\n",
		"A.md": "[[B]]\n",
	})
	g := Build(ps, BuildNameMap(paths(ps)))
	if got := g.Linking("A"); len(got) != 0 {
		t.Errorf("rendered backlinks counted as links: %v", got)
	}
}

func TestBuild_DuplicateLinksCollapse(t *testing.T) {
	ps := pages(map[string]string{"A.md": "[[B]] [[b]] [[x|B]]\n", "B.md": ""})
	g := Build(ps, BuildNameMap(paths(ps)))
	if got := g.Linking("B"); !reflect.DeepEqual(got, []string{"A"}) {
		t.Errorf("Linking(B) = %v", got)
	}
}

func TestSort_CaseInsensitive(t *testing.T) {
	names := []string{"Zebra", "apple", "Banana"}
	Sort(names)
	want := []string{"apple", "Banana", "Zebra"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("Sort = %v, want %v", names, want)
	}
}

func TestRender_SortedEntries(t *testing.T) {
	got := strings.Join(Render([]string{"Zebra", "apple", "Banana"}, Options{}), "")
	want := "<!-- backlinks:start -->\n" +
		block.Backlinks.Comment + "\n\n" +
		"## Backlinks\n\n" +
		"- [[apple]]\n- [[Banana]]\n- [[Zebra]]\n\n" +
		"<!-- backlinks:end -->\n"
	if got != want {
		t.Errorf("Render =\n%s\nwant\n%s", got, want)
	}
}

func TestApply_ForwardReference(t *testing.T) {
	// A links to B; B is listed after A. Both are built before rendering.
	ps := []*page.Page{
		page.New("A.md", []byte("[[B]]\n")),
		page.New("B.md", []byte("# B\n__BACKLINKS__")),
	}
	g := Build(ps, BuildNameMap(paths(ps)))
	out, ok := Apply(ps[1].Lines, ps[1].Name, g, Options{Header: "### Linked from"})
	if !ok {
		t.Fatal("expected block")
	}
	text := string(page.JoinLines(out))
	if !strings.Contains(text, "### Linked from\n\n- [[A]]\n") {
		t.Errorf("unexpected output:\n%s", text)
	}
}

func TestApply_Idempotent(t *testing.T) {
	ps := []*page.Page{
		page.New("A.md", []byte("[[B]]\n__BACKLINKS__\n")),
		page.New("B.md", []byte("[[A]]\n__BACKLINKS__\n")),
	}
	names := BuildNameMap(paths(ps))
	run := func() [][]string {
		g := Build(ps, names)
		var outs [][]string
		for _, p := range ps {
			out, _ := Apply(p.Lines, p.Name, g, Options{})
			outs = append(outs, out)
		}
		return outs
	}
	first := run()
	for i := range ps {
		ps[i].Lines = first[i]
	}
	second := run()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("not idempotent:\n%q\n%q", first, second)
	}
}

func TestApply_EmptySet(t *testing.T) {
	out, ok := Apply([]string{"__BACKLINKS__\n"}, "Lonely", Graph{}, Options{})
	if !ok {
		t.Fatal("expected block")
	}
	if len(out) != 7 {
		t.Errorf("expected empty block of 7 lines, got %q", out)
	}
}

func TestEdges_Sorted(t *testing.T) {
	g := Graph{}
	g.Add("b", "Z")
	g.Add("A", "y")
	g.Add("A", "X")
	want := []models.Link{
		{Source: "X", Target: "A"},
		{Source: "y", Target: "A"},
		{Source: "Z", Target: "b"},
	}
	if got := g.Edges(); !reflect.DeepEqual(got, want) {
		t.Errorf("Edges = %+v, want %+v", got, want)
	}
}
