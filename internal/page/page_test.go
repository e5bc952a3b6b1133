package page

import (
	"reflect"
	"testing"
)

func TestNameFromPath(t *testing.T) {
	cases := map[string]string{
		"My-Page.md":          "My Page",
		"wiki/sub/Home.md":    "Home",
		"/abs/a-b-c.markdown": "a b c",
		"NoExt":               "NoExt",
	}
	for in, want := range cases {
		if got := NameFromPath(in); got != want {
			t.Errorf("NameFromPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSplitLines(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a\nb\n", []string{"a\n", "b\n"}},
		{"a\nb", []string{"a\n", "b"}},
		{"a\r\nb\r\n", []string{"a\n", "b\n"}},
		{"a\rb\n", []string{"a\n", "b\n"}},
		{"\n\n", []string{"\n", "\n"}},
	}
	for _, c := range cases {
		got := SplitLines([]byte(c.in))
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("SplitLines(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestJoinLinesRoundTrip(t *testing.T) {
	in := "# Title\n\nbody without newline"
	if got := string(JoinLines(SplitLines([]byte(in)))); got != in {
		t.Errorf("round trip = %q, want %q", got, in)
	}
}

func TestNew(t *testing.T) {
	p := New("wiki/Getting-Started.md", []byte("# Intro\n"))
	if p.Name != "Getting Started" {
		t.Errorf("name = %q", p.Name)
	}
	if string(p.Bytes()) != "# Intro\n" {
		t.Errorf("bytes = %q", p.Bytes())
	}
}

func TestText(t *testing.T) {
	if got := Text("__TOC__\r\n"); got != "__TOC__" {
		t.Errorf("Text = %q", got)
	}
}
