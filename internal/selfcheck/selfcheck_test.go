package selfcheck

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestTOCChecksPass(t *testing.T) {
	var buf bytes.Buffer
	if err := Run(&buf, TOCChecks()); err != nil {
		t.Fatalf("Run: %v\n%s", err, buf.String())
	}
	if !strings.HasSuffix(buf.String(), "All 4 checks passed.\n") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestBacklinksChecksPass(t *testing.T) {
	var buf bytes.Buffer
	if err := Run(&buf, BacklinksChecks()); err != nil {
		t.Fatalf("Run: %v\n%s", err, buf.String())
	}
}

func TestRunReportsFailures(t *testing.T) {
	checks := []Check{
		{"good", func() error { return nil }},
		{"bad", func() error { return errors.New("boom") }},
	}
	var buf bytes.Buffer
	err := Run(&buf, checks)
	if !errors.Is(err, ErrFailed) {
		t.Fatalf("err = %v, want ErrFailed", err)
	}
	if !strings.Contains(buf.String(), "FAIL bad: boom\n") || !strings.Contains(buf.String(), "ok   good\n") {
		t.Errorf("output = %q", buf.String())
	}
}
