package pdftext

import (
	"context"
	"errors"
	"testing"
)

// stubRunner returns canned stdout or an error.
type stubRunner struct {
	out  string
	err  error
	args []string
}

func (s *stubRunner) Run(_ context.Context, _ string, args ...string) ([]byte, []byte, error) {
	s.args = args
	if s.err != nil {
		return nil, []byte("boom"), s.err
	}
	return []byte(s.out), nil, nil
}

func TestExtractTextStats(t *testing.T) {
	tests := []struct {
		name      string
		out       string
		wantPages int
		wantFull  int
		wantLen   int
	}{
		{"single page", "hello world\f", 1, 1, len("hello world")},
		{"two pages one blank", "page one\f   \n\f", 2, 1, len("page one")},
		{"no text at all", "\f\f", 2, 0, 0},
		{"empty output", "", 1, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewExtractor(Config{}, nil).WithRunner(&stubRunner{out: tt.out})
			_, stats, err := e.ExtractText(context.Background(), "/x.pdf")
			if err != nil {
				t.Fatalf("ExtractText: %v", err)
			}
			if stats.PageCount != tt.wantPages {
				t.Errorf("PageCount = %d, want %d", stats.PageCount, tt.wantPages)
			}
			if stats.PagesWithContent != tt.wantFull {
				t.Errorf("PagesWithContent = %d, want %d", stats.PagesWithContent, tt.wantFull)
			}
			if stats.TextLength != tt.wantLen {
				t.Errorf("TextLength = %d, want %d", stats.TextLength, tt.wantLen)
			}
		})
	}
}

func TestExtractTextError(t *testing.T) {
	e := NewExtractor(Config{}, nil).WithRunner(&stubRunner{err: errors.New("exit 1")})
	if _, _, err := e.ExtractText(context.Background(), "/x.pdf"); err == nil {
		t.Fatal("expected error when pdftotext fails")
	}
}

func TestFirstPageTextArgs(t *testing.T) {
	r := &stubRunner{out: "NOTICE TO PROSPECTIVE BIDDERS"}
	e := NewExtractor(Config{}, nil).WithRunner(r)
	text, err := e.FirstPageText(context.Background(), "/x.pdf")
	if err != nil {
		t.Fatalf("FirstPageText: %v", err)
	}
	if text != "NOTICE TO PROSPECTIVE BIDDERS" {
		t.Errorf("unexpected text %q", text)
	}
	// First two args must restrict extraction to page one.
	if len(r.args) < 4 || r.args[0] != "-f" || r.args[1] != "1" || r.args[2] != "-l" || r.args[3] != "1" {
		t.Errorf("expected -f 1 -l 1 page bounds, got %v", r.args)
	}
}
