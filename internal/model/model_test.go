package model

import (
	"errors"
	"testing"
)

func TestParseWebURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{name: "https", raw: "https://example.com", want: "https://example.com"},
		{name: "http with port and query", raw: "http://localhost:8080/a?b=c", want: "http://localhost:8080/a?b=c"},
		{name: "surrounding space", raw: "  https://go.dev  ", want: "https://go.dev"},
		{name: "upper case scheme", raw: "HTTPS://example.com", want: "https://example.com"},
		{name: "relative", raw: "not-a-url", wantErr: ErrNotWebURL},
		{name: "ftp", raw: "ftp://example.com/file", wantErr: ErrNotWebURL},
		{name: "mailto", raw: "mailto:me@example.com", wantErr: ErrNotWebURL},
		{name: "no host", raw: "https:///path", wantErr: ErrNotWebURL},
		{name: "empty", raw: "", wantErr: ErrNotWebURL},
		{name: "bad escape", raw: "http://%zz", wantErr: ErrInvalidURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := ParseWebURL(tt.raw)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseWebURL(%q) error = %v, want %v", tt.raw, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseWebURL(%q) unexpected error: %v", tt.raw, err)
			}
			if got := u.String(); got != tt.want {
				t.Errorf("ParseWebURL(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNewBookmark(t *testing.T) {
	d, err := NewBookmark(NewBookmarkParams{Title: "  Go  ", URL: "https://go.dev"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.IsBookmark() || d.IsFolder() {
		t.Errorf("expected bookmark kind, got %v", d.Kind)
	}
	if d.Title != "Go" {
		t.Errorf("Title = %q, want %q", d.Title, "Go")
	}

	d, err = NewBookmark(NewBookmarkParams{URL: "https://go.dev/doc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Title != "https://go.dev/doc" {
		t.Errorf("empty title should default to the url, got %q", d.Title)
	}

	if _, err := NewBookmark(NewBookmarkParams{Title: "x", URL: "example.com"}); !errors.Is(err, ErrNotWebURL) {
		t.Errorf("expected ErrNotWebURL, got %v", err)
	}
}

func TestNewFolder(t *testing.T) {
	f := NewFolder(NewFolderParams{Title: "Work"})
	if !f.IsFolder() {
		t.Fatal("expected folder kind")
	}
	if f.IsOpen || f.IsToolbar {
		t.Errorf("new folder should be closed and not a toolbar: %+v", f)
	}
}

func TestHost(t *testing.T) {
	if got := Host("https://sub.example.com:8443/x"); got != "sub.example.com:8443" {
		t.Errorf("Host() = %q", got)
	}
	if got := Host("http://%zz"); got != "" {
		t.Errorf("Host() on bad url = %q, want empty", got)
	}
}

func TestParseNodeID(t *testing.T) {
	id, err := ParseNodeID("42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 42 || id.String() != "42" {
		t.Errorf("got %v", id)
	}

	if _, err := ParseNodeID("0"); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("expected ErrNodeNotFound for 0, got %v", err)
	}
	if _, err := ParseNodeID("abc"); err == nil {
		t.Error("expected error for non-numeric id")
	}
}

func TestNodeError(t *testing.T) {
	err := Errf(ErrCannotMoveRoot, 1)
	if !errors.Is(err, ErrCannotMoveRoot) {
		t.Errorf("errors.Is failed for %v", err)
	}
	var ne *NodeError
	if !errors.As(err, &ne) || ne.ID != 1 {
		t.Errorf("errors.As failed for %v", err)
	}
	if err.Error() != "cannot move root: 1" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestPositionString(t *testing.T) {
	tests := []struct {
		pos  Position
		want string
	}{
		{End(3), "end(3)"},
		{FirstChild(3), "first-child(3)"},
		{Before(4), "before(4)"},
		{After(5), "after(5)"},
	}
	for _, tt := range tests {
		if got := tt.pos.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
	if End(1).IsSibling() || !After(1).IsSibling() {
		t.Error("IsSibling mismatch")
	}
}
