package model

import (
	"fmt"
	"net/url"
	"strings"
)

// NewBookmarkParams holds parameters for creating a new bookmark node.
type NewBookmarkParams struct {
	Title string
	URL   string
}

// NewBookmark validates the URL and returns the node payload.
// An empty title falls back to the URL itself.
func NewBookmark(params NewBookmarkParams) (NodeData, error) {
	u, err := ParseWebURL(params.URL)
	if err != nil {
		return NodeData{}, err
	}

	title := strings.TrimSpace(params.Title)
	if title == "" {
		title = u.String()
	}

	return NodeData{
		Kind:  KindBookmark,
		Title: title,
		URL:   u.String(),
	}, nil
}

// ParseWebURL parses raw as an absolute http(s) URL with a host.
// Parse failures wrap ErrInvalidURL, anything else that is not a web
// address wraps ErrNotWebURL.
func ParseWebURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("%w: %s", ErrNotWebURL, raw)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotWebURL, raw)
	}
	return u, nil
}

// Host returns the host part of a bookmark URL, or "" when it does not parse.
func Host(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}
