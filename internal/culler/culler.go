package culler

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/nikbrunner/bmtree/internal/model"
	"github.com/nikbrunner/bmtree/internal/tree"
)

// Status represents the health status of a URL.
type Status int

const (
	Healthy     Status = iota // 2xx or 3xx response
	Dead                      // 404 or 410 Gone
	Unreachable               // timeout, DNS failure, connection refused, etc.
)

func (s Status) String() string {
	switch s {
	case Healthy:
		return "healthy"
	case Dead:
		return "dead"
	default:
		return "unreachable"
	}
}

// Result holds the check result for a single bookmark.
type Result struct {
	Bookmark   tree.BookmarkEntry
	Status     Status
	StatusCode int    // HTTP status code (0 if connection failed)
	Error      string // Error message for unreachable URLs
}

// ProgressFunc is called after each URL is checked.
// completed is the number of URLs checked so far, total is the total count.
type ProgressFunc func(completed, total int)

// Options tunes CheckURLs.
type Options struct {
	Concurrency int
	Timeout     time.Duration
	// ExcludeDomains lists domains where 404s are treated as "possibly
	// private" instead of dead.
	ExcludeDomains []string
	OnProgress     ProgressFunc
	// Client overrides the HTTP client; Timeout is ignored when set.
	Client *http.Client
}

// CheckURLs checks all bookmark URLs concurrently and returns results in the
// order of bookmarks. Bookmarks not yet checked when ctx is done are reported
// as unreachable.
func CheckURLs(ctx context.Context, bookmarks []tree.BookmarkEntry, opts Options) []Result {
	if len(bookmarks) == 0 {
		return nil
	}

	// Suppress noisy HTTP client logging (protocol errors, unsolicited responses, etc.)
	originalOutput := log.Writer()
	log.SetOutput(io.Discard)
	defer log.SetOutput(originalOutput)

	excludeMap := make(map[string]bool)
	for _, domain := range opts.ExcludeDomains {
		excludeMap[strings.ToLower(domain)] = true
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{
			Timeout: opts.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Follow redirects but limit to 10
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		}
	}

	results := make([]Result, len(bookmarks))
	jobs := make(chan int, len(bookmarks))
	var wg sync.WaitGroup

	var progressMu sync.Mutex
	completed := 0

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = checkURL(ctx, client, bookmarks[idx], excludeMap)

				if opts.OnProgress != nil {
					progressMu.Lock()
					completed++
					opts.OnProgress(completed, len(bookmarks))
					progressMu.Unlock()
				}
			}
		}()
	}

	for i := range bookmarks {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// checkURL checks a single URL and returns the result.
func checkURL(ctx context.Context, client *http.Client, bookmark tree.BookmarkEntry, excludeMap map[string]bool) Result {
	result := Result{
		Bookmark: bookmark,
	}
	if err := ctx.Err(); err != nil {
		result.Status = Unreachable
		result.Error = "Cancelled"
		return result
	}

	// Try HEAD first (faster, less bandwidth)
	resp, err := do(ctx, client, http.MethodHead, bookmark.URL)
	if err != nil {
		// HEAD failed, try GET as fallback (some servers don't support HEAD)
		resp, err = do(ctx, client, http.MethodGet, bookmark.URL)
		if err != nil {
			result.Status = Unreachable
			if errors.Is(err, context.Canceled) {
				result.Error = "Cancelled"
			} else {
				result.Error = normalizeError(err.Error())
			}
			return result
		}
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 400:
		result.Status = Healthy
	case resp.StatusCode == 404 || resp.StatusCode == 410:
		// Check if this domain is excluded (e.g., private repos)
		if isExcludedDomain(bookmark.URL, excludeMap) {
			result.Status = Unreachable
			result.Error = "Possibly private (auth required)"
		} else {
			result.Status = Dead
		}
	default:
		// Other errors (500, 403, etc.) - treat as unreachable
		result.Status = Unreachable
		result.Error = http.StatusText(resp.StatusCode)
	}

	return result
}

func do(ctx context.Context, client *http.Client, method, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}
	return client.Do(req)
}

// RemoveDead removes every bookmark reported Dead from t and returns how many
// were removed. Bookmarks that are already gone are skipped.
func RemoveDead(t *tree.Tree, results []Result) (int, error) {
	removed := 0
	for _, r := range results {
		if r.Status != Dead {
			continue
		}
		err := t.RemoveBookmark(r.Bookmark.ID)
		switch {
		case errors.Is(err, model.ErrNodeNotFound):
			continue
		case err != nil:
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// isExcludedDomain checks if the URL's domain is in the exclude list.
func isExcludedDomain(rawURL string, excludeMap map[string]bool) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	if excludeMap[host] {
		return true
	}
	// Check if host ends with excluded domain (e.g., "api.github.com" matches "github.com")
	for domain := range excludeMap {
		if strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// normalizeError simplifies verbose error messages into readable categories.
func normalizeError(errStr string) string {
	lower := strings.ToLower(errStr)

	switch {
	case strings.Contains(lower, "no such host"):
		return "DNS failure"
	case strings.Contains(lower, "context deadline exceeded"),
		strings.Contains(lower, "timeout"):
		return "Timeout"
	case strings.Contains(lower, "connection refused"):
		return "Connection refused"
	case strings.Contains(lower, "certificate"):
		return "TLS/certificate error"
	case strings.Contains(lower, "network is unreachable"):
		return "Network unreachable"
	case strings.Contains(lower, "tls:"):
		return "TLS error"
	default:
		return errStr
	}
}
