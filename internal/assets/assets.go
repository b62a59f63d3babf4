// Package assets discovers the client-side JavaScript surface of a host by
// fetching its top-level document and extracting script references. Pages
// are parsed as text, never executed.
package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/minhtn89/jshound/internal/shared/constants"
	"go.uber.org/zap"
)

var scriptSrcPattern = regexp.MustCompile(`(?i)<script[^>]+src=["']([^"']+)["']`)

// Asset is a JavaScript resource referenced by a scanned page, attributed to
// the subdomain that served the page. URL is always absolute. The same CDN
// asset may appear once per referencing host; risk is reported per serving
// context.
type Asset struct {
	Subdomain string `json:"subdomain"`
	URL       string `json:"url"`
}

// Discoverer fetches a host's root document and enumerates its external
// script references in document order.
type Discoverer struct {
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

// NewDiscoverer creates an asset discoverer. timeout falls back to
// constants.DefaultProbeTimeout when zero.
func NewDiscoverer(timeout time.Duration, logger *zap.SugaredLogger) *Discoverer {
	if timeout <= 0 {
		timeout = constants.DefaultProbeTimeout
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Discoverer{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Discover fetches pageURL and returns every <script src> reference
// resolved to absolute form, in discovery order. Each asset is attributed to
// pageURL's hostname. Sources that fail to resolve are dropped silently.
// Fetch failures (network error, non-2xx, timeout) are returned for the
// caller to treat as non-fatal.
func (d *Discoverer) Discover(ctx context.Context, pageURL string) ([]Asset, error) {
	parsed, err := url.Parse(strings.TrimSpace(pageURL))
	if err != nil || parsed.Hostname() == "" {
		return nil, fmt.Errorf("invalid page url %q", pageURL)
	}
	subdomain := strings.ToLower(parsed.Hostname())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("fetch %s: unexpected status %d", pageURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, constants.MaxPageBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", pageURL, err)
	}

	// Redirects may have moved us; resolve relative srcs against the page we
	// actually landed on.
	base := resp.Request.URL
	scripts := ExtractScripts(string(body), base)

	found := make([]Asset, 0, len(scripts))
	for _, s := range scripts {
		found = append(found, Asset{Subdomain: subdomain, URL: s})
	}
	d.logger.Debugw("asset discovery complete", "subdomain", subdomain, "assets", len(found))
	return found, nil
}

// ExtractScripts returns the absolute URLs of all script src references in
// body, in document order. One entry per reference; duplicates are kept so
// each serving context is reported.
func ExtractScripts(body string, base *url.URL) []string {
	if body == "" || base == nil {
		return nil
	}

	matches := scriptSrcPattern.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		return nil
	}

	scripts := make([]string, 0, len(matches))
	for _, match := range matches {
		if len(match) < 2 {
			continue
		}
		src := strings.TrimSpace(match[1])
		if src == "" {
			continue
		}
		resolved, err := resolveScriptURL(src, base)
		if err != nil || resolved == "" {
			continue
		}
		scripts = append(scripts, resolved)
	}
	return scripts
}

func resolveScriptURL(src string, base *url.URL) (string, error) {
	if strings.HasPrefix(src, "//") {
		return base.Scheme + ":" + src, nil
	}
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return src, nil
	}
	if strings.HasPrefix(src, "data:") {
		return "", nil
	}
	resolved, err := base.Parse(src)
	if err != nil {
		return "", err
	}
	return resolved.String(), nil
}
