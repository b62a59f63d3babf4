// Package ctlog enumerates subdomains of a root domain from a certificate
// transparency log. It is a passive source: one query per scan, no retries.
package ctlog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the public crt.sh endpoint.
const DefaultBaseURL = "https://crt.sh"

// Client queries a crt.sh-compatible certificate transparency search
// endpoint. The zero value is not usable; construct with NewClient.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

// NewClient creates a CT log client. baseURL falls back to DefaultBaseURL
// and timeout to 10s when zero values are passed.
func NewClient(baseURL string, timeout time.Duration, logger *zap.SugaredLogger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Discover returns the deduplicated set of subdomains observed in
// certificates matching %.<rootDomain>. A single certificate may cover
// multiple names, delivered newline-separated in one name_value field.
// Names are trim/lower normalized and only names containing rootDomain are
// kept. Errors are returned for the caller to treat as non-fatal; the scan
// proceeds with zero subdomains.
func (c *Client) Discover(ctx context.Context, rootDomain string) ([]string, error) {
	rootDomain = strings.ToLower(strings.TrimSpace(rootDomain))
	if rootDomain == "" {
		return nil, fmt.Errorf("empty root domain")
	}

	endpoint := fmt.Sprintf("%s/?q=%%25.%s&output=json", c.baseURL, rootDomain)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query ct log: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("ct log returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read ct log response: %w", err)
	}

	var entries []struct {
		NameValue string `json:"name_value"`
	}
	if err := json.Unmarshal(body, &entries); err != nil {
		// crt.sh serves HTML error pages with a 200 status under load.
		c.logger.Debugw("ct log response was not JSON", "domain", rootDomain, "bytes", len(body))
		return nil, nil
	}

	seen := make(map[string]struct{})
	for _, entry := range entries {
		for _, name := range strings.Split(entry.NameValue, "\n") {
			name = strings.ToLower(strings.TrimSpace(name))
			name = strings.TrimPrefix(name, "*.")
			if name == "" || !strings.Contains(name, rootDomain) {
				continue
			}
			seen[name] = struct{}{}
		}
	}

	subdomains := make([]string, 0, len(seen))
	for name := range seen {
		subdomains = append(subdomains, name)
	}
	sort.Strings(subdomains)

	c.logger.Debugw("ct log discovery complete", "domain", rootDomain, "subdomains", len(subdomains))
	return subdomains, nil
}
