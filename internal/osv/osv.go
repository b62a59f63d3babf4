// Package osv looks up known vulnerabilities for (library, version) pairs
// against an OSV-compatible vulnerability database. It is a consumer of the
// database, never a mirror: lookups are single-shot queries with no caching.
package osv

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/minhtn89/jshound/internal/fingerprint"
	"go.uber.org/zap"
)

// DefaultBaseURL is the public OSV API endpoint.
const DefaultBaseURL = "https://api.osv.dev"

// Ecosystem tags every query; recognized libraries are all npm packages.
const Ecosystem = "npm"

// Vulnerability is one advisory, normalized regardless of source schema.
type Vulnerability struct {
	ID          string `json:"id"`
	Summary     string `json:"summary,omitempty"`
	AdvisoryURL string `json:"advisory_url,omitempty"`
}

type queryRequest struct {
	Version string       `json:"version"`
	Package queryPackage `json:"package"`
}

type queryPackage struct {
	Name      string `json:"name"`
	Ecosystem string `json:"ecosystem"`
}

type queryResponse struct {
	Vulns []struct {
		ID      string `json:"id"`
		Summary string `json:"summary"`
	} `json:"vulns"`
}

// Client queries an OSV-compatible vulnerability database.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

// NewClient creates an OSV client. baseURL falls back to DefaultBaseURL and
// timeout to 10s when zero values are passed.
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

// Query returns known vulnerabilities for the library at version. Unknown
// or incomplete inputs are never sent upstream: when library is empty or
// "unknown", or version is empty, Query returns nil immediately with no
// network I/O. Transport failures and non-2xx responses also return nil;
// the error lets the caller record that the lookup failed rather than
// concluded "no vulnerabilities".
func (c *Client) Query(ctx context.Context, library, version string) ([]Vulnerability, error) {
	library = strings.TrimSpace(library)
	if library == "" || library == fingerprint.LibraryUnknown || version == "" {
		return nil, nil
	}

	payload, err := json.Marshal(queryRequest{
		Version: version,
		Package: queryPackage{Name: strings.ToLower(library), Ecosystem: Ecosystem},
	})
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/query", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query vulnerability database: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("vulnerability database returned status %d", resp.StatusCode)
	}

	var decoded queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	// An absent vulns field means "no known vulnerabilities".
	vulns := make([]Vulnerability, 0, len(decoded.Vulns))
	for _, v := range decoded.Vulns {
		vulns = append(vulns, Vulnerability{
			ID:          v.ID,
			Summary:     v.Summary,
			AdvisoryURL: "https://osv.dev/vulnerability/" + v.ID,
		})
	}

	c.logger.Debugw("vulnerability lookup complete", "library", library, "version", version, "vulns", len(vulns))
	return vulns, nil
}
