// Package fingerprint classifies JavaScript assets into third-party library
// identities and versions using URL hints, content hints, and explicit
// version markers. "unknown" is a valid terminal result, not an error.
package fingerprint

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/minhtn89/jshound/internal/shared/constants"
	"go.uber.org/zap"
)

// Recognized library identifiers. Unmatched assets classify as
// LibraryUnknown.
const (
	LibraryJQueryUI   = "jquery-ui"
	LibraryJQuery     = "jquery"
	LibraryReactDOM   = "react-dom"
	LibraryReact      = "react"
	LibraryVue        = "vue"
	LibraryAngular    = "angular"
	LibraryUnderscore = "underscore"
	LibraryUnknown    = "unknown"
)

// Fingerprint is the (library, version) identity inferred for an asset.
// Version is empty when no version could be resolved.
type Fingerprint struct {
	Library string `json:"library"`
	Version string `json:"version,omitempty"`
}

// Unknown is the terminal result for assets that could not be classified or
// fetched.
func Unknown() Fingerprint {
	return Fingerprint{Library: LibraryUnknown}
}

var verParamPattern = regexp.MustCompile(`(?i)[?&]ver=([\d.]+)`)

// rule is one entry of the ordered classification table. Evaluation is
// top-to-bottom, first match wins, so precedence is explicit data rather
// than nested conditionals.
type rule struct {
	library     string
	urlHint     string // substring of the lower-cased asset URL
	contentHint string // case-sensitive substring of the asset body
	versionKey  string // library key for content version extraction
}

var rules = []rule{
	{library: LibraryJQueryUI, urlHint: "jquery/ui", versionKey: LibraryJQuery},
	{library: LibraryJQuery, urlHint: "jquery", contentHint: "jQuery", versionKey: LibraryJQuery},
	{library: LibraryReactDOM, urlHint: "react-dom", contentHint: "react-dom", versionKey: LibraryReact},
	{library: LibraryReact, urlHint: "react", contentHint: "React", versionKey: LibraryReact},
	{library: LibraryVue, contentHint: "Vue", versionKey: LibraryVue},
	{library: LibraryAngular, contentHint: "angular", versionKey: LibraryAngular},
	{library: LibraryUnderscore, contentHint: "underscore", versionKey: LibraryUnderscore},
}

func (r rule) matches(urlLower, content string) bool {
	if r.urlHint != "" && strings.Contains(urlLower, r.urlHint) {
		return true
	}
	return r.contentHint != "" && strings.Contains(content, r.contentHint)
}

// Classify applies the ordered rule table to an asset's URL and content.
// Version precedence: a numeric-dotted ver= query parameter on the URL wins
// over content-embedded markers. Pure function; no I/O.
func Classify(assetURL, content string) Fingerprint {
	urlLower := strings.ToLower(assetURL)

	for _, r := range rules {
		if !r.matches(urlLower, content) {
			continue
		}
		fp := Fingerprint{Library: r.library}
		if m := verParamPattern.FindStringSubmatch(assetURL); m != nil {
			fp.Version = m[1]
		} else {
			fp.Version = ExtractVersion(content, r.versionKey)
		}
		return fp
	}
	return Unknown()
}

// Fingerprinter fetches asset bodies and classifies them. One unreachable
// asset must never abort a scan, so fetch failures degrade to Unknown.
type Fingerprinter struct {
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

// NewFingerprinter creates a fingerprinter. timeout falls back to
// constants.DefaultProbeTimeout when zero.
func NewFingerprinter(timeout time.Duration, logger *zap.SugaredLogger) *Fingerprinter {
	if timeout <= 0 {
		timeout = constants.DefaultProbeTimeout
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Fingerprinter{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Fingerprint fetches assetURL and classifies it. On any fetch failure the
// asset classifies as Unknown; the failure is logged, never propagated.
func (f *Fingerprinter) Fingerprint(ctx context.Context, assetURL string) Fingerprint {
	content, err := f.fetch(ctx, assetURL)
	if err != nil {
		f.logger.Warnw("asset fetch failed, classifying as unknown", "url", assetURL, "error", err)
		return Unknown()
	}
	return Classify(assetURL, content)
}

func (f *Fingerprinter) fetch(ctx context.Context, assetURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, constants.MaxScriptBodyBytes))
	if err != nil {
		return "", err
	}
	return string(body), nil
}
