// Package scanner orchestrates the asset discovery, fingerprinting, and
// vulnerability correlation pipeline for a root domain. Failure isolation is
// total: an unreachable host or asset degrades its own contribution to
// unknown/empty and never halts the scan.
package scanner

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/minhtn89/jshound/internal/assets"
	"github.com/minhtn89/jshound/internal/ctlog"
	"github.com/minhtn89/jshound/internal/fingerprint"
	"github.com/minhtn89/jshound/internal/osv"
	sharedErrors "github.com/minhtn89/jshound/internal/shared/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// SubdomainSource enumerates the subdomains of a root domain.
type SubdomainSource interface {
	Discover(ctx context.Context, rootDomain string) ([]string, error)
}

// AssetSource enumerates the script assets served by a page.
type AssetSource interface {
	Discover(ctx context.Context, pageURL string) ([]assets.Asset, error)
}

// AssetFingerprinter classifies a script asset by URL.
type AssetFingerprinter interface {
	Fingerprint(ctx context.Context, assetURL string) fingerprint.Fingerprint
}

// VulnerabilitySource maps a (library, version) pair to known advisories.
type VulnerabilitySource interface {
	Query(ctx context.Context, library, version string) ([]osv.Vulnerability, error)
}

// Config captures runtime settings for a scanner.
type Config struct {
	Concurrency  int           // subdomain workers; <=0 means 1
	RateLimit    int           // subdomain probes per second; <=0 means 1
	ProbeTimeout time.Duration // per network probe
	CTLogBaseURL string
	OSVBaseURL   string
}

// Scanner runs scans. Each Scan invocation is an independent instance over
// shared immutable clients; two concurrent scans never share mutable state.
type Scanner struct {
	Subdomains   SubdomainSource
	Assets       AssetSource
	Fingerprints AssetFingerprinter
	Vulns        VulnerabilitySource

	// OnSubdomain, when set, observes each subdomain result as it is
	// appended. Called from worker goroutines; must be safe for concurrent
	// use.
	OnSubdomain func(result SubdomainResult)

	concurrency int
	rateLimit   int
	logger      *zap.SugaredLogger
}

// New wires a scanner from live clients according to cfg.
func New(cfg Config, logger *zap.SugaredLogger) *Scanner {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Scanner{
		Subdomains:   ctlog.NewClient(cfg.CTLogBaseURL, cfg.ProbeTimeout, logger),
		Assets:       assets.NewDiscoverer(cfg.ProbeTimeout, logger),
		Fingerprints: fingerprint.NewFingerprinter(cfg.ProbeTimeout, logger),
		Vulns:        osv.NewClient(cfg.OSVBaseURL, cfg.ProbeTimeout, logger),
		concurrency:  cfg.Concurrency,
		rateLimit:    cfg.RateLimit,
		logger:       logger,
	}
}

// NormalizeDomain lower-cases, trims, and strips a leading www. from a root
// domain so scans keyed by domain land in one place.
func NormalizeDomain(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	return strings.TrimPrefix(domain, "www.")
}

// Scan discovers subdomains of rootDomain, fans out asset discovery,
// fingerprinting, and vulnerability lookups across a bounded worker pool,
// and aggregates everything into an immutable Report. Individual probe
// failures degrade to empty/unknown contributions; the only errors returned
// are an invalid domain or context cancellation, and a cancelled scan still
// returns the report built so far.
func (s *Scanner) Scan(ctx context.Context, rootDomain string) (*Report, error) {
	rootDomain = NormalizeDomain(rootDomain)
	if rootDomain == "" {
		return nil, sharedErrors.ErrEmptyDomain
	}

	started := time.Now().UTC()

	subdomains, err := s.Subdomains.Discover(ctx, rootDomain)
	if err != nil {
		// Non-fatal: the scan proceeds with zero subdomains.
		s.logger.Warnw("subdomain discovery failed", "domain", rootDomain, "error", err)
		subdomains = nil
	}
	s.logger.Infow("scan started", "domain", rootDomain, "subdomains", len(subdomains))

	concurrency := s.concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	rateLimit := s.rateLimit
	if rateLimit <= 0 {
		rateLimit = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rateLimit), rateLimit)

	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex
	results := make([]SubdomainResult, 0, len(subdomains))

	for _, sub := range subdomains {
		wg.Add(1)
		go func(sub string) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			if err := limiter.Wait(ctx); err != nil {
				return
			}

			result := s.scanSubdomain(ctx, sub)

			// Single synchronization point: each subdomain's result is
			// appended once, atomically, with its internal order intact.
			mu.Lock()
			results = append(results, result)
			mu.Unlock()

			if s.OnSubdomain != nil {
				s.OnSubdomain(result)
			}
		}(sub)
	}
	wg.Wait()

	report := Aggregate(rootDomain, results)
	report.StartedAt = started
	report.CompletedAt = time.Now().UTC()

	s.logger.Infow("scan complete",
		"domain", rootDomain,
		"subdomains", len(report.Results),
		"assets", report.TotalAssets,
		"vulnerable", report.VulnerableAssets,
	)

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

func (s *Scanner) scanSubdomain(ctx context.Context, subdomain string) SubdomainResult {
	result := SubdomainResult{Subdomain: subdomain, Findings: []Finding{}}

	found, err := s.Assets.Discover(ctx, "https://"+subdomain)
	if err != nil {
		// Non-fatal: the subdomain contributes zero findings.
		s.logger.Warnw("asset discovery failed", "subdomain", subdomain, "error", err)
		return result
	}

	for _, asset := range found {
		result.Findings = append(result.Findings, s.assess(ctx, asset))
	}
	return result
}

func (s *Scanner) assess(ctx context.Context, asset assets.Asset) Finding {
	fp := s.Fingerprints.Fingerprint(ctx, asset.URL)

	finding := Finding{
		Asset:           asset,
		Fingerprint:     fp,
		Vulnerabilities: []osv.Vulnerability{},
	}

	if fp.Library == fingerprint.LibraryUnknown || fp.Version == "" {
		finding.LookupStatus = LookupSkipped
		return finding
	}

	vulns, err := s.Vulns.Query(ctx, fp.Library, fp.Version)
	if err != nil {
		s.logger.Warnw("vulnerability lookup failed", "url", asset.URL, "library", fp.Library, "error", err)
		finding.LookupStatus = LookupFailed
		return finding
	}

	finding.LookupStatus = LookupOK
	if len(vulns) > 0 {
		finding.Vulnerabilities = vulns
	}
	return finding
}
