package scanner

import (
	"time"

	"github.com/minhtn89/jshound/internal/assets"
	"github.com/minhtn89/jshound/internal/fingerprint"
	"github.com/minhtn89/jshound/internal/osv"
)

// LookupStatus records how the vulnerability lookup for a finding concluded,
// so the report never conflates "queried, nothing known" with "lookup
// failed" or "not queried".
type LookupStatus string

const (
	// LookupOK means the database was queried and answered.
	LookupOK LookupStatus = "ok"
	// LookupFailed means the database could not be reached or errored; the
	// empty vulnerability list must not be read as "confirmed safe".
	LookupFailed LookupStatus = "failed"
	// LookupSkipped means the asset was never queried because it could not
	// be classified or carries no version.
	LookupSkipped LookupStatus = "skipped"
)

// Finding is the full assessment of one discovered asset. Immutable once
// produced.
type Finding struct {
	Asset           assets.Asset            `json:"asset"`
	Fingerprint     fingerprint.Fingerprint `json:"fingerprint"`
	LookupStatus    LookupStatus            `json:"lookup_status"`
	Vulnerabilities []osv.Vulnerability     `json:"vulnerabilities"`
}

// Vulnerable reports whether the finding carries at least one known
// vulnerability.
func (f Finding) Vulnerable() bool {
	return len(f.Vulnerabilities) > 0
}

// SubdomainResult holds one subdomain's findings in asset-discovery order.
type SubdomainResult struct {
	Subdomain string    `json:"subdomain"`
	Findings  []Finding `json:"findings"`
}

// Report is the consolidated outcome of one scan. TotalAssets and
// VulnerableAssets are derived from Results, never independently mutated.
// A report is immutable once returned to the caller.
type Report struct {
	RootDomain       string            `json:"root_domain"`
	StartedAt        time.Time         `json:"started_at"`
	CompletedAt      time.Time         `json:"completed_at"`
	Results          []SubdomainResult `json:"results"`
	TotalAssets      int               `json:"total_assets"`
	VulnerableAssets int               `json:"vulnerable_assets"`
}

// Aggregate reduces a result sequence into a Report, recomputing the derived
// counters. It does not mutate results and is safe to call repeatedly on a
// growing sequence to produce incremental snapshots.
func Aggregate(rootDomain string, results []SubdomainResult) *Report {
	report := &Report{
		RootDomain: rootDomain,
		Results:    append([]SubdomainResult(nil), results...),
	}
	if report.Results == nil {
		report.Results = []SubdomainResult{}
	}
	for _, r := range report.Results {
		for _, f := range r.Findings {
			report.TotalAssets++
			if f.Vulnerable() {
				report.VulnerableAssets++
			}
		}
	}
	return report
}
