package scanner

import (
	"reflect"
	"testing"

	"github.com/minhtn89/jshound/internal/assets"
	"github.com/minhtn89/jshound/internal/fingerprint"
	"github.com/minhtn89/jshound/internal/osv"
)

func sampleResults() []SubdomainResult {
	return []SubdomainResult{
		{
			Subdomain: "a.example.com",
			Findings: []Finding{
				{
					Asset:        assets.Asset{Subdomain: "a.example.com", URL: "https://a.example.com/jquery.js"},
					Fingerprint:  fingerprint.Fingerprint{Library: fingerprint.LibraryJQuery, Version: "3.4.1"},
					LookupStatus: LookupOK,
					Vulnerabilities: []osv.Vulnerability{
						{ID: "CVE-2019-11358", Summary: "prototype pollution"},
					},
				},
				{
					Asset:           assets.Asset{Subdomain: "a.example.com", URL: "https://a.example.com/app.js"},
					Fingerprint:     fingerprint.Unknown(),
					LookupStatus:    LookupSkipped,
					Vulnerabilities: []osv.Vulnerability{},
				},
			},
		},
		{Subdomain: "b.example.com", Findings: []Finding{}},
	}
}

func TestAggregate_Counts(t *testing.T) {
	report := Aggregate("example.com", sampleResults())
	if report.TotalAssets != 2 {
		t.Errorf("TotalAssets = %d, want 2", report.TotalAssets)
	}
	if report.VulnerableAssets != 1 {
		t.Errorf("VulnerableAssets = %d, want 1", report.VulnerableAssets)
	}
	if report.RootDomain != "example.com" {
		t.Errorf("RootDomain = %s", report.RootDomain)
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	results := sampleResults()
	first := Aggregate("example.com", results)
	second := Aggregate("example.com", results)
	if first.TotalAssets != second.TotalAssets || first.VulnerableAssets != second.VulnerableAssets {
		t.Fatalf("aggregate not idempotent: %d/%d vs %d/%d",
			first.TotalAssets, first.VulnerableAssets, second.TotalAssets, second.VulnerableAssets)
	}
}

func TestAggregate_DoesNotMutateInput(t *testing.T) {
	results := sampleResults()
	snapshot := sampleResults()
	_ = Aggregate("example.com", results)
	if !reflect.DeepEqual(results, snapshot) {
		t.Fatal("Aggregate mutated its input")
	}
}

func TestAggregate_IncrementalSnapshots(t *testing.T) {
	results := sampleResults()
	partial := Aggregate("example.com", results[:1])
	full := Aggregate("example.com", results)
	if partial.TotalAssets != 2 || full.TotalAssets != 2 {
		t.Errorf("unexpected totals: partial=%d full=%d", partial.TotalAssets, full.TotalAssets)
	}
	if len(partial.Results) != 1 || len(full.Results) != 2 {
		t.Errorf("unexpected result counts: partial=%d full=%d", len(partial.Results), len(full.Results))
	}
}

func TestAggregate_Empty(t *testing.T) {
	report := Aggregate("example.com", nil)
	if report.Results == nil {
		t.Fatal("Results must be an empty sequence, not nil")
	}
	if report.TotalAssets != 0 || report.VulnerableAssets != 0 {
		t.Fatalf("expected zero counts, got %d/%d", report.TotalAssets, report.VulnerableAssets)
	}
}

func TestFindingVulnerable(t *testing.T) {
	f := Finding{Vulnerabilities: []osv.Vulnerability{}}
	if f.Vulnerable() {
		t.Error("empty vulnerability list must not be vulnerable")
	}
	f.Vulnerabilities = append(f.Vulnerabilities, osv.Vulnerability{ID: "X"})
	if !f.Vulnerable() {
		t.Error("non-empty vulnerability list must be vulnerable")
	}
}
