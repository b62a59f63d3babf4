package cmd

import (
	"testing"

	"github.com/fatih/color"
	"github.com/minhtn89/jshound/internal/assets"
	"github.com/minhtn89/jshound/internal/fingerprint"
	"github.com/minhtn89/jshound/internal/osv"
	"github.com/minhtn89/jshound/internal/scanner"
)

func TestFormatFindingStatus(t *testing.T) {
	original := color.NoColor
	color.NoColor = true
	t.Cleanup(func() {
		color.NoColor = original
	})

	tests := []struct {
		name    string
		finding scanner.Finding
		want    string
	}{
		{
			name: "vulnerable",
			finding: scanner.Finding{
				Asset:        assets.Asset{Subdomain: "a.example.com", URL: "https://a.example.com/jquery.js"},
				Fingerprint:  fingerprint.Fingerprint{Library: fingerprint.LibraryJQuery, Version: "3.4.1"},
				LookupStatus: scanner.LookupOK,
				Vulnerabilities: []osv.Vulnerability{
					{ID: "GHSA-1", Summary: "prototype pollution"},
					{ID: "GHSA-2", Summary: "xss"},
				},
			},
			want: "vulnerable (2)",
		},
		{
			name: "clean lookup",
			finding: scanner.Finding{
				Fingerprint:     fingerprint.Fingerprint{Library: fingerprint.LibraryReact, Version: "18.2.0"},
				LookupStatus:    scanner.LookupOK,
				Vulnerabilities: []osv.Vulnerability{},
			},
			want: "no known vulns",
		},
		{
			name: "lookup failed",
			finding: scanner.Finding{
				Fingerprint:  fingerprint.Fingerprint{Library: fingerprint.LibraryVue, Version: "2.6.0"},
				LookupStatus: scanner.LookupFailed,
			},
			want: "lookup failed",
		},
		{
			name: "unclassified",
			finding: scanner.Finding{
				Fingerprint:  fingerprint.Unknown(),
				LookupStatus: scanner.LookupSkipped,
			},
			want: "unclassified",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatFindingStatus(tt.finding); got != tt.want {
				t.Fatalf("formatFindingStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}
