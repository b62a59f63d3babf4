package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/minhtn89/jshound/internal/assets"
	"github.com/minhtn89/jshound/internal/fingerprint"
	"github.com/minhtn89/jshound/internal/osv"
	"github.com/minhtn89/jshound/internal/scanner"
)

func sampleReport() *scanner.Report {
	report := scanner.Aggregate("example.com", []scanner.SubdomainResult{
		{
			Subdomain: "app.example.com",
			Findings: []scanner.Finding{
				{
					Asset:        assets.Asset{Subdomain: "app.example.com", URL: "https://app.example.com/js/jquery.min.js"},
					Fingerprint:  fingerprint.Fingerprint{Library: fingerprint.LibraryJQuery, Version: "3.4.1"},
					LookupStatus: scanner.LookupOK,
					Vulnerabilities: []osv.Vulnerability{
						{
							ID:          "GHSA-6c3j-c64m-qhgq",
							Summary:     "Prototype Pollution in jQuery",
							AdvisoryURL: "https://osv.dev/vulnerability/GHSA-6c3j-c64m-qhgq",
						},
					},
				},
				{
					Asset:           assets.Asset{Subdomain: "app.example.com", URL: "https://app.example.com/js/custom.js"},
					Fingerprint:     fingerprint.Unknown(),
					LookupStatus:    scanner.LookupSkipped,
					Vulnerabilities: []osv.Vulnerability{},
				},
			},
		},
		{
			Subdomain: "static.example.com",
			Findings:  []scanner.Finding{},
		},
	})
	report.StartedAt = time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	report.CompletedAt = time.Date(2026, 8, 1, 10, 1, 30, 0, time.UTC)
	return report
}

func TestPrintReportTable(t *testing.T) {
	original := color.NoColor
	color.NoColor = true
	t.Cleanup(func() {
		color.NoColor = original
	})

	output := captureStdout(t, func() {
		printReportTable(sampleReport())
	})

	for _, want := range []string{
		"SUBDOMAIN",
		"app.example.com",
		"https://app.example.com/js/jquery.min.js",
		"jquery",
		"3.4.1",
		"vulnerable (1)",
		"unclassified",
		"static.example.com",
		"no scripts found",
		"GHSA-6c3j-c64m-qhgq: Prototype Pollution in jQuery",
	} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, output)
		}
	}
}

func TestPrintReportTableUnknownVersionPlaceholder(t *testing.T) {
	original := color.NoColor
	color.NoColor = true
	t.Cleanup(func() {
		color.NoColor = original
	})

	output := captureStdout(t, func() {
		printReportTable(sampleReport())
	})

	// The unclassified asset has no version; its row carries a dash.
	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(line, "custom.js") && !strings.Contains(line, "-") {
			t.Fatalf("expected placeholder dash for missing version, got line %q", line)
		}
	}
}
