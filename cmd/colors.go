package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/minhtn89/jshound/internal/scanner"
)

var (
	colorSuccess = color.New(color.FgGreen).SprintFunc()
	colorInfo    = color.New(color.FgCyan).SprintFunc()
	colorWarn    = color.New(color.FgYellow).SprintFunc()
	colorError   = color.New(color.FgRed).SprintFunc()
)

// formatFindingStatus renders the three outcomes a caller must be able to
// tell apart: classified with vulnerabilities, classified without known
// vulnerabilities, and could-not-classify / could-not-verify.
func formatFindingStatus(f scanner.Finding) string {
	if f.Vulnerable() {
		return colorError(fmt.Sprintf("vulnerable (%d)", len(f.Vulnerabilities)))
	}
	switch f.LookupStatus {
	case scanner.LookupOK:
		return colorSuccess("no known vulns")
	case scanner.LookupFailed:
		return colorWarn("lookup failed")
	default:
		return colorWarn("unclassified")
	}
}
