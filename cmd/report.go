package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/minhtn89/jshound/internal/scanner"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report <root-domain>",
	Short: "Show the most recent stored scan report for a domain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := scanner.NewStore(resultsDir)
		if err != nil {
			return err
		}
		report, err := store.LoadLatest(args[0])
		if err != nil {
			return err
		}

		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			return json.NewEncoder(os.Stdout).Encode(report)
		}

		fmt.Printf("%s %s (scanned %s)\n", colorInfo("Report:"), report.RootDomain,
			report.CompletedAt.Format("2006-01-02 15:04:05 MST"))
		printReportTable(report)
		fmt.Printf("%s Total JS assets: %d\n", colorInfo("→"), report.TotalAssets)
		if report.VulnerableAssets > 0 {
			fmt.Printf("%s Vulnerable assets: %d\n", colorError("→"), report.VulnerableAssets)
		} else {
			fmt.Printf("%s Vulnerable assets: 0\n", colorSuccess("→"))
		}
		return nil
	},
}

// printReportTable renders one row per finding, plus a row for subdomains
// that served no scripts so they are visibly covered rather than dropped.
func printReportTable(report *scanner.Report) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SUBDOMAIN\tASSET\tLIBRARY\tVERSION\tSTATUS")

	for _, result := range report.Results {
		if len(result.Findings) == 0 {
			fmt.Fprintf(w, "%s\t-\t-\t-\t%s\n", result.Subdomain, colorWarn("no scripts found"))
			continue
		}
		for _, f := range result.Findings {
			version := f.Fingerprint.Version
			if version == "" {
				version = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				result.Subdomain,
				f.Asset.URL,
				f.Fingerprint.Library,
				version,
				formatFindingStatus(f),
			)
		}
	}
	_ = w.Flush()

	for _, result := range report.Results {
		for _, f := range result.Findings {
			for _, v := range f.Vulnerabilities {
				fmt.Printf("  %s %s: %s (%s)\n", colorError("!"), v.ID, v.Summary, v.AdvisoryURL)
			}
		}
	}
}

func init() {
	reportCmd.Flags().Bool("json", false, "emit the raw report JSON instead of a table")
}
