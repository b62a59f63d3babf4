package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/minhtn89/jshound/internal/scanner"
	"github.com/spf13/cobra"
)

const (
	defaultConcurrency = 5
	defaultRateLimit   = 5
	defaultTimeoutSecs = 10
)

var scanCmd = &cobra.Command{
	Use:   "scan <root-domain>",
	Short: "Scan a root domain's JavaScript surface for known-vulnerable libraries",
	Long: `Discover the subdomains of a root domain via certificate transparency,
fetch each host's top-level page, fingerprint every referenced script asset,
and check classified libraries against the OSV database.

The consolidated report is stored under the results directory and printed
as a table (or raw JSON with --json).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		domain := scanner.NormalizeDomain(args[0])
		jsonOut, _ := cmd.Flags().GetBool("json")

		cfg := scanConfigFromFlags(cmd)
		s := scanner.New(cfg, logger)

		var progress *progressPrinter
		if !jsonOut {
			progress = newProgressPrinter()
			progress.Start()
			defer progress.Stop()

			// Inject the total once discovery has run, and tick per result.
			s.Subdomains = countingSource{inner: s.Subdomains, observe: progress.SetTotal}
			s.OnSubdomain = func(result scanner.SubdomainResult) {
				progress.Increment(len(result.Findings))
			}
		}

		// Ctrl+C aborts the scan but still reports what was gathered.
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		report, err := s.Scan(ctx, domain)
		if err != nil && report == nil {
			return err
		}
		interrupted := err != nil

		if progress != nil {
			progress.Stop()
		}

		store, storeErr := scanner.NewStore(resultsDir)
		if storeErr != nil {
			return storeErr
		}
		path, saveErr := store.Save(report)
		if saveErr != nil {
			return saveErr
		}

		if jsonOut {
			return json.NewEncoder(os.Stdout).Encode(report)
		}

		if interrupted {
			fmt.Println(colorWarn("Scan interrupted; partial results below."))
		}
		printReportTable(report)
		fmt.Printf("%s Total JS assets: %d\n", colorInfo("→"), report.TotalAssets)
		if report.VulnerableAssets > 0 {
			fmt.Printf("%s Vulnerable assets: %d\n", colorError("→"), report.VulnerableAssets)
		} else {
			fmt.Printf("%s Vulnerable assets: 0\n", colorSuccess("→"))
		}
		fmt.Printf("%s Report saved: %s\n", colorInfo("→"), path)
		return nil
	},
}

// countingSource reports the discovered subdomain count before handing the
// set to the scanner.
type countingSource struct {
	inner   scanner.SubdomainSource
	observe func(total int)
}

func (c countingSource) Discover(ctx context.Context, rootDomain string) ([]string, error) {
	subs, err := c.inner.Discover(ctx, rootDomain)
	if err == nil && c.observe != nil {
		c.observe(len(subs))
	}
	return subs, err
}

func scanConfigFromFlags(cmd *cobra.Command) scanner.Config {
	flags := cmd.Flags()
	return scanner.Config{
		Concurrency:  intFlagOrViper(flags, "concurrency", "scan.concurrency"),
		RateLimit:    intFlagOrViper(flags, "rate-limit", "scan.rate_limit"),
		ProbeTimeout: time.Duration(intFlagOrViper(flags, "timeout", "scan.timeout_secs")) * time.Second,
		CTLogBaseURL: stringFlagOrViper(flags, "ctlog-url", "scan.ctlog_url"),
		OSVBaseURL:   stringFlagOrViper(flags, "osv-url", "scan.osv_url"),
	}
}

func init() {
	scanCmd.Flags().Int("concurrency", defaultConcurrency, "maximum concurrent subdomain probes")
	scanCmd.Flags().Int("rate-limit", defaultRateLimit, "subdomain probes per second")
	scanCmd.Flags().Int("timeout", defaultTimeoutSecs, "per-probe timeout in seconds")
	scanCmd.Flags().String("ctlog-url", "", "certificate transparency search endpoint (default crt.sh)")
	scanCmd.Flags().String("osv-url", "", "vulnerability database endpoint (default api.osv.dev)")
	scanCmd.Flags().Bool("json", false, "emit the raw report JSON instead of a table")
}
