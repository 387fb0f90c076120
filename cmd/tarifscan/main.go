// tarifscan - partner pricing sync and offer comparison.
//
// Usage:
//   tarifscan sync [--dry-run] [--no-cache] [--source=<id>] [--verbose]
//   tarifscan audit [--data-dir dir]
//   tarifscan compare --bill bill.json --vertical electricity
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"tarifscan/internal/catalog"
	"tarifscan/internal/compare"
	"tarifscan/internal/platform"
	syncrun "tarifscan/internal/sync"
	"tarifscan/pkg/billing"
)

// Exit codes for CI integration.
const (
	ExitSuccess        = 0
	ExitAuditViolation = 1
	ExitUsage          = 10
	ExitSyncError      = 11
	ExitCompareError   = 12
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "tarifscan",
		Usage:   "Partner pricing synchronization and offer comparison",
		Version: version,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "debug logging"},
			&cli.StringFlag{
				Name:    "data-dir",
				Value:   "data/catalogs",
				Usage:   "catalog files directory",
				EnvVars: []string{"TARIFSCAN_DATA_DIR"},
			},
		},
		Commands: []*cli.Command{
			syncCommand(),
			auditCommand(),
			compareCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		if code, ok := err.(cli.ExitCoder); ok {
			os.Exit(code.ExitCode())
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitUsage)
	}
}

func syncCommand() *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Run partner adapters and refresh the catalogs",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "dry-run", Aliases: []string{"check"}, Usage: "validate and diff without writing"},
			&cli.BoolFlag{Name: "no-cache", Usage: "bypass the conditional fetch cache"},
			&cli.StringFlag{Name: "source", Usage: "restrict the run to one adapter id"},
		},
		Action: func(c *cli.Context) error {
			log := platform.NewLogger(c.Bool("verbose"))
			opts := syncrun.Options{
				DataDir:   c.String("data-dir"),
				CacheDir:  platform.GetEnv("TARIFSCAN_CACHE_DIR", ".cache/tarifscan"),
				DryRun:    c.Bool("dry-run"),
				NoCache:   c.Bool("no-cache"),
				Source:    c.String("source"),
				Allowlist: catalog.DefaultAllowlist,
			}
			summary, err := syncrun.Run(c.Context, opts, log)
			if err != nil {
				log.Error().Err(err).Msg("sync aborted")
				return cli.Exit("", ExitSyncError)
			}
			log.Info().
				Int("files_written", summary.FilesWritten).
				Int("adapters", len(summary.Adapters)).
				Msg("sync finished")
			if summary.Fatal() {
				return cli.Exit("", ExitSyncError)
			}
			return nil
		},
	}
}

// auditCommand is the CI regression gate: it fails when any active catalog
// row belongs to a provider outside the allowlist.
func auditCommand() *cli.Command {
	return &cli.Command{
		Name:  "audit",
		Usage: "Check active catalog rows against the partner allowlist",
		Action: func(c *cli.Context) error {
			log := platform.NewLogger(c.Bool("verbose"))
			allowlist := catalog.DefaultAllowlist
			violations := 0
			for file, market := range map[string]struct {
				vertical catalog.Vertical
				country  string
			}{
				"electricity_be.json": {catalog.VerticalElectricity, "be"},
				"telecom_be.json":     {catalog.VerticalTelecom, "be"},
			} {
				rows, err := catalog.LoadFile(filepath.Join(c.String("data-dir"), file))
				if err != nil {
					log.Error().Err(err).Str("file", file).Msg("catalog load failed")
					return cli.Exit("", ExitSyncError)
				}
				for _, v := range allowlist.Audit(rows, market.vertical, market.country) {
					log.Error().Str("file", file).Stringer("row", v).Msg("unauthorized active row")
					violations++
				}
			}
			if violations > 0 {
				return cli.Exit(fmt.Sprintf("%d allowlist violations", violations), ExitAuditViolation)
			}
			log.Info().Msg("allowlist audit clean")
			return nil
		},
	}
}

// compareCommand is an operator surface over the comparison engine: load a
// catalog and an extracted-bill file, print the ranked offers as JSON.
func compareCommand() *cli.Command {
	return &cli.Command{
		Name:  "compare",
		Usage: "Rank catalog offers against an extracted bill",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bill", Required: true, Usage: "extracted bill JSON file"},
			&cli.StringFlag{Name: "vertical", Value: "electricity", Usage: "electricity or telecom"},
			&cli.StringFlag{Name: "country", Value: "be"},
		},
		Action: func(c *cli.Context) error {
			log := platform.NewLogger(c.Bool("verbose"))
			billData, err := os.ReadFile(c.String("bill"))
			if err != nil {
				log.Error().Err(err).Msg("bill file unreadable")
				return cli.Exit("", ExitCompareError)
			}
			allowlist := catalog.DefaultAllowlist
			country := c.String("country")

			var out any
			switch c.String("vertical") {
			case "electricity":
				var bill billing.ExtractedBill
				if err := json.Unmarshal(billData, &bill); err != nil {
					log.Error().Err(err).Msg("bill parse failed")
					return cli.Exit("", ExitCompareError)
				}
				if cls := compare.Classify(bill); !cls.Comparable {
					log.Info().Str("reason", string(cls.Reason)).Msg("bill not comparable")
					out = map[string]any{"comparable": false, "reason": cls.Reason}
					break
				}
				rows, err := loadMarket(c.String("data-dir"), "electricity_be.json", allowlist, catalog.VerticalElectricity, country)
				if err != nil {
					log.Error().Err(err).Msg("catalog load failed")
					return cli.Exit("", ExitCompareError)
				}
				offers, breakdown := compare.CompareElectricity(bill, rows)
				out = map[string]any{"comparable": true, "offers": offers, "cost_breakdown": breakdown}
			case "telecom":
				var bill billing.ExtractedTelecomBill
				if err := json.Unmarshal(billData, &bill); err != nil {
					log.Error().Err(err).Msg("bill parse failed")
					return cli.Exit("", ExitCompareError)
				}
				rows, err := loadMarket(c.String("data-dir"), "telecom_be.json", allowlist, catalog.VerticalTelecom, country)
				if err != nil {
					log.Error().Err(err).Msg("catalog load failed")
					return cli.Exit("", ExitCompareError)
				}
				out = map[string]any{"offers": compare.CompareTelecom(bill, rows)}
			default:
				return cli.Exit("unknown vertical", ExitUsage)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}

// loadMarket loads a catalog file and applies the allowlist read filter:
// non-partner rows never leave this function.
func loadMarket(dataDir, file string, allowlist catalog.Allowlist, vertical catalog.Vertical, country string) ([]catalog.Row, error) {
	rows, err := catalog.LoadFile(filepath.Join(dataDir, file))
	if err != nil {
		return nil, err
	}
	return allowlist.Filter(rows, vertical, country), nil
}
