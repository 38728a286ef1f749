package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/simaogato/assetval-backend/internal/domain"
	"github.com/simaogato/assetval-backend/internal/usecase/report"
)

type reportCmd struct {
	app *App

	comparison bool
	format     string
	dir        string
	stdout     bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "generate and record a valuation or comparison report" }
func (*reportCmd) Usage() string {
	return `assetval report [-format <format>] [-dir <dir>] [-stdout] <valuation-id>
assetval report -comparison [-format <format>] [-dir <dir>] [-stdout]

  Writes the document to <dir>/<report filename> unless -stdout is set.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.comparison, "comparison", false, "Report on the current comparison instead of one valuation.")
	f.StringVar(&c.format, "format", string(domain.FormatMarkdown), "Output format (markdown, html, terminal).")
	f.StringVar(&c.dir, "dir", ".", "Directory the report file is written to.")
	f.BoolVar(&c.stdout, "stdout", false, "Print the document instead of writing a file.")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	format, err := parseFormat(c.format)
	if err != nil {
		return fail(err)
	}

	services, err := c.app.Services()
	if err != nil {
		return fail(err)
	}

	var doc *report.Document
	if c.comparison {
		doc, err = services.Report.ComparisonReport(ctx, format)
	} else {
		id, parseErr := parseIDArg(f.Args())
		if parseErr != nil {
			return fail(parseErr)
		}
		doc, err = services.Report.ValuationReport(ctx, id, format)
	}
	if err != nil {
		return fail(err)
	}

	if c.stdout {
		fmt.Fprintln(c.app.Out, string(doc.Content))
		return subcommands.ExitSuccess
	}

	path := filepath.Join(c.dir, doc.Report.Filename)
	if err := os.WriteFile(path, doc.Content, 0644); err != nil {
		return fail(fmt.Errorf("error writing report %q: %w", path, err))
	}
	fmt.Fprintf(c.app.Out, "Report written to %s\n", path)
	return subcommands.ExitSuccess
}

type reportsCmd struct {
	app *App
}

func (*reportsCmd) Name() string     { return "reports" }
func (*reportsCmd) Synopsis() string { return "list generated reports, newest first" }
func (*reportsCmd) Usage() string {
	return `assetval reports
`
}

func (*reportsCmd) SetFlags(*flag.FlagSet) {}

func (c *reportsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	services, err := c.app.Services()
	if err != nil {
		return fail(err)
	}

	reports, err := services.Report.List(ctx)
	if err != nil {
		return fail(err)
	}
	if len(reports) == 0 {
		fmt.Fprintln(c.app.Out, "No reports generated.")
		return subcommands.ExitSuccess
	}

	w := tabwriter.NewWriter(c.app.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GENERATED\tKIND\tTITLE\tMARKET\tLIQUIDATION\tFILE")
	for _, r := range reports {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.GeneratedAt.Format("2006-01-02 15:04"),
			r.Kind,
			r.Title,
			services.Formatter.Money(r.MarketValue),
			services.Formatter.Money(r.LiquidationValue),
			r.Filename,
		)
	}
	if err := w.Flush(); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

type dashboardCmd struct {
	app *App
}

func (*dashboardCmd) Name() string     { return "dashboard" }
func (*dashboardCmd) Synopsis() string { return "show totals over the valuation history" }
func (*dashboardCmd) Usage() string {
	return `assetval dashboard
`
}

func (*dashboardCmd) SetFlags(*flag.FlagSet) {}

func (c *dashboardCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	services, err := c.app.Services()
	if err != nil {
		return fail(err)
	}

	summary, err := services.Dashboard.GetSummary(ctx)
	if err != nil {
		return fail(err)
	}

	money := services.Formatter.Money
	fmt.Fprintf(c.app.Out, "Total valuations:       %d\n", summary.TotalValuations)
	fmt.Fprintf(c.app.Out, "Combined market:        %s\n", money(summary.CombinedMarket))
	fmt.Fprintf(c.app.Out, "Combined liquidation:   %s\n", money(summary.CombinedLiquidation))
	fmt.Fprintf(c.app.Out, "Reports generated:      %d\n", summary.ReportsGenerated)

	if len(summary.Recent) > 0 {
		fmt.Fprintln(c.app.Out, "\nRecent valuations:")
		for _, v := range summary.Recent {
			fmt.Fprintf(c.app.Out, "  %s  %s  %s (liq. %s)\n",
				v.CalculatedAt.Format("2006-01-02"), v.Asset.AssetName, money(v.MarketValue), money(v.LiquidationValue))
		}
	}
	return subcommands.ExitSuccess
}
