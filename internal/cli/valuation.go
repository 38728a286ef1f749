package cli

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/simaogato/assetval-backend/internal/domain"
	"github.com/simaogato/assetval-backend/internal/usecase/valuation"
)

type evaluateCmd struct {
	app *App

	input   domain.AssetInput
	preview bool
	format  string
}

func (*evaluateCmd) Name() string     { return "evaluate" }
func (*evaluateCmd) Synopsis() string { return "estimate the market and liquidation value of an asset" }
func (*evaluateCmd) Usage() string {
	return `assetval evaluate -name <name> -date <YYYY-MM-DD> -cost <amount> -life <years> [options]

  Values the asset and records the result in the valuation history,
  then prints the valuation report. Use -preview to skip recording.
`
}

func (c *evaluateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.input.AssetName, "name", "", "Asset name.")
	f.StringVar(&c.input.Category, "category", string(domain.CategoryOther), "Asset category (machinery, vehicle, property, inventory, electronics, furniture, other).")
	f.StringVar(&c.input.AcquisitionDate, "date", "", "Acquisition date (YYYY-MM-DD).")
	f.StringVar(&c.input.AcquisitionCost, "cost", "", "Acquisition cost.")
	f.StringVar(&c.input.Condition, "condition", string(domain.ConditionGood), "Condition (excellent, good, fair, poor, salvage).")
	f.IntVar(&c.input.UsefulLife, "life", 0, "Useful life in years.")
	f.StringVar(&c.input.MarketComparable, "comparable", "", "Recent comparable sale price, if any.")
	f.StringVar(&c.input.LiquidationPercent, "liquidation", "50", "Liquidation value as a percentage of market value.")
	f.StringVar(&c.input.MarketDemand, "demand", string(domain.DemandNormal), "Market demand (high, normal, low).")
	f.StringVar(&c.input.EconomicCondition, "economy", string(domain.EconomyStable), "Economic conditions (boom, stable, recession).")
	f.StringVar(&c.input.Notes, "notes", "", "Free-form notes printed on the report.")
	f.BoolVar(&c.preview, "preview", false, "Do not record the valuation.")
	f.StringVar(&c.format, "format", string(domain.FormatTerminal), "Output format (markdown, html, terminal).")
}

func (c *evaluateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	format, err := parseFormat(c.format)
	if err != nil {
		return fail(err)
	}

	asset, err := c.input.Parse()
	if err != nil {
		return fail(err)
	}

	services, err := c.app.Services()
	if err != nil {
		return fail(err)
	}

	var result *domain.ValuationResult
	if c.preview {
		result, err = services.Valuation.Preview(ctx, asset)
	} else {
		result, err = services.Valuation.Calculate(ctx, asset)
	}
	if err != nil {
		return fail(err)
	}

	doc, err := services.Formatter.ValuationDocument(result, result.CalculatedAt, format)
	if err != nil {
		return fail(err)
	}
	fmt.Fprintln(c.app.Out, string(doc))
	if !c.preview {
		fmt.Fprintf(c.app.Out, "Recorded valuation %s\n", result.ID)
	}
	return subcommands.ExitSuccess
}

type historyCmd struct {
	app *App

	limit  int
	offset int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "list recorded valuations, newest first" }
func (*historyCmd) Usage() string {
	return `assetval history [-limit <n>] [-offset <n>]
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "limit", valuation.DefaultHistoryLimit, "Maximum number of valuations to list.")
	f.IntVar(&c.offset, "offset", 0, "Number of newest valuations to skip.")
}

func (c *historyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	services, err := c.app.Services()
	if err != nil {
		return fail(err)
	}

	valuations, err := services.Valuation.History(ctx, c.limit, c.offset)
	if err != nil {
		return fail(err)
	}
	if len(valuations) == 0 {
		fmt.Fprintln(c.app.Out, "No valuations recorded.")
		return subcommands.ExitSuccess
	}

	w := tabwriter.NewWriter(c.app.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tASSET\tCATEGORY\tMARKET\tLIQUIDATION\tCALCULATED")
	for _, v := range valuations {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			v.ID,
			v.Asset.AssetName,
			v.Asset.Category,
			services.Formatter.Money(v.MarketValue),
			services.Formatter.Money(v.LiquidationValue),
			v.CalculatedAt.Format("2006-01-02 15:04"),
		)
	}
	if err := w.Flush(); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

type showCmd struct {
	app *App

	format string
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "print the report of a recorded valuation" }
func (*showCmd) Usage() string {
	return `assetval show [-format <format>] <valuation-id>

  Prints the valuation without recording a report. Use "assetval report"
  to generate and record one.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", string(domain.FormatTerminal), "Output format (markdown, html, terminal).")
}

func (c *showCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := parseIDArg(f.Args())
	if err != nil {
		return fail(err)
	}
	format, err := parseFormat(c.format)
	if err != nil {
		return fail(err)
	}

	services, err := c.app.Services()
	if err != nil {
		return fail(err)
	}

	v, err := services.Valuation.Get(ctx, id)
	if err != nil {
		return fail(err)
	}

	doc, err := services.Formatter.ValuationDocument(v, v.CalculatedAt, format)
	if err != nil {
		return fail(err)
	}
	fmt.Fprintln(c.app.Out, string(doc))
	return subcommands.ExitSuccess
}

type deleteCmd struct {
	app *App
}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete a recorded valuation" }
func (*deleteCmd) Usage() string {
	return `assetval delete <valuation-id>
`
}

func (*deleteCmd) SetFlags(*flag.FlagSet) {}

func (c *deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := parseIDArg(f.Args())
	if err != nil {
		return fail(err)
	}

	services, err := c.app.Services()
	if err != nil {
		return fail(err)
	}

	if err := services.Valuation.Delete(ctx, id); err != nil {
		return fail(err)
	}
	fmt.Fprintf(c.app.Out, "Deleted valuation %s\n", id)
	return subcommands.ExitSuccess
}

type seedCmd struct {
	app *App
}

func (*seedCmd) Name() string     { return "seed" }
func (*seedCmd) Synopsis() string { return "record the sample valuations" }
func (*seedCmd) Usage() string {
	return `assetval seed

  Records the sample assets. Running it again records nothing new.
`
}

func (*seedCmd) SetFlags(*flag.FlagSet) {}

func (c *seedCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	services, err := c.app.Services()
	if err != nil {
		return fail(err)
	}

	seeded, err := services.Seeder.Seed(ctx)
	if err != nil {
		return fail(err)
	}
	fmt.Fprintf(c.app.Out, "Seeded %d sample valuations\n", seeded)
	return subcommands.ExitSuccess
}
