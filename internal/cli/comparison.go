package cli

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/google/subcommands"

	"github.com/simaogato/assetval-backend/internal/domain"
)

type compareCmd struct {
	app *App

	format string
}

func (*compareCmd) Name() string     { return "compare" }
func (*compareCmd) Synopsis() string { return "manage the side-by-side comparison of valuations" }
func (*compareCmd) Usage() string {
	return `assetval compare add <valuation-id>
assetval compare remove <valuation-id>
assetval compare clear
assetval compare [-format <format>] [show]
`
}

func (c *compareCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", string(domain.FormatTerminal), "Output format of show (markdown, html, terminal).")
}

func (c *compareCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	action := "show"
	args := f.Args()
	if len(args) > 0 {
		action, args = args[0], args[1:]
	}

	switch action {
	case "add", "remove", "clear", "show":
	default:
		fmt.Fprintf(c.app.Out, "unknown compare action %q\n\n%s", action, c.Usage())
		return subcommands.ExitUsageError
	}

	services, err := c.app.Services()
	if err != nil {
		return fail(err)
	}

	switch action {
	case "add":
		id, err := parseIDArg(args)
		if err != nil {
			return fail(err)
		}
		if err := services.Comparison.Add(ctx, id); err != nil {
			return fail(err)
		}
		fmt.Fprintf(c.app.Out, "Added %s to the comparison\n", id)

	case "remove":
		id, err := parseIDArg(args)
		if err != nil {
			return fail(err)
		}
		if err := services.Comparison.Remove(ctx, id); err != nil {
			return fail(err)
		}
		fmt.Fprintf(c.app.Out, "Removed %s from the comparison\n", id)

	case "clear":
		if err := services.Comparison.Clear(ctx); err != nil {
			return fail(err)
		}
		fmt.Fprintln(c.app.Out, "Comparison cleared")

	case "show":
		format, err := parseFormat(c.format)
		if err != nil {
			return fail(err)
		}
		summary, err := services.Comparison.Summary(ctx)
		if err != nil {
			return fail(err)
		}
		if summary.TotalAssets == 0 {
			fmt.Fprintln(c.app.Out, "No assets in the comparison. Add one with: assetval compare add <valuation-id>")
			return subcommands.ExitSuccess
		}
		doc, err := services.Formatter.ComparisonDocument(summary, time.Now(), format)
		if err != nil {
			return fail(err)
		}
		fmt.Fprintln(c.app.Out, string(doc))
	}
	return subcommands.ExitSuccess
}
