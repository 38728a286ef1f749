// Package report renders valuation and comparison documents as markdown,
// HTML or styled terminal text.
package report

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	"strings"
	"text/template"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/glamour"
	"github.com/shopspring/decimal"
	"github.com/simaogato/assetval-backend/internal/domain"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed templates/*.md
var templates embed.FS

const (
	// pageBreak separates pages in markdown and terminal output
	pageBreak = "\n\n---\n\n"

	terminalWidth = 100
)

const htmlStyle = `body { font-family: Helvetica, Arial, sans-serif; color: #222; }
h1 { background: #3366cc; color: #fff; padding: 12px; }
table { border-collapse: collapse; margin-bottom: 16px; }
th { background: #3366cc; color: #fff; }
th, td { border: 1px solid #ccc; padding: 4px 8px; }
section.page { page-break-after: always; break-after: page; }
section.page:last-child { page-break-after: auto; break-after: auto; }`

// Formatter renders report documents. It is safe for concurrent use.
type Formatter struct {
	currency *money.Currency
	money    *money.Formatter
	fraction int
	tmpl     *template.Template
	markdown goldmark.Markdown
}

// NewFormatter creates a formatter displaying amounts in currencyCode with
// fractionDigits decimals (0 displays whole units).
func NewFormatter(currencyCode string, fractionDigits int) (*Formatter, error) {
	cur := money.GetCurrency(strings.ToUpper(currencyCode))
	if cur == nil {
		return nil, fmt.Errorf("unknown currency %q", currencyCode)
	}
	if fractionDigits < 0 {
		fractionDigits = cur.Fraction
	}

	f := &Formatter{
		currency: cur,
		money:    money.NewFormatter(fractionDigits, cur.Decimal, cur.Thousand, cur.Grapheme, cur.Template),
		fraction: fractionDigits,
		markdown: goldmark.New(goldmark.WithExtensions(extension.Table)),
	}

	tmpl, err := template.New("report").Funcs(f.funcs()).ParseFS(templates, "templates/*.md")
	if err != nil {
		return nil, fmt.Errorf("failed to parse report templates: %w", err)
	}
	f.tmpl = tmpl
	return f, nil
}

// Currency returns the ISO code amounts are displayed in
func (f *Formatter) Currency() string {
	return f.currency.Code
}

// Money formats an amount in the configured currency, rounding half away from zero
func (f *Formatter) Money(amount decimal.Decimal) string {
	return f.money.Format(amount.Shift(int32(f.fraction)).Round(0).IntPart())
}

type valuationView struct {
	*domain.ValuationResult
	GeneratedAt time.Time
}

type comparisonView struct {
	*domain.ComparisonSummary
	GeneratedAt time.Time
}

// ValuationDocument renders the two page report of a single valuation:
// asset information and results, then the calculation breakdown and notes.
func (f *Formatter) ValuationDocument(v *domain.ValuationResult, generatedAt time.Time, format domain.ReportFormat) ([]byte, error) {
	data := valuationView{ValuationResult: v, GeneratedAt: generatedAt}

	pages, err := f.renderPages(data, "valuation_summary.md", "valuation_breakdown.md")
	if err != nil {
		return nil, err
	}
	return f.assemble("Asset Valuation Report - "+v.Asset.AssetName, pages, format)
}

// ComparisonDocument renders the side-by-side comparison with portfolio totals
func (f *Formatter) ComparisonDocument(s *domain.ComparisonSummary, generatedAt time.Time, format domain.ReportFormat) ([]byte, error) {
	data := comparisonView{ComparisonSummary: s, GeneratedAt: generatedAt}

	pages, err := f.renderPages(data, "comparison.md")
	if err != nil {
		return nil, err
	}
	return f.assemble("Asset Comparison Report", pages, format)
}

func (f *Formatter) renderPages(data any, files ...string) ([]string, error) {
	pages := make([]string, 0, len(files))
	for _, file := range files {
		var b strings.Builder
		if err := f.tmpl.ExecuteTemplate(&b, file, data); err != nil {
			return nil, fmt.Errorf("error executing template %q: %w", file, err)
		}
		pages = append(pages, strings.TrimSpace(b.String()))
	}
	return pages, nil
}

// assemble joins rendered markdown pages into a document of the requested format
func (f *Formatter) assemble(title string, pages []string, format domain.ReportFormat) ([]byte, error) {
	switch format {
	case domain.FormatMarkdown:
		return []byte(strings.Join(pages, pageBreak) + "\n"), nil

	case domain.FormatHTML:
		var buf bytes.Buffer
		fmt.Fprintf(&buf, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n<style>\n%s\n</style>\n</head>\n<body>\n",
			html.EscapeString(title), htmlStyle)
		for _, page := range pages {
			buf.WriteString("<section class=\"page\">\n")
			if err := f.markdown.Convert([]byte(page), &buf); err != nil {
				return nil, fmt.Errorf("failed to convert page to html: %w", err)
			}
			buf.WriteString("</section>\n")
		}
		buf.WriteString("</body>\n</html>\n")
		return buf.Bytes(), nil

	case domain.FormatTerminal:
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("notty"),
			glamour.WithWordWrap(terminalWidth),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create terminal renderer: %w", err)
		}
		out, err := renderer.Render(strings.Join(pages, pageBreak))
		if err != nil {
			return nil, fmt.Errorf("failed to render terminal output: %w", err)
		}
		return []byte(out), nil

	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
	}
}

func (f *Formatter) funcs() template.FuncMap {
	return template.FuncMap{
		"money": f.Money,
		"date": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"years": func(d decimal.Decimal) string {
			return d.StringFixed(1)
		},
		"cell":  cell,
		"title": title,
	}
}

// cell makes a value safe to place in a markdown table cell
func cell(v any) string {
	s := strings.ReplaceAll(fmt.Sprint(v), "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

func title(v any) string {
	s := cell(v)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
