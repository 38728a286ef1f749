// Package cli implements the assetval command line application.
package cli

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/google/subcommands"
	"github.com/google/uuid"

	"github.com/simaogato/assetval-backend/internal/app"
	"github.com/simaogato/assetval-backend/internal/config"
	"github.com/simaogato/assetval-backend/internal/domain"
)

// App is the state shared by the subcommands of one invocation.
// The store is opened on first use.
type App struct {
	Out    io.Writer
	Logger *log.Logger

	services *app.Services
	open     func() (*app.Services, error)
}

// NewApp creates an App that opens the store described by the environment
func NewApp(out io.Writer, logger *log.Logger) *App {
	return &App{
		Out:    out,
		Logger: logger,
		open: func() (*app.Services, error) {
			cfg, err := config.LoadConfig()
			if err != nil {
				return nil, err
			}
			return app.Open(cfg, logger)
		},
	}
}

// NewAppWithServices creates an App over already opened services
func NewAppWithServices(out io.Writer, services *app.Services) *App {
	return &App{
		Out:      out,
		Logger:   log.New(io.Discard, "", 0),
		services: services,
	}
}

// Services returns the services, opening the store if needed
func (a *App) Services() (*app.Services, error) {
	if a.services == nil {
		services, err := a.open()
		if err != nil {
			return nil, err
		}
		a.services = services
	}
	return a.services, nil
}

// Close releases the store if it was opened
func (a *App) Close() error {
	if a.services == nil {
		return nil
	}
	return a.services.Close()
}

// Register the subcommands.
func Register(c *subcommands.Commander, a *App) {
	c.Register(&evaluateCmd{app: a}, "valuations")
	c.Register(&historyCmd{app: a}, "valuations")
	c.Register(&showCmd{app: a}, "valuations")
	c.Register(&deleteCmd{app: a}, "valuations")
	c.Register(&seedCmd{app: a}, "valuations")

	c.Register(&compareCmd{app: a}, "comparison")

	c.Register(&reportCmd{app: a}, "reports")
	c.Register(&reportsCmd{app: a}, "reports")
	c.Register(&dashboardCmd{app: a}, "reports")
}

// fail prints err to stderr and returns the failure status
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, err)
	return subcommands.ExitFailure
}

// parseFormat accepts markdown, html or terminal
func parseFormat(s string) (domain.ReportFormat, error) {
	format := domain.ReportFormat(s)
	if !format.IsValid() {
		return "", fmt.Errorf("%w: %q (use markdown, html or terminal)", domain.ErrUnsupportedFormat, s)
	}
	return format, nil
}

// parseIDArg reads the single valuation ID argument
func parseIDArg(args []string) (uuid.UUID, error) {
	if len(args) != 1 {
		return uuid.Nil, fmt.Errorf("expected exactly one valuation ID, got %d arguments", len(args))
	}
	id, err := uuid.Parse(args[0])
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid valuation ID %q: %w", args[0], err)
	}
	return id, nil
}
