package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bkoksal/tgf-handicap/internal/course"
	"github.com/bkoksal/tgf-handicap/internal/player"
	"github.com/bkoksal/tgf-handicap/internal/session"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagAllowance int
	flagFormat    string
	flagBrowser   bool
	flagNoBrowser bool
	flagVerbose   bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tgf-handicap <players> <course>",
		Short: "Calculate TGF playing handicaps for a course",
		Long: `Looks up players in the Turkish Golf Federation handicap list and
calculates their playing handicap for every rated tee of a course.

Players are given as one comma-separated argument of full names or
federation numbers; the course is matched by name, case-insensitively.`,
		Args: cobra.ExactArgs(2),
		RunE: runCalc,
	}

	cmd.Flags().IntVar(&flagAllowance, "allowance", 100, "Handicap allowance percentage (0-100)")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&flagBrowser, "browser", false, "Skip the API path and scrape with the headless browser only")
	cmd.Flags().BoolVar(&flagNoBrowser, "no-browser", false, "Disable the headless-browser fallback")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	return cmd
}

// runCalc wires the live scraping stack and hands off to App.
func runCalc(cmd *cobra.Command, args []string) error {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}
	if flagAllowance < 0 || flagAllowance > 100 {
		return fmt.Errorf("invalid allowance: %d (must be 0-100)", flagAllowance)
	}
	if flagBrowser && flagNoBrowser {
		return fmt.Errorf("--browser and --no-browser are mutually exclusive")
	}

	var directory player.Directory
	var catalog course.Catalog
	if flagBrowser {
		directory = player.NewBrowser()
		catalog = course.NewBrowser()
	} else {
		factory := session.NewFactory()
		directory = player.NewClient(
			session.NewCache(factory, player.SessionPage, player.SessionExtra()))
		catalog = course.NewClient(
			session.NewCache(factory, course.SessionPage, course.SessionExtra()))

		if !flagNoBrowser {
			directory = &player.Fallback{Primary: directory, Secondary: player.NewBrowser(), OnEmpty: true}
			catalog = &course.Fallback{Primary: catalog, Secondary: course.NewBrowser()}
		}
	}

	app := &App{
		Directory: directory,
		Catalog:   course.NewCache(catalog),
		In:        os.Stdin,
		Out:       os.Stdout,
		Err:       os.Stderr,
		Verbose:   flagVerbose,
	}
	return app.Run(args[0], args[1], flagAllowance, format)
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
