// Package cli provides the plenar command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/plenarlens/server/internal/bundestag"
	"github.com/plenarlens/server/internal/core"
	"github.com/plenarlens/server/internal/credentials"
	errx "github.com/plenarlens/server/internal/core/error"
	"github.com/plenarlens/server/internal/workspace"
	logx "github.com/plenarlens/server/pkg/logger"
)

// Version is set at build time.
var Version = "0.1.0"

// App is what the commands operate on.
type App struct {
	Workspace   *workspace.Workspace
	Keys        *credentials.Holder
	Environment core.Environment
}

// NewRootCmd builds the command tree for app.
func NewRootCmd(app *App) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "plenar",
		Short: "Search and analyse Bundestag plenary transcripts",
		Long: `plenar searches plenary transcripts of the German Bundestag through the
DIP API and analyses them with Gemini: a short summary, a deep analysis with
the model's reasoning, and a chat about a single transcript.

Examples:
  plenar search --period 21 --title Haushalt
  plenar summary 5706
  plenar chat 5706
  plenar browse`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logx.Init(logx.LoggerOpts{
					Environment: app.Environment,
					Output:      cmd.ErrOrStderr(),
					Verbose:     true,
				})
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newSearchCmd(app),
		newShowCmd(app),
		newSummaryCmd(app),
		newAnalyzeCmd(app),
		newChatCmd(app),
		newBrowseCmd(app),
		newVerifyCmd(app),
		newKeysCmd(app),
	)
	return root
}

// Execute runs the command tree and prints a failure in plain language.
func Execute(ctx context.Context, app *App, args []string, stdout, stderr io.Writer) error {
	root := NewRootCmd(app)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(stderr, errorStyle.Render(describe(err)))
	}
	return err
}

// describe prefers the localized message of classified errors.
func describe(err error) string {
	var e *errx.Error
	switch {
	case errors.As(err, &e):
		return errx.UserMessage(err)
	case errors.Is(err, workspace.ErrNoSelection):
		return "Kein Protokoll ausgewählt. Öffnen Sie zuerst eines mit open <id>."
	case errors.Is(err, bundestag.ErrNoMorePages):
		return "Keine weiteren Ergebnisse."
	case errors.Is(err, bundestag.ErrBusy):
		return "Es wird bereits eine Seite geladen."
	}
	return err.Error()
}
