package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plenarlens/server/internal/bundestag"
	"github.com/plenarlens/server/internal/workspace"
)

func newShowCmd(app *App) *cobra.Command {
	var excerpt int
	cmd := &cobra.Command{
		Use:     "show <id>",
		Aliases: []string{"open"},
		Short:   "Show a transcript's metadata and the start of its text",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := app.Workspace.Open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			renderDocument(cmd.OutOrStdout(), doc, excerpt)
			return nil
		},
	}
	cmd.Flags().IntVar(&excerpt, "excerpt", 600, "characters of text to print (0 for none)")
	return cmd
}

func newSummaryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "summary [id]",
		Short: "Summarize a transcript with the fast model",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			doc, err := target(cmd, app, args)
			if err != nil {
				return err
			}
			summary, err := app.Workspace.Summary(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render(doc.Title))
			fmt.Fprintln(out)
			fmt.Fprintln(out, summary)
			return nil
		},
	}
}

func newAnalyzeCmd(app *App) *cobra.Command {
	var thoughts bool
	cmd := &cobra.Command{
		Use:   "analyze [id]",
		Short: "Run the deep analysis of a transcript",
		Long: `Run the deep analysis of a transcript with the reasoning model.

The analysis can take several minutes for long sessions.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			doc, err := target(cmd, app, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, hintStyle.Render("Analyse läuft …"))

			res, err := app.Workspace.DeepAnalysis(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, titleStyle.Render(doc.Title))
			fmt.Fprintln(out)
			if thoughts {
				renderThoughts(out, res.Thoughts)
			}
			fmt.Fprintln(out, res.Text)
			return nil
		},
	}
	cmd.Flags().BoolVar(&thoughts, "thoughts", false, "also print the model's thought trace")
	return cmd
}

// target opens the document named by args, or falls back to the current
// selection when no id is given.
func target(cmd *cobra.Command, app *App, args []string) (*bundestag.Document, error) {
	if len(args) == 1 {
		return app.Workspace.Open(cmd.Context(), args[0])
	}
	if doc := app.Workspace.Selected(); doc != nil {
		return doc, nil
	}
	return nil, workspace.ErrNoSelection
}
