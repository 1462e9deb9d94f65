package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/plenarlens/server/internal/credentials"
	"github.com/plenarlens/server/internal/workspace"
)

func newVerifyCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check the configured API keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report := app.Workspace.Verify(cmd.Context(), app.Keys.Keys())
			renderReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
}

func newKeysCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Show or store the API keys",
	}
	cmd.AddCommand(newKeysShowCmd(app), newKeysSetCmd(app))
	return cmd
}

func newKeysShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the configured keys masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			k := app.Keys.Keys()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-10s %s\n", "Bundestag", credentials.Mask(k.Bundestag))
			fmt.Fprintf(out, "%-10s %s\n", "Gemini", credentials.Mask(k.Gemini))
			return nil
		},
	}
}

func newKeysSetCmd(app *App) *cobra.Command {
	var (
		bundestag string
		gemini    string
		skip      bool
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Verify and store API keys",
		Long: `Verify and store API keys. Keys not given keep their current value.

Examples:
  plenar keys set --bundestag <dip-key>
  plenar keys set --gemini <gemini-key> --no-verify`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Environment seeds are never written to the store.
			keys := app.Keys.Stored()
			if cmd.Flags().Changed("bundestag") {
				keys.Bundestag = bundestag
			}
			if cmd.Flags().Changed("gemini") {
				keys.Gemini = gemini
			}
			out := cmd.OutOrStdout()
			if !skip {
				candidate := app.Keys.Keys()
				if keys.Bundestag != "" {
					candidate.Bundestag = keys.Bundestag
				}
				if keys.Gemini != "" {
					candidate.Gemini = keys.Gemini
				}
				renderReport(out, app.Workspace.Verify(cmd.Context(), candidate))
			}
			if err := app.Workspace.SaveKeys(cmd.Context(), keys); err != nil {
				return err
			}
			fmt.Fprintln(out, hintStyle.Render("Schlüssel gespeichert."))
			return nil
		},
	}
	cmd.Flags().StringVar(&bundestag, "bundestag", "", "DIP API key")
	cmd.Flags().StringVar(&gemini, "gemini", "", "Gemini API key")
	cmd.Flags().BoolVar(&skip, "no-verify", false, "store without checking")
	return cmd
}

func renderReport(w io.Writer, r workspace.VerifyReport) {
	fmt.Fprintf(w, "%-16s %s\n", "Bundestag-API", mark(r.DocumentsOK))
	fmt.Fprintf(w, "%-16s %s\n", "Gemini Flash", mark(r.Model.Flash))
	fmt.Fprintf(w, "%-16s %s\n", "Gemini Pro", mark(r.Model.Pro))
	if r.DocumentsMessage != "" {
		fmt.Fprintln(w, errorStyle.Render(r.DocumentsMessage))
	}
	if r.Model.Message != "" {
		fmt.Fprintln(w, errorStyle.Render(r.Model.Message))
	}
}

func mark(ok bool) string {
	if ok {
		return userStyle.Render("ok")
	}
	return errorStyle.Render("fehlgeschlagen")
}

