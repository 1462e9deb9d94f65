package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plenarlens/server/internal/bundestag"
)

func newSearchCmd(app *App) *cobra.Command {
	var (
		q     bundestag.Query
		pages int
	)
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search plenary transcripts",
		Long: `Search plenary transcripts of one legislative period.

Results arrive in pages of 20; --pages follows the server cursor.

Examples:
  plenar search --period 21
  plenar search --period 20 --from 2024-01-01 --to 2024-03-31
  plenar search --period 21 --title Haushalt --pages 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ws := app.Workspace
			if err := ws.Search(ctx, q); err != nil {
				return err
			}
			for i := 1; i < pages && ws.Results().CanLoadMore(); i++ {
				if err := ws.LoadMore(ctx); err != nil {
					if errors.Is(err, bundestag.ErrNoMorePages) {
						break
					}
					return err
				}
			}

			out := cmd.OutOrStdout()
			if ws.Results().Empty() {
				fmt.Fprintln(out, hintStyle.Render("Keine Protokolle gefunden."))
				return nil
			}
			renderList(out, ws.Results().Documents(), ws.Results().NumFound(), ws.Results().CanLoadMore())
			return nil
		},
	}
	cmd.Flags().IntVarP(&q.Period, "period", "p", 21, "legislative period (Wahlperiode)")
	cmd.Flags().StringVar(&q.Start, "from", "", "earliest date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&q.End, "to", "", "latest date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&q.Title, "title", "t", "", "title filter")
	cmd.Flags().IntVarP(&pages, "pages", "n", 1, "number of pages to fetch")
	return cmd
}
