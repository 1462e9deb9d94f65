package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/plenarlens/server/internal/agent/conversations"
)

const browsePrompt = "plenar> "

func newBrowseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Interactive session that keeps results, analyses and chat",
		Long: `Start an interactive session. Search results, generated summaries and
analyses, and the chat about the open transcript are kept until you leave.
Opening another transcript ends the chat about the previous one.

Commands:
  search [--period N] [--from D] [--to D] [--title T]
  more                  load the next page of results
  open <id>             select a transcript
  summary [id]          summary of the selected transcript
  analyze [id]          deep analysis (--thoughts for the reasoning)
  ask <question>        ask about the selected transcript
  history               print the chat so far
  :q                    leave`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			in := bufio.NewScanner(cmd.InOrStdin())
			in.Buffer(make([]byte, 0, 64*1024), 1024*1024)

			fmt.Fprint(out, browsePrompt)
			for in.Scan() {
				line := strings.TrimSpace(in.Text())
				if line == quitCommand || line == "exit" {
					return nil
				}
				if line != "" {
					if err := runLine(cmd.Context(), app, splitLine(line), out); err != nil {
						fmt.Fprintln(out, errorStyle.Render(describe(err)))
					}
				}
				fmt.Fprint(out, browsePrompt)
			}
			fmt.Fprintln(out)
			return in.Err()
		},
	}
}

// runLine executes one input line against a fresh command tree so flags do
// not leak between lines. All trees share app.
func runLine(ctx context.Context, app *App, args []string, out io.Writer) error {
	root := &cobra.Command{
		Use:           "plenar>",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.AddCommand(
		newSearchCmd(app),
		newMoreCmd(app),
		newShowCmd(app),
		newSummaryCmd(app),
		newAnalyzeCmd(app),
		newAskCmd(app),
		newHistoryCmd(app),
	)
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(out)
	return root.ExecuteContext(ctx)
}

func newMoreCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "more",
		Short: "Load the next page of the current search",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws := app.Workspace
			if err := ws.LoadMore(cmd.Context()); err != nil {
				return err
			}
			renderList(cmd.OutOrStdout(), ws.Results().Documents(), ws.Results().NumFound(), ws.Results().CanLoadMore())
			return nil
		},
	}
}

func newAskCmd(app *App) *cobra.Command {
	var thoughts bool
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask about the selected transcript",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			turn, err := app.Workspace.Ask(cmd.Context(), strings.Join(args, " "))
			if errors.Is(err, conversations.ErrEmptyMessage) {
				return nil
			}
			if err != nil {
				return err
			}
			renderTurn(cmd.OutOrStdout(), turn, thoughts)
			return nil
		},
	}
	cmd.Flags().BoolVar(&thoughts, "thoughts", false, "print the model's thought trace")
	return cmd
}

func newHistoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Print the chat about the selected transcript",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			turns := app.Workspace.Conversation()
			if len(turns) == 0 {
				fmt.Fprintln(out, hintStyle.Render("Noch keine Fragen zu diesem Protokoll."))
				return nil
			}
			for _, t := range turns {
				renderTurn(out, t, false)
			}
			return nil
		},
	}
}

// splitLine splits on whitespace and keeps double-quoted parts together.
func splitLine(line string) []string {
	var (
		args    []string
		cur     strings.Builder
		quoted  bool
		pending bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			pending = true
		case !quoted && (r == ' ' || r == '\t'):
			if pending {
				args = append(args, cur.String())
				cur.Reset()
				pending = false
			}
		default:
			cur.WriteRune(r)
			pending = true
		}
	}
	if pending {
		args = append(args, cur.String())
	}
	return args
}
