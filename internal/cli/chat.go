package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/plenarlens/server/internal/agent/conversations"
)

const quitCommand = ":q"

func newChatCmd(app *App) *cobra.Command {
	var thoughts bool
	cmd := &cobra.Command{
		Use:   "chat <id>",
		Short: "Chat about one transcript",
		Long: `Chat about one transcript. Each input line is one question;
type :q or send EOF to leave.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			doc, err := app.Workspace.Open(ctx, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render(doc.Title))
			fmt.Fprintln(out, hintStyle.Render("Fragen Sie zum Protokoll. Beenden mit "+quitCommand+"."))

			in := bufio.NewScanner(cmd.InOrStdin())
			in.Buffer(make([]byte, 0, 64*1024), 1024*1024)
			for in.Scan() {
				line := strings.TrimSpace(in.Text())
				if line == quitCommand {
					break
				}
				if line == "" {
					continue
				}
				turn, err := app.Workspace.Ask(ctx, line)
				if errors.Is(err, conversations.ErrEmptyMessage) {
					continue
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(out)
				renderTurn(out, turn, thoughts)
				fmt.Fprintln(out)
			}
			return in.Err()
		},
	}
	cmd.Flags().BoolVar(&thoughts, "thoughts", false, "print the model's thought trace before each answer")
	return cmd
}
