package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/naka-gawa/top-repos/internal/console"
	"github.com/spf13/cobra"
)

const browseHelp = `Commands:
  list                     (re)load the top 100 ranking
  activity <n|owner/repo>  load commit activity for item n or a repository
  all                      load commit activity for every listed repository
  show                     print the list again
  help                     show this help
  quit                     leave the shell`

func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Starts an interactive shell over the ranking",
		Long:  `Starts an interactive shell that keeps the loaded ranking in memory, so commit activity can be loaded for listed repositories one after another.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, "activity")
			if err != nil {
				return err
			}
			return a.browse(cmd)
		},
	}
}

// browse runs the shell until quit, end of input or cancellation. A failing
// command has already been alerted and does not end the shell.
func (a *app) browse(cmd *cobra.Command) error {
	ctx := cmd.Context()
	fmt.Fprintln(a.errOut, browseHelp)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		fmt.Fprint(a.errOut, "> ")
		line, err := a.console.ReadLine(ctx)
		if errors.Is(err, console.ErrPromptAborted) {
			return nil
		}
		if err != nil {
			return err
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "list", "l":
			if err := a.session.LoadRepositories(ctx); err == nil {
				if err := a.renderAll(); err != nil {
					return err
				}
			}
		case "activity", "a":
			if len(fields) != 2 {
				fmt.Fprintln(a.errOut, "usage: activity <n|owner/repo>")
				continue
			}
			id := a.resolveTarget(fields[1])
			appended, err := a.session.LoadActivity(ctx, id, nil)
			if err != nil || !appended {
				continue
			}
			item, _ := a.session.List().Lookup(id)
			if err := a.renderer.RenderItem(a.out, item); err != nil {
				return err
			}
		case "all":
			_ = a.session.LoadActivityAll(ctx, nil)
			if err := a.renderAll(); err != nil {
				return err
			}
		case "show":
			if err := a.renderAll(); err != nil {
				return err
			}
		case "help", "h", "?":
			fmt.Fprintln(a.errOut, browseHelp)
		case "quit", "exit", "q":
			return nil
		default:
			fmt.Fprintf(a.errOut, "unknown command %q, type help\n", fields[0])
		}
	}
}

// resolveTarget maps a list position to its identifier. Anything else is
// used as an identifier as given.
func (a *app) resolveTarget(arg string) string {
	if n, err := strconv.Atoi(arg); err == nil {
		if item, ok := a.session.List().At(n); ok {
			return item.Summary.Repo
		}
	}
	return arg
}
