package cmd

import (
	"errors"

	"github.com/naka-gawa/top-repos/internal/usecase"
	"github.com/spf13/cobra"
)

func newActivityCmd() *cobra.Command {
	activityCmd := &cobra.Command{
		Use:   "activity [owner/repo]",
		Short: "Shows the commit activity of a listed repository",
		Long: `Loads the top 100 ranking, then fetches per-day commit activity for the
given repository (or every listed repository with --all) and prints the
repository with its activity. Dates not given by flags are prompted for.
A repository that is not in the ranking prints nothing.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")
			if all == (len(args) == 1) {
				return errors.New("give exactly one of an owner/repo argument or --all")
			}
			dates, err := dateRangeFlags(cmd)
			if err != nil {
				return err
			}

			a, err := newApp(cmd, cmd.Root().Name()+" activity")
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := a.session.LoadRepositories(ctx); err != nil {
				return alerted(err)
			}

			if all {
				err := a.session.LoadActivityAll(ctx, dates)
				if rerr := a.renderAll(); rerr != nil {
					return rerr
				}
				if err != nil {
					return alerted(err)
				}
				return nil
			}

			id := args[0]
			appended, err := a.session.LoadActivity(ctx, id, dates)
			if err != nil {
				return alerted(err)
			}
			if !appended {
				a.logger.Debugf("%s is not in the ranking, nothing to show", id)
				return nil
			}
			item, _ := a.session.List().Lookup(id)
			return a.renderer.RenderItem(a.out, item)
		},
	}
	activityCmd.Flags().String("since", "", "Start date (YYYY-MM-DD), prompted for when omitted")
	activityCmd.Flags().String("until", "", "End date (YYYY-MM-DD), prompted for when omitted")
	activityCmd.Flags().Bool("all", false, "Load activity for every listed repository")
	return activityCmd
}

// dateRangeFlags returns the range given by --since and --until, or nil when
// neither is set so that the session prompts for both.
func dateRangeFlags(cmd *cobra.Command) (*usecase.DateRange, error) {
	flags := cmd.Flags()
	sinceSet, untilSet := flags.Changed("since"), flags.Changed("until")
	if !sinceSet && !untilSet {
		return nil, nil
	}
	if sinceSet != untilSet {
		return nil, errors.New("--since and --until must be given together")
	}
	since, _ := flags.GetString("since")
	until, _ := flags.GetString("until")
	return &usecase.DateRange{Since: since, Until: until}, nil
}
