package cmd

import (
	"github.com/spf13/cobra"
)

func newTopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "top",
		Short: "Lists the top 100 repositories",
		Long:  `Fetches the current top 100 repository ranking and prints every repository with its position, stars, watchers, forks, open issues and language.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, cmd.Root().Name()+" activity")
			if err != nil {
				return err
			}
			if err := a.session.LoadRepositories(cmd.Context()); err != nil {
				return alerted(err)
			}
			return a.renderAll()
		},
	}
}
