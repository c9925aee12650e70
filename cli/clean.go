package cli

import (
	"github.com/kvesta/vulnmgt/config"
	"github.com/kvesta/vulnmgt/internal"
	"github.com/spf13/cobra"
)

func clean() {
	cleanCmd := &cobra.Command{
		Use:   "clean",
		Short: "Find host records not updated recently",
		Long: `Examples:
  # Count records older than 28 days, nothing is removed
  $ vulnmgt clean

  # Remove records older than 14 days
  $ vulnmgt clean --days 14 --delete`,
		Args: NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return internal.DoClean(config.Ctx, settings, internal.CleanOptions{
				OlderThan: olderThan,
				Delete:    doDelete,
			})
		},
	}

	cleanCmd.Flags().IntVar(&olderThan, "days", 0, "days after which a record is stale (default from settings, 28)")
	cleanCmd.Flags().BoolVar(&doDelete, "delete", false, "remove the stale records instead of only counting them")

	rootCmd.AddCommand(cleanCmd)
}
