package cli

import (
	"github.com/kvesta/vulnmgt/config"
	"github.com/kvesta/vulnmgt/internal"
	"github.com/spf13/cobra"
)

func report() {
	reportCmd := &cobra.Command{
		Use:   "report [CIDR]",
		Short: "Detailed vulnerability report in HTML",
		Long: `Examples:
  # Report every host
  $ vulnmgt report

  # Report a network range
  $ vulnmgt report 10.0.0.0/16

  # Save somewhere else and keep a json copy
  $ vulnmgt report 10.0.0.0/16 -o reports/office.html --json reports/office.json`,
		Args: MaxOneArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := internal.ReportOptions{
				Output:     outfile,
				JSONOutput: jsonfile,
			}
			if len(args) > 0 {
				opts.Network = args[0]
			}

			return internal.DoReport(config.Ctx, settings, opts)
		},
	}

	reportCmd.Flags().StringVarP(&outfile, "output", "o", "", "output file location (default \""+config.DefaultReportFile+"\")")
	reportCmd.Flags().StringVar(&jsonfile, "json", "", "also save the report as json")

	rootCmd.AddCommand(reportCmd)
}
