package cli

import (
	"strings"

	"github.com/kvesta/vulnmgt/config"
	"github.com/kvesta/vulnmgt/internal"
	"github.com/kvesta/vulnmgt/pkg/vulnlib"
	"github.com/spf13/cobra"
)

func load() {
	importCmd := &cobra.Command{
		Use:       "import KIND FILE",
		Short:     "Load json documents into the store",
		Long:      "KIND is one of: " + strings.Join(vulnlib.Kinds(), ", ") + "\nFILE holds a json array or one document per line",
		Args:      cobra.ExactArgs(2),
		ValidArgs: vulnlib.Kinds(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return internal.DoImport(config.Ctx, settings, args[0], args[1])
		},
	}

	rootCmd.AddCommand(importCmd)
}
