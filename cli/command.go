package cli

import (
	"fmt"
	"strings"

	"github.com/kvesta/vulnmgt/config"
	"github.com/spf13/cobra"

	log "github.com/sirupsen/logrus"
)

const versions = `
vulnmgt version: 0.1.0
`

var (
	rootCmd = &cobra.Command{
		Use:   "vulnmgt [OPTIONS]",
		Short: "Vulnerability management jobs",
		Long: `vulnmgt reports the CVEs found on scanned hosts and cleans stale scan records
               from the vulnerability management database`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: loadSettings,
	}

	settings *config.Settings

	configFile string
	storeURI   string
	verbose    bool
	outfile    string
	jsonfile   string
	olderThan  int
	doDelete   bool
)

func loadSettings(cmd *cobra.Command, args []string) error {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if verbose {
		log.SetLevel(log.DebugLevel)
	}

	s, err := config.Load(configFile)
	if err != nil {
		return err
	}

	if uri := strings.TrimSpace(storeURI); uri != "" {
		s.Store.URI = uri
	}

	settings = s
	log.Debugf("Using store %s", s.Store.URI)

	return nil
}

func Execute() error {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information and quit",
		Args:  NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Print(versions, "\n")
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "yaml settings file")
	rootCmd.PersistentFlags().StringVar(&storeURI, "store", "", "store uri, mongodb://host:port or sqlite://path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	report()
	clean()
	load()

	rootCmd.AddCommand(versionCmd)
	return rootCmd.Execute()
}
