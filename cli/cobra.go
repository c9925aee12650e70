package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func NoArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}

	if cmd.HasSubCommands() {
		return errors.New("\n" + strings.TrimRight(cmd.UsageString(), "\n"))
	}

	return fmt.Errorf("\"%s\" accepts no argument(s).\nSee '%s --help'.\n\nUsage:  %s\n\n%s",
		cmd.CommandPath(),
		cmd.CommandPath(),
		cmd.UseLine(),
		cmd.Short)
}

// MaxOneArg allows a single optional positional argument
func MaxOneArg(cmd *cobra.Command, args []string) error {
	if len(args) <= 1 {
		return nil
	}

	return fmt.Errorf("\"%s\" accepts at most 1 argument, received %d.\nSee '%s --help'.\n\nUsage:  %s\n\n%s",
		cmd.CommandPath(),
		len(args),
		cmd.CommandPath(),
		cmd.UseLine(),
		cmd.Short)
}
