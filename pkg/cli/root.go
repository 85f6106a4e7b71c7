package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gsy-tools/gsy/pkg/global"
	"github.com/gsy-tools/gsy/pkg/util/console"
)

func NewRootCommand() (*cobra.Command, error) {
	rootCmd := cobra.Command{
		Use:     "gsy",
		Short:   "Extract ground test data into CSV and Excel reports",
		Version: fmt.Sprintf("%s (built %s)", global.Version, global.BuildTime),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if global.Verbose {
				console.SetLevel(console.DebugLevel)
			}
			cmd.SilenceUsage = true
		},
		SilenceErrors: true,
	}
	rootCmd.SetGlobalNormalizationFunc(normalizeFlagName)
	setPersistentFlags(&rootCmd)

	rootCmd.AddCommand(
		newGTPCommand(),
		newDTRCommand(),
		newSARCommand(),
		newValidateCommand(),
	)

	return &rootCmd, nil
}

// normalizeFlagName lets flags written with underscores, like the .env variable names,
// resolve to their dashed form.
func normalizeFlagName(f *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

func setPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVarP(&global.Verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVar(&global.Debug, "debug", false, "Write request and response artifacts to the debug directory")
}
