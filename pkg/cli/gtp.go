package cli

import (
	"github.com/spf13/cobra"

	"github.com/gsy-tools/gsy/pkg/api"
)

func newGTPCommand() *cobra.Command {
	opts := &extractOptions{}
	cmd := &cobra.Command{
		Use:   "gtp",
		Short: "Extract ground test proposals into getGTPs reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtraction(cmd.Context(), opts, extraction{
				title:      "GTP Data Extraction",
				label:      "GTP",
				logFile:    "getGTPs.log",
				baseName:   "getGTPs",
				systems:    []api.System{api.SystemGTP},
				useMapping: true,
			})
		},
	}
	addExtractFlags(cmd, opts)
	return cmd
}
