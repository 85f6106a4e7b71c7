package cli

import (
	"github.com/spf13/cobra"

	"github.com/gsy-tools/gsy/pkg/api"
	"github.com/gsy-tools/gsy/pkg/dataset"
	"github.com/gsy-tools/gsy/pkg/extract"
)

func newSARCommand() *cobra.Command {
	opts := &extractOptions{}
	cmd := &cobra.Command{
		Use:   "sar",
		Short: "Extract special action requests into getSAR reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtraction(cmd.Context(), opts, extraction{
				title:    "SAR Data Extraction",
				label:    "SAR",
				logFile:  "getSAR.log",
				baseName: "getSAR",
				systems:  []api.System{api.SystemSAR},
				post: func(d *dataset.Dataset) {
					extract.FixEstimatedDates(d)
				},
			})
		},
	}
	addExtractFlags(cmd, opts)
	return cmd
}
