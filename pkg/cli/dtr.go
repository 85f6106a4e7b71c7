package cli

import (
	"github.com/spf13/cobra"

	"github.com/gsy-tools/gsy/pkg/api"
	"github.com/gsy-tools/gsy/pkg/extract"
)

func newDTRCommand() *cobra.Command {
	opts := &extractOptions{}
	cmd := &cobra.Command{
		Use:   "dtr",
		Short: "Extract BDI and TechRep document test reports into BDI_TechReports reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtraction(cmd.Context(), opts, extraction{
				title:      "DTR Data Extraction",
				label:      "DTR",
				logFile:    "getDTRs.log",
				baseName:   "BDI_TechReports",
				systems:    []api.System{api.SystemBDI, api.SystemTechRep},
				useMapping: true,
				post:       extract.MergeFinishedDates,
			})
		},
	}
	addExtractFlags(cmd, opts)
	return cmd
}
