package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gsy-tools/gsy/pkg/manifest"
	"github.com/gsy-tools/gsy/pkg/util/console"
)

func newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a pip requirements manifest",
		Long: `Validate a pip requirements manifest.

Each line must be a pinned requirement in the form name<comparator>version,
for example "pandas>=2.1.0". Duplicate packages with conflicting constraints
are reported as errors.`,
		Args: cobra.MaximumNArgs(1),
		RunE: cmdValidate,
	}
	return cmd
}

func cmdValidate(cmd *cobra.Command, args []string) error {
	path := "requirements.txt"
	if len(args) == 1 {
		path = args[0]
	}

	m, err := manifest.Load(path)
	if err != nil {
		return err
	}

	issues := m.Validate()
	errorCount := 0
	for _, issue := range issues {
		if issue.Warning {
			console.Warn(issue.String())
			continue
		}
		errorCount++
		console.Error(issue.String())
	}

	if errorCount > 0 {
		return fmt.Errorf("%s: %d problem(s) found", path, errorCount)
	}
	console.Infof("%s: %d requirements OK (%d warnings)", path, len(m.Requirements), len(issues))
	return nil
}
