package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/gsy-tools/gsy/pkg/api"
	"github.com/gsy-tools/gsy/pkg/config"
	"github.com/gsy-tools/gsy/pkg/dataset"
	"github.com/gsy-tools/gsy/pkg/debugfiles"
	"github.com/gsy-tools/gsy/pkg/extract"
	"github.com/gsy-tools/gsy/pkg/global"
	"github.com/gsy-tools/gsy/pkg/mapping"
	"github.com/gsy-tools/gsy/pkg/network"
	"github.com/gsy-tools/gsy/pkg/util"
	"github.com/gsy-tools/gsy/pkg/util/console"
)

type extractOptions struct {
	outputDir string
	force     bool
	parallel  int
}

func addExtractFlags(cmd *cobra.Command, opts *extractOptions) {
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", ".", "Directory where reports, logs and debug artifacts are written")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Overwrite existing reports without asking")
	cmd.Flags().IntVar(&opts.parallel, "parallel", 1, "Number of programs fetched concurrently")
}

// extraction describes one report-producing command: which systems it pulls, what the
// output files are called, and the post-processing applied before export.
type extraction struct {
	title      string
	label      string
	logFile    string
	baseName   string
	systems    []api.System
	useMapping bool
	post       func(*dataset.Dataset)
}

func runExtraction(ctx context.Context, opts *extractOptions, job extraction) error {
	outputDir, err := homedir.Expand(opts.outputDir)
	if err != nil {
		return util.WrapError(err, "resolving output directory")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return util.WrapError(err, "creating output directory")
	}

	if err := console.SetFile(filepath.Join(outputDir, job.logFile)); err != nil {
		console.Warnf("Could not open log file: %s", err)
	}
	defer console.CloseFile()

	banner(job.title)

	cfg, err := config.Load(outputDir)
	if err != nil {
		return err
	}

	var programMap mapping.Map
	if job.useMapping {
		mappingPath := filepath.Join(outputDir, mapping.File)
		if err := mapping.Require(mappingPath); err != nil {
			return err
		}
		if programMap, err = mapping.Load(mappingPath); err != nil {
			return err
		}
	}

	csvPath := filepath.Join(outputDir, job.baseName+".csv")
	xlsxPath := filepath.Join(outputDir, job.baseName+".xlsx")
	for _, path := range []string{csvPath, xlsxPath} {
		if err := dataset.ConfirmOverwrite(path, opts.force); err != nil {
			return err
		}
	}

	client, err := api.NewClient(cfg)
	if err != nil {
		return err
	}

	network.Diagnose(ctx, client, cfg)

	programs, err := client.Programs(ctx)
	if err != nil {
		return err
	}

	debug := debugfiles.New(cfg.Debug || global.Debug)
	debug.Root = filepath.Join(outputDir, "debug")

	extractor := &extract.Extractor{Client: client, Debug: debug, Parallel: opts.parallel}
	combined := dataset.New()
	for _, system := range job.systems {
		d, _, err := extractor.Run(ctx, system, programs)
		if err != nil {
			return err
		}
		combined.Concat(d)
	}

	if combined.Empty() {
		console.Warn("No data retrieved; nothing to export")
		return nil
	}

	if job.post != nil {
		job.post(combined)
	}
	if programMap != nil {
		renamed := programMap.Apply(combined)
		console.Infof("Program mapping applied: %d values renamed", renamed)
	}
	if column := extract.SubmittalDateColumn(job.systems[0]); column != "" {
		if flagged := combined.CheckSubmittal(column); flagged > 0 {
			console.Warnf("%d records have a submitted or approved status but no submittal date", flagged)
		}
	}

	if err := combined.ExportCSV(csvPath); err != nil {
		return util.WrapError(err, "writing CSV report")
	}
	console.Infof("CSV report written to %s", csvPath)

	ordered := combined.Reorder(extract.StandardOrder(job.systems[0]))
	meta := dataset.ExcelMeta{APIKey: cfg.APIKey, System: job.label, Environment: cfg.Environment}
	if err := ordered.ExportExcel(xlsxPath, meta); err != nil {
		return util.WrapError(err, "writing Excel report")
	}
	console.Infof("Excel report written to %s", xlsxPath)

	console.Info("Processing completed successfully!")
	console.Infof("Total records: %d", combined.Len())
	return nil
}

func banner(title string) {
	line := strings.Repeat("=", 60)
	console.Info(line)
	console.Infof("%s v%s", title, global.Version)
	console.Info(line)
}
