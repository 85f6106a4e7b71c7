// Package extract drives an extraction run for one system: paginated per-program
// fetches, aggregation, and the post-processing each system needs.
package extract

import (
	"bytes"
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gsy-tools/gsy/pkg/api"
	"github.com/gsy-tools/gsy/pkg/dataset"
	"github.com/gsy-tools/gsy/pkg/debugfiles"
	"github.com/gsy-tools/gsy/pkg/util/console"
)

type Stats struct {
	Programs  int
	Succeeded int
	Failed    int
	Records   int
	Elapsed   time.Duration
}

type Extractor struct {
	Client *api.Client
	Debug  *debugfiles.Writer

	// Parallel is the number of programs fetched concurrently. The upstream server
	// tolerates a little concurrency but not much; 1 reproduces strictly sequential
	// fetching.
	Parallel int
}

// Run fetches all pages for every program and returns the combined dataset. The
// combined dataset follows program order regardless of fetch completion order.
// Individual program failures are counted and logged, not fatal.
func (e *Extractor) Run(ctx context.Context, system api.System, programs []api.Program) (*dataset.Dataset, *Stats, error) {
	start := time.Now()
	console.Infof("Fetching %s data...", system)

	stats := &Stats{Programs: len(programs)}
	results := make([]*dataset.Dataset, len(programs))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallel())
	for i, program := range programs {
		i, program := i, program
		g.Go(func() error {
			d, err := e.fetchProgram(gctx, system, program, i, len(programs))

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				stats.Failed++
				console.Warnf("[%02d/%02d] Failed to retrieve data for %s: %s", i+1, len(programs), program.DisplayName(), err)
				return nil
			}
			if !d.Empty() {
				stats.Succeeded++
				results[i] = d
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	combined := dataset.New()
	for _, d := range results {
		combined.Concat(d)
	}
	stats.Records = combined.Len()
	stats.Elapsed = time.Since(start)

	console.Infof("%s data retrieval complete:", system)
	console.Infof("  Successful: %d/%d programs", stats.Succeeded, stats.Programs)
	console.Infof("  Failed: %d/%d programs", stats.Failed, stats.Programs)
	console.Infof("  Total records: %d", stats.Records)
	console.Infof("  Elapsed: %s", stats.Elapsed.Round(time.Second))
	return combined, stats, nil
}

func (e *Extractor) fetchProgram(ctx context.Context, system api.System, program api.Program, idx, total int) (*dataset.Dataset, error) {
	console.Infof("[%02d/%02d] %s - %s - %s", idx+1, total, program.ID, program.Code, program.Description)

	d := dataset.New()
	page := 1
	for {
		e.Debug.WriteText(debugfiles.URLFile(string(system), idx, page), e.Client.PageURL(system, program.ID, page))

		// Pages after the first are fetched silently to keep the log readable.
		records, raw, err := e.Client.FetchPage(ctx, system, program.ID, page, page > 1)
		if err != nil {
			if page == 1 {
				return nil, err
			}
			console.Warnf("Failed to retrieve page %d for %s", page, program.DisplayName())
			break
		}
		e.Debug.WriteText(debugfiles.ResponseFile(string(system), idx, page), string(raw))
		e.Debug.WriteJSON(debugfiles.ParsedFile(string(system), idx, page), records)

		if len(records) == 0 {
			if page == 1 {
				console.Debugf("No data found for program ID: %s", program.ID)
			}
			break
		}
		for _, record := range records {
			d.Append(record)
		}

		// A page of exactly PageSize records means another page may follow.
		if len(records) < e.Client.PageSize {
			break
		}
		page++
		console.Infof("[%02d/%02d] Fetching page %d", idx+1, total, page)
	}

	if !d.Empty() {
		console.Infof("Program %s (%s): %d records found", program.ID, program.Code, d.Len())
		if e.Debug != nil && e.Debug.Enabled {
			var buf bytes.Buffer
			if err := d.WriteCSV(&buf); err == nil {
				e.Debug.WriteText(debugfiles.RecordsFile(string(system), idx, page), buf.String())
			}
		}
	}
	return d, nil
}

func (e *Extractor) parallel() int {
	if e.Parallel < 1 {
		return 1
	}
	return e.Parallel
}

// StandardOrder returns the export column order for a system. SAR has no fixed order;
// its reports keep the columns the API returned.
func StandardOrder(system api.System) []string {
	switch system {
	case api.SystemGTP:
		return dataset.GTPColumnOrder
	case api.SystemBDI, api.SystemTechRep:
		return dataset.DTRColumnOrder
	default:
		return nil
	}
}

// SubmittalDateColumn names the column checked against dtrStatus, empty when the system
// has no such rule.
func SubmittalDateColumn(system api.System) string {
	switch system {
	case api.SystemGTP:
		return "submittalDate"
	case api.SystemBDI, api.SystemTechRep:
		return "gtpSubmittalDate"
	default:
		return ""
	}
}
