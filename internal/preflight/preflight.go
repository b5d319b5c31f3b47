package preflight

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"packrat/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every applicable environment check for the given config.
// Used by the status command; the workflow engine runs the same checks
// individually before spawning a step worker.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, checkSourceResult(cfg))
	results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir))
	results = append(results, checkSpaceResult(cfg))

	return results
}

func checkSourceResult(cfg *config.Config) Result {
	const name = "Source installation"
	if cfg.Paths.SourceDir == "" {
		return Result{Name: name, Detail: "paths.source_dir not configured"}
	}
	if err := CheckSource(cfg.Paths.SourceDir, cfg.Archive.MarkerFile); err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (marker %s present)", cfg.Paths.SourceDir, cfg.Archive.MarkerFile)}
}

func checkSpaceResult(cfg *config.Config) Result {
	const name = "Destination space"
	if cfg.Paths.SourceDir == "" {
		return Result{Name: name, Detail: "cannot estimate without a source"}
	}

	required, err := EstimateRequiredSpace(cfg.Paths.SourceDir)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("estimate failed: %v", err)}
	}
	required = WithMargin(required, cfg.Archive.SpaceMarginPercent)

	available, err := AvailableSpace(cfg.Paths.DestDir)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("free-space query failed: %v", err)}
	}

	verdict := CheckSpace(required, available)
	detail := fmt.Sprintf("need %s, have %s", humanize.IBytes(required), humanize.IBytes(available))
	if !verdict.Sufficient {
		detail = fmt.Sprintf("%s (short %s)", detail, humanize.IBytes(verdict.Shortfall))
	}
	return Result{Name: name, Passed: verdict.Sufficient, Detail: detail}
}
