// Command fairwaygraph integrates the national and pan-European waterway
// graph snapshots into one combined network and validates the result.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fairwaynet/fairwaygraph/pkg/config"
	"github.com/fairwaynet/fairwaygraph/pkg/integrate"
	"github.com/fairwaynet/fairwaygraph/pkg/logging"
	"github.com/fairwaynet/fairwaygraph/pkg/metrics"
	"github.com/fairwaynet/fairwaygraph/pkg/report"
	"github.com/fairwaynet/fairwaygraph/pkg/schema"
	"github.com/fairwaynet/fairwaygraph/pkg/snapshot"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "integrate":
		err = runIntegrate(os.Args[2:])
	case "inspect":
		err = runInspect(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: fairwaygraph <command> [flags]

commands:
  integrate   stitch, merge and validate the fairway and euris graph snapshots
  inspect     print a summary of a graph snapshot`)
}

func runIntegrate(args []string) error {
	fs := flag.NewFlagSet("integrate", flag.ExitOnError)
	configPath := fs.String("config", "pipeline.yaml", "Pipeline configuration file")
	fairwayPath := fs.String("fairway", "", "Fairway graph snapshot (defaults to <fairway_dir>/graph.snap)")
	eurisPath := fs.String("euris", "", "Euris graph snapshot (defaults to <euris_dir>/graph.snap)")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	log := logging.NewDefaultLogger()
	log.SetLevel(logging.ParseLevel(cfg.LogLevel))
	reg := metrics.DefaultRegistry()

	if *fairwayPath == "" {
		*fairwayPath = filepath.Join(cfg.Inputs.FairwayDir, "graph.snap")
	}
	if *eurisPath == "" {
		*eurisPath = filepath.Join(cfg.Inputs.EurisDir, "graph.snap")
	}

	primary, err := snapshot.Load(*fairwayPath, log)
	if err != nil {
		return err
	}
	secondary, err := snapshot.Load(*eurisPath, log)
	if err != nil {
		return err
	}
	reg.ObserveGraph("fairway", primary)
	reg.ObserveGraph("euris", secondary)

	stitcher, err := integrate.NewStitcher(cfg.Stitch, log)
	if err != nil {
		return err
	}
	start := time.Now()
	connections := stitcher.FindBorderConnections(primary, secondary)
	reg.RecordStage("stitch", "ok", time.Since(start))

	gaps := make([]float64, len(connections))
	for i, c := range connections {
		gaps[i] = c.Distance
	}
	reg.RecordBorderConnections(gaps)

	merger, err := integrate.NewMerger(cfg.Merge, log)
	if err != nil {
		return err
	}
	start = time.Now()
	combined := merger.Merge(primary, secondary, connections)
	reg.RecordStage("merge", "ok", time.Since(start))
	reg.ObserveGraph("combined", combined)

	harmonizer := schema.NewHarmonizer(cfg.Schema, log)
	harmonizer.Apply(combined)

	validator, err := report.NewValidator(cfg.Report, cfg.Schema, log)
	if err != nil {
		return err
	}
	result := validator.Run(combined)

	if err := os.MkdirAll(cfg.Outputs.Dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	combinedPath := filepath.Join(cfg.Outputs.Dir, "combined_graph.snap")
	start = time.Now()
	size, err := snapshot.Save(combinedPath, combined, log)
	if err != nil {
		return err
	}
	reg.RecordSnapshot("combined", size, time.Since(start))

	reportPath := filepath.Join(cfg.Outputs.Dir, cfg.Outputs.ReportName)
	if err := os.WriteFile(reportPath, []byte(report.RenderMarkdown(result)), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	raw, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	jsonPath := filepath.Join(cfg.Outputs.Dir, "validation_report.json")
	if err := os.WriteFile(jsonPath, raw, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	log.Info("integration complete",
		logging.Path(combinedPath),
		logging.Int("border_connections", len(connections)),
		logging.String("border_status", result.BorderIntegrity.Status))
	return nil
}

func runInspect(args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: fairwaygraph inspect <snapshot>")
	}

	summary, err := snapshot.Describe(fs.Arg(0))
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}
