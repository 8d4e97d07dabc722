// Package config loads the pipeline configuration from YAML and fills in
// production defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fairwaynet/fairwaygraph/pkg/integrate"
	"github.com/fairwaynet/fairwaygraph/pkg/report"
	"github.com/fairwaynet/fairwaygraph/pkg/schema"
	"github.com/fairwaynet/fairwaygraph/pkg/validation"
)

// Inputs names the source tables and snapshots the pipeline reads.
type Inputs struct {
	// FairwayDir holds the primary export (sections, junctions, auxiliary
	// attribute tables).
	FairwayDir string `yaml:"fairway_dir" validate:"required"`
	// EurisDir holds the per-region secondary export files.
	EurisDir string `yaml:"euris_dir" validate:"required"`
}

// Outputs names the files the pipeline writes.
type Outputs struct {
	// Dir receives the graph snapshots and the validation report.
	Dir string `yaml:"dir" validate:"required"`
	// ReportName is the markdown report filename.
	ReportName string `yaml:"report_name"`
}

// Pipeline is the complete pipeline configuration.
type Pipeline struct {
	Inputs  Inputs  `yaml:"inputs"`
	Outputs Outputs `yaml:"outputs"`

	Stitch integrate.StitchConfig `yaml:"stitch"`
	Merge  integrate.MergeConfig  `yaml:"merge"`
	Report report.Config          `yaml:"report"`
	Schema schema.Mapping         `yaml:"schema"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// Default returns the production configuration minus the input/output paths.
func Default() Pipeline {
	return Pipeline{
		Outputs:  Outputs{ReportName: "validation_report.md"},
		Stitch:   integrate.DefaultStitchConfig(),
		Merge:    integrate.DefaultMergeConfig(),
		Report:   report.DefaultConfig(),
		Schema:   schema.DefaultMapping(),
		LogLevel: "info",
	}
}

// Load reads and validates a pipeline configuration file. Omitted sections
// fall back to their defaults.
func Load(path string) (Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Pipeline{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse parses and validates a YAML pipeline configuration.
func Parse(data []byte) (Pipeline, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Pipeline{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Pipeline{}, err
	}
	return cfg, nil
}

func (p *Pipeline) applyDefaults() {
	def := Default()
	p.Outputs.ReportName = validation.DefaultOr(p.Outputs.ReportName, def.Outputs.ReportName)
	p.LogLevel = validation.DefaultOr(p.LogLevel, def.LogLevel)

	p.Stitch.HomeCountry = validation.DefaultOr(p.Stitch.HomeCountry, def.Stitch.HomeCountry)
	p.Stitch.DistanceThreshold = validation.DefaultOrFloat(p.Stitch.DistanceThreshold, def.Stitch.DistanceThreshold)
	p.Stitch.UTMZone = validation.DefaultOr(p.Stitch.UTMZone, def.Stitch.UTMZone)

	p.Merge.PrimaryTag = validation.DefaultOr(p.Merge.PrimaryTag, def.Merge.PrimaryTag)
	p.Merge.SecondaryTag = validation.DefaultOr(p.Merge.SecondaryTag, def.Merge.SecondaryTag)
	p.Merge.HomeCountry = validation.DefaultOr(p.Merge.HomeCountry, def.Merge.HomeCountry)
	p.Merge.EdgeIDAttribute = validation.DefaultOr(p.Merge.EdgeIDAttribute, def.Merge.EdgeIDAttribute)
	if p.Merge.PruneNodeIDs == nil {
		p.Merge.PruneNodeIDs = def.Merge.PruneNodeIDs
	}
	if p.Merge.PruneEdgeIDs == nil {
		p.Merge.PruneEdgeIDs = def.Merge.PruneEdgeIDs
	}

	p.Report.ExpectedBorderConnections = validation.DefaultOr(
		p.Report.ExpectedBorderConnections, def.Report.ExpectedBorderConnections)
	if p.Report.CriticalConnections == nil {
		p.Report.CriticalConnections = def.Report.CriticalConnections
	}
	if p.Schema.Nodes == nil && p.Schema.Edges == nil {
		p.Schema = def.Schema
	}
}

// Validate checks the configuration, struct tags first, then the per-stage
// semantic checks.
func (p Pipeline) Validate() error {
	if err := validation.ValidateStruct(p); err != nil {
		return err
	}
	v := validation.NewConfigValidator("Pipeline").
		Required("Inputs.FairwayDir", p.Inputs.FairwayDir).
		Required("Inputs.EurisDir", p.Inputs.EurisDir).
		Required("Outputs.Dir", p.Outputs.Dir).
		Custom("Stitch", p.Stitch.Validate).
		Custom("Merge", p.Merge.Validate).
		Custom("Report", p.Report.Validate)
	return v.Validate()
}
