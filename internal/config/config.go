// Package config handles stairgen configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/Faultbox/stairgen/pkg/encoding"
)

// Error policies for templates that fail orientation checks.
const (
	PolicyAbort    = "abort"
	PolicyContinue = "continue"
)

// Config holds all generator settings.
type Config struct {
	Materials MaterialsConfig `yaml:"materials"`
	Ramp      RampConfig      `yaml:"ramp"`
	Generate  GenerateConfig  `yaml:"generate"`
	Input     InputConfig     `yaml:"input"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// MaterialsConfig holds the material tags that mark template brushes.
type MaterialsConfig struct {
	Marker string `yaml:"marker"` // Front face of a template
	Skip   string `yaml:"skip"`   // Every other template face
}

// RampConfig holds the shape and default attributes of generated ramps.
type RampConfig struct {
	StepLength float64      `yaml:"step_length"`
	StepHeight float64      `yaml:"step_height"`
	Side       SideConfig   `yaml:"side"`
	Editor     EditorConfig `yaml:"editor"`
}

// SideConfig holds the attributes written to every generated face.
type SideConfig struct {
	Material        string `yaml:"material"`
	UAxis           string `yaml:"uaxis"`
	VAxis           string `yaml:"vaxis"`
	Rotation        string `yaml:"rotation"`
	LightmapScale   string `yaml:"lightmapscale"`
	SmoothingGroups string `yaml:"smoothing_groups"`
}

// EditorConfig holds the editor block written to every generated solid.
type EditorConfig struct {
	Color             string `yaml:"color"`
	VisgroupShown     string `yaml:"visgroupshown"`
	VisgroupAutoShown string `yaml:"visgroupautoshown"`
}

// GenerateConfig holds pipeline behaviour.
type GenerateConfig struct {
	OnError string `yaml:"on_error"` // abort or continue
	Backup  bool   `yaml:"backup"`   // keep a compressed copy before overwriting
	Output  string `yaml:"output"`   // empty: overwrite the input
}

// InputConfig holds map file decoding settings.
type InputConfig struct {
	Encoding string `yaml:"encoding"` // auto, utf-8 or windows-1252
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Materials: MaterialsConfig{
			Marker: "SIGNS/STAIRS_RED",
			Skip:   "TOOLS/TOOLSSKIP",
		},
		Ramp: RampConfig{
			StepLength: 12,
			StepHeight: 8,
			Side: SideConfig{
				Material:        "DEV/DEV_BLENDMEASURE2",
				UAxis:           "[1 0 0 0] 0.25",
				VAxis:           "[0 -1 0 0] 0.25",
				Rotation:        "0",
				LightmapScale:   "16",
				SmoothingGroups: "0",
			},
			Editor: EditorConfig{
				Color:             "255 160 10",
				VisgroupShown:     "1",
				VisgroupAutoShown: "1",
			},
		},
		Generate: GenerateConfig{
			OnError: PolicyAbort,
			Backup:  true,
		},
		Input: InputConfig{
			Encoding: "auto",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports settings the generator cannot work with.
func (c *Config) Validate() error {
	var errs error
	if c.Ramp.StepLength <= 0 || c.Ramp.StepHeight <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("ramp step size must be positive, got %v:%v", c.Ramp.StepLength, c.Ramp.StepHeight))
	}
	if strings.TrimSpace(c.Materials.Marker) == "" || strings.TrimSpace(c.Materials.Skip) == "" {
		errs = multierr.Append(errs, errors.New("marker and skip materials must be set"))
	} else if strings.EqualFold(c.Materials.Marker, c.Materials.Skip) {
		errs = multierr.Append(errs, fmt.Errorf("marker and skip materials are both %q", c.Materials.Marker))
	}
	switch c.Generate.OnError {
	case PolicyAbort, PolicyContinue:
	default:
		errs = multierr.Append(errs, fmt.Errorf("generate.on_error must be %q or %q, got %q", PolicyAbort, PolicyContinue, c.Generate.OnError))
	}
	if c.Input.Encoding != "auto" {
		if _, err := encoding.Normalize(c.Input.Encoding); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("input.encoding: %w", err))
		}
	}
	return errs
}
