// Package runtimeconfig holds the user-facing build configuration and its
// validation rules.
package runtimeconfig

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Metadata is the descriptive metadata carried into the package document.
type Metadata struct {
	Title      string `json:"title" yaml:"title"`
	Author     string `json:"author" yaml:"author"`
	Language   string `json:"language" yaml:"language"`
	Publisher  string `json:"publisher" yaml:"publisher"`
	Date       string `json:"date" yaml:"date"`
	Identifier string `json:"identifier" yaml:"identifier"`
}

// Logging mirrors the logger provider options surfaced to the CLI.
type Logging struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
	Focus  string `json:"focus" yaml:"focus"`
}

// Config is one build's full configuration.
type Config struct {
	SourceDir     string   `json:"source_dir" yaml:"source_dir"`
	Pattern       string   `json:"pattern" yaml:"pattern"`
	Recursive     bool     `json:"recursive" yaml:"recursive"`
	OutputTarget  string   `json:"output" yaml:"output"`
	Format        string   `json:"format" yaml:"format"`
	Compress      string   `json:"compress" yaml:"compress"`
	// CheckArtifact runs the external conformance checker over the finished
	// container. Surfaces as "validate" in config files and on the CLI.
	CheckArtifact bool     `json:"validate" yaml:"validate"`
	Extract       bool     `json:"extract" yaml:"extract"`
	IDPrefix      string   `json:"id_prefix" yaml:"id_prefix"`
	IDSeparator   string   `json:"id_separator" yaml:"id_separator"`
	Workers       int      `json:"workers" yaml:"workers"`
	ConverterPath string   `json:"converter_path" yaml:"converter_path"`
	ValidatorPath string   `json:"validator_path" yaml:"validator_path"`
	Metadata      Metadata `json:"metadata" yaml:"metadata"`
	Logging       Logging  `json:"logging" yaml:"logging"`
}

// DefaultConfig returns a config that builds an EPUB 3 from ./chapters.
func DefaultConfig() Config {
	return Config{
		SourceDir:    "chapters",
		Pattern:      "*.md",
		OutputTarget: "book.epub",
		Format:       "epub3",
		Compress:     "default",
		IDPrefix:     "_",
		IDSeparator:  "_",
		Metadata: Metadata{
			Language: "en",
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate enforces the invariants the pipeline assumes.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.SourceDir, validation.Required),
		validation.Field(&c.OutputTarget, validation.Required),
		validation.Field(&c.Format, validation.Required, validation.In("epub3", "kf8")),
		validation.Field(&c.Compress, validation.In("", "default", "store", "fastest", "best")),
		validation.Field(&c.Workers, validation.Min(0)),
		validation.Field(&c.IDSeparator, validation.Required),
	)
}
