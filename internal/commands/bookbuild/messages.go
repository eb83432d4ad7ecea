package bookbuildcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const buildBookMessageType = "bookbinder.build_book"

// BuildBookCommand triggers a full build: parse the chapter sources under
// SourceDir, resolve cross references, and package the container at Output.
type BuildBookCommand struct {
	// SourceDir selects the directory holding markdown chapter sources.
	SourceDir string `json:"source_dir"`
	// Output is the primary artifact path; defaults apply when empty.
	Output string `json:"output,omitempty"`
	// Format selects the final artifact, epub3 or kf8.
	Format string `json:"format,omitempty"`
	// Compress selects the archive compression profile.
	Compress string `json:"compress,omitempty"`
	// CheckArtifact runs the external conformance checker over the artifact.
	CheckArtifact bool `json:"check_artifact,omitempty"`
	// Extract unpacks the finished container beside the artifact.
	Extract bool `json:"extract,omitempty"`
	// Title overrides the book title recorded in the package metadata.
	Title string `json:"title,omitempty"`
	// Author overrides the creator recorded in the package metadata.
	Author string `json:"author,omitempty"`
}

// Type implements command.Message.
func (BuildBookCommand) Type() string { return buildBookMessageType }

// Validate ensures the source directory is present before handlers execute.
func (cmd BuildBookCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.SourceDir, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("bookbinder.build_book.source_dir_required", "source directory is required")
			}
			return nil
		})),
		validation.Field(&cmd.Format, validation.In("", "epub3", "kf8")),
		validation.Field(&cmd.Compress, validation.In("", "default", "store", "fastest", "best")),
	)
}
