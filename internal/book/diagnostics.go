package book

import "fmt"

// Severity grades a build diagnostic.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Diagnostic is one non-fatal condition observed during a build: an
// unresolved reference, a reserved identifier, a missing spine, a validator
// finding. Fatal conditions are returned as errors instead.
type Diagnostic struct {
	Severity Severity
	// Stage names the pipeline stage or component that emitted the entry
	// (e.g. "identify", "xref", "package.validate").
	Stage string
	// Chapter names the offending chapter id when one applies.
	Chapter string
	// Ref names the offending identifier or reference target when one applies.
	Ref     string
	Message string
	Err     error
}

func (d Diagnostic) String() string {
	out := fmt.Sprintf("%s [%s]", d.Severity, d.Stage)
	if d.Chapter != "" {
		out += " chapter=" + d.Chapter
	}
	if d.Ref != "" {
		out += " ref=" + d.Ref
	}
	out += ": " + d.Message
	if d.Err != nil {
		out += ": " + d.Err.Error()
	}
	return out
}

// Warnf builds a warning diagnostic.
func Warnf(stage, chapter, ref, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: SeverityWarning,
		Stage:    stage,
		Chapter:  chapter,
		Ref:      ref,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Errorf builds an error diagnostic.
func Errorf(stage, chapter, ref, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: SeverityError,
		Stage:    stage,
		Chapter:  chapter,
		Ref:      ref,
		Message:  fmt.Sprintf(format, args...),
	}
}
