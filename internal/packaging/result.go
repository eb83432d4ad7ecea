package packaging

import "github.com/goliatone/go-bookbinder/internal/book"

// Stage names the pipeline steps in execution order.
type Stage string

const (
	StageSpineCheck Stage = "spine-check"
	StageAssemble   Stage = "assemble"
	StageConvert    Stage = "convert"
	StageValidate   Stage = "validate"
	StageExtract    Stage = "extract"
)

// StageResult records one stage's outcome. Skipped stages carry neither
// diagnostics nor an error.
type StageResult struct {
	Stage       Stage
	Skipped     bool
	Diagnostics []book.Diagnostic
	Err         error
}

// Result is the packaging outcome. Degraded means the primary artifact
// exists but at least one optional stage failed or findings were raised.
type Result struct {
	EPUBPath   string
	KF8Path    string
	ExtractDir string
	Valid      bool
	Degraded   bool
	Stages     []StageResult
}

// Diagnostics flattens every stage's findings in stage order.
func (r *Result) Diagnostics() []book.Diagnostic {
	var out []book.Diagnostic
	for _, s := range r.Stages {
		out = append(out, s.Diagnostics...)
	}
	return out
}

func (r *Result) record(stage Stage, skipped bool, diags []book.Diagnostic, err error) {
	r.Stages = append(r.Stages, StageResult{
		Stage:       stage,
		Skipped:     skipped,
		Diagnostics: diags,
		Err:         err,
	})
	if err != nil {
		r.Degraded = true
	}
	for _, d := range diags {
		if d.Severity == book.SeverityError {
			r.Degraded = true
		}
	}
}
