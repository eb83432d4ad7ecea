// Package identify derives unique, markup-safe identifiers for chapters.
// Derivation is deterministic for identical title/prefix/separator inputs so
// rebuilds of the same source produce stable anchors.
package identify

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/goliatone/go-bookbinder/internal/book"
	"github.com/goliatone/go-bookbinder/internal/htmltext"
	"github.com/goliatone/go-bookbinder/internal/logging"
	"github.com/goliatone/go-bookbinder/pkg/interfaces"
)

const (
	stageName  = "identify"
	anonMarker = "anon"

	// DefaultPrefix and DefaultSeparator mirror the configuration defaults.
	DefaultPrefix    = "_"
	DefaultSeparator = "_"
)

// reservedIDs are recognised by packaging formats and readers. A chapter may
// still use one, but the build reports it.
var reservedIDs = map[string]struct{}{
	"cover": {},
	"nav":   {},
	"ncx":   {},
}

var nonWordRun = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// Assigner derives chapter identifiers. The zero value is not usable; call
// NewAssigner.
type Assigner struct {
	prefix    string
	separator string
	logger    interfaces.Logger
}

// NewAssigner builds an assigner with the given prefix and separator.
// An empty separator falls back to DefaultSeparator; the prefix may be empty.
func NewAssigner(prefix, separator string, provider interfaces.LoggerProvider) *Assigner {
	if separator == "" {
		separator = DefaultSeparator
	}
	return &Assigner{
		prefix:    prefix,
		separator: separator,
		logger:    logging.IdentifyLogger(provider),
	}
}

// Assign derives the identifier for a single chapter and returns it together
// with any diagnostics. It never fails; the worst case is a synthesized
// anonymous identifier. No cross-chapter uniqueness check happens here; see
// AssignAll.
func (a *Assigner) Assign(ch *book.Chapter) (string, []book.Diagnostic) {
	var diags []book.Diagnostic

	id := a.deriveID(ch, &diags)

	if _, reserved := reservedIDs[id]; reserved {
		d := book.Warnf(stageName, id, id, "identifier %q is reserved by the packaging format", id)
		diags = append(diags, d)
		a.logger.Warn("reserved identifier used", "chapter", ch.SourcePath, "id", id)
	}

	return id, diags
}

func (a *Assigner) deriveID(ch *book.Chapter, diags *[]book.Diagnostic) string {
	if explicit := strings.TrimSpace(ch.ExplicitID); explicit != "" {
		if !slug.IsValid(explicit) {
			*diags = append(*diags, book.Warnf(stageName, explicit, explicit,
				"explicit identifier %q is not a normalized slug; using it verbatim", explicit))
			a.logger.Warn("explicit identifier is not a normalized slug", "chapter", ch.SourcePath, "id", explicit)
		}
		return explicit
	}

	if !ch.HasExplicitHeader {
		if section := strings.TrimSpace(ch.FirstSectionID); section != "" {
			return section
		}
		return a.synthesize()
	}

	derived := a.slugify(ch.Title)
	if derived == "" {
		return a.synthesize()
	}
	return derived
}

// synthesize builds an identifier for anonymous chapters from a fixed
// prefix, a literal marker, the separator, and a token unique for the build.
// The token is not derived from content, so two distinct anonymous chapters
// never collide.
func (a *Assigner) synthesize() string {
	prefix := a.prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return prefix + anonMarker + a.separator + token
}

// slugify derives an identifier from a raw title: strip inline markup,
// decode character references, lower-case, collapse non-word runs into the
// separator, trim, and apply prefix/digit rules. Returns "" for degenerate
// titles.
func (a *Assigner) slugify(title string) string {
	value := htmltext.Strip(title)
	value = decodeCharacterReferences(value)
	value = strings.Map(dropDroppedRunes, value)
	value = strings.ToLower(value)
	value = nonWordRun.ReplaceAllString(value, a.separator)
	value = collapseRuns(value, a.separator)
	value = strings.TrimPrefix(value, a.separator)
	value = strings.TrimSuffix(value, a.separator)
	if value == "" {
		return ""
	}

	if a.prefix != "" {
		if !strings.HasPrefix(value, a.prefix) {
			value = a.prefix + value
		}
		return value
	}
	if isDigit(value[0]) {
		value = "_" + value
	}
	return value
}

// AssignAll assigns identifiers to every chapter in spine order and applies
// the collision policy: the first chapter keeps the derived id, later
// chapters with the same id receive a numeric suffix. Chapter IDs are
// immutable after this returns.
func (a *Assigner) AssignAll(chapters []*book.Chapter) []book.Diagnostic {
	var diags []book.Diagnostic
	seen := map[string]*book.Chapter{}

	for _, ch := range chapters {
		if ch == nil {
			continue
		}
		id, d := a.Assign(ch)
		diags = append(diags, d...)

		if prior, taken := seen[id]; taken {
			unique := a.suffixed(id, seen)
			diags = append(diags, book.Warnf(stageName, unique, id,
				"identifier %q already assigned to chapter %q; using %q", id, prior.SourcePath, unique))
			a.logger.Warn("identifier collision",
				"id", id, "first", prior.SourcePath, "chapter", ch.SourcePath, "renamed", unique)
			id = unique
		}
		seen[id] = ch
		ch.ID = id
	}
	return diags
}

func (a *Assigner) suffixed(id string, seen map[string]*book.Chapter) string {
	for n := 2; ; n++ {
		candidate := id + a.separator + strconv.Itoa(n)
		if _, taken := seen[candidate]; !taken {
			return candidate
		}
	}
}

func collapseRuns(s, sep string) string {
	if sep == "" {
		return s
	}
	double := sep + sep
	for strings.Contains(s, double) {
		s = strings.ReplaceAll(s, double, sep)
	}
	return s
}

// dropDroppedRunes removes runes that decode-to-empty when they appear as
// literals rather than character references (the markup stripper may have
// decoded them already).
func dropDroppedRunes(r rune) rune {
	if r == rightSingleQuote {
		return -1
	}
	return r
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
