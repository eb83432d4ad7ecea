package identify

import (
	"strconv"
	"strings"
)

// rightSingleQuote is dropped entirely when deriving identifiers, matching
// the visual convention of omitting apostrophes from slugs.
const rightSingleQuote = 0x2019

// namedEntities maps the named character references recognised during
// identifier derivation. "amp" is special-cased to the word "and" before
// this table is consulted.
var namedEntities = map[string]string{
	"lt":     "<",
	"gt":     ">",
	"quot":   `"`,
	"apos":   "'",
	"nbsp":   " ",
	"ndash":  "-",
	"mdash":  "-",
	"hellip": "...",
	"lsquo":  "'",
	"rsquo":  "", // same drop rule as &#8217;
}

// decodeCharacterReferences resolves ampersand-entity and numeric character
// references in s. The literal "&amp;" token decodes to the word "and", not
// the character "&"; numeric references decode by Unicode code point, except
// code point 8217 (right single quote) which decodes to the empty string.
// Unrecognised references pass through verbatim and degrade to separator
// runs during slugging.
func decodeCharacterReferences(s string) string {
	if !strings.ContainsRune(s, '&') {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '&' {
			b.WriteByte(s[i])
			i++
			continue
		}
		end := strings.IndexByte(s[i:], ';')
		if end < 0 {
			b.WriteString(s[i:])
			break
		}
		entity := s[i+1 : i+end]
		i += end + 1

		switch {
		case entity == "amp":
			b.WriteString("and")
		case strings.HasPrefix(entity, "#"):
			b.WriteString(decodeNumericReference(entity[1:]))
		default:
			if replacement, ok := namedEntities[entity]; ok {
				b.WriteString(replacement)
			} else {
				b.WriteString("&" + entity + ";")
			}
		}
	}
	return b.String()
}

func decodeNumericReference(digits string) string {
	base := 10
	if len(digits) > 1 && (digits[0] == 'x' || digits[0] == 'X') {
		base = 16
		digits = digits[1:]
	}
	code, err := strconv.ParseInt(digits, base, 32)
	if err != nil || code <= 0 {
		return ""
	}
	if code == rightSingleQuote {
		return ""
	}
	return string(rune(code))
}
