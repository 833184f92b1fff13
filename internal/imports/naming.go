package imports

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultTableName is used when a file name has no usable characters.
const DefaultTableName = "table"

var lower = cases.Lower(language.Und)

// TableName derives a table name from a file name: the part before the first
// dot, accents folded, split into words on separators and case changes, and
// joined lowercase with underscores. "Sales Q1.csv" becomes "sales_q1".
func TableName(filename string) string {
	base := filename
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.IndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}

	name := strings.Join(words(fold(base)), "_")
	if name == "" {
		return DefaultTableName
	}
	if r := []rune(name)[0]; unicode.IsDigit(r) {
		name = "t_" + name
	}
	return name
}

// fold strips combining marks so "Été" becomes "Ete".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// words splits s into lowercase words. Boundaries are non-alphanumerics,
// a lower-to-upper change ("salesQ1") and the end of an acronym ("HTTPServer").
// Digits stay attached to the preceding letters.
func words(s string) []string {
	rs := []rune(s)
	var out []string
	var cur []rune

	flush := func() {
		if len(cur) > 0 {
			out = append(out, lower.String(string(cur)))
			cur = cur[:0]
		}
	}

	for i, r := range rs {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if unicode.IsUpper(r) && len(cur) > 0 {
			prev := cur[len(cur)-1]
			nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return out
}
