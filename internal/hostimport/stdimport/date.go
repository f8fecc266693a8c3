// Package stdimport holds the host-import logic that is reused across
// namespaces but is not itself a namespace: the date-token translation
// std.read_date_string needs (spec §4.4.2, §6), and FormatTimestamp for
// the audit log's timestamps.
//
// No third-party strptime-equivalent appears anywhere in the retrieval
// pack — ncruces/go-strftime, the pack's one date-formatting library,
// only formats. The parse-direction translation chain is stdlib-only by
// necessity, not preference (see DESIGN.md).
package stdimport

import "strings"

// tokenOrder lists ABI date tokens longest-first so a replacer never
// matches a short token (e.g. "d") inside a longer one it's a prefix of
// (e.g. "dd") before the longer one gets its turn (spec §6).
var tokenOrder = []string{"yyyy", "EEEE", "EEE", "MM", "dd", "HH", "mm", "ss", "d"}

var abiToStrftime = map[string]string{
	"yyyy": "%Y",
	"MM":   "%m",
	"dd":   "%d",
	"d":    "%d",
	"EEEE": "%A",
	"EEE":  "%a",
	"HH":   "%H",
	"mm":   "%M",
	"ss":   "%S",
}

var strftimeToGoLayout = map[string]string{
	"%Y": "2006",
	"%m": "01",
	"%d": "02",
	"%A": "Monday",
	"%a": "Mon",
	"%H": "15",
	"%M": "04",
	"%S": "05",
}

// TranslateToStrftime rewrites an ABI date format (tokens yyyy, MM, dd,
// d, EEEE, EEE, HH, mm, ss) into its strftime equivalent. It scans once,
// left to right, matching the longest token at each position — a
// sequence of independent global replacements would let a short token's
// substitution (e.g. "d" -> "%d") corrupt a longer token's own output
// ("dd" -> "%d") on a later pass, which is exactly the collision spec §6
// calls out "replacement order matters" to avoid.
func TranslateToStrftime(abiFormat string) string {
	var out strings.Builder
	for i := 0; i < len(abiFormat); {
		matched := false
		for _, tok := range tokenOrder {
			if strings.HasPrefix(abiFormat[i:], tok) {
				out.WriteString(abiToStrftime[tok])
				i += len(tok)
				matched = true
				break
			}
		}
		if !matched {
			out.WriteByte(abiFormat[i])
			i++
		}
	}
	return out.String()
}

// TranslateToGoLayout rewrites a strftime-style format into a Go
// reference-time layout string suitable for time.Parse.
func TranslateToGoLayout(strftimeFormat string) string {
	out := strftimeFormat
	for tok, layout := range strftimeToGoLayout {
		out = strings.ReplaceAll(out, tok, layout)
	}
	return out
}

// GoLayoutFromABI composes both translations, the exact path
// read_date_string takes from a guest-supplied format string to a
// time.Parse layout.
func GoLayoutFromABI(abiFormat string) string {
	return TranslateToGoLayout(TranslateToStrftime(abiFormat))
}
