package fixer

import (
	"regexp"
	"strings"

	"github.com/ccollicutt/srtfix/pkg/timestamp"
)

// Arrow is the separator between the start and end tokens.
const Arrow = "-->"

const canonicalSeparator = " " + Arrow + " "

// separatorPattern matches garbled arrows ("->", "--->", "-- >", "=>", "→",
// hyphens, en/em dashes) with surrounding whitespace, or whitespace alone.
const separatorPattern = `\s*(?:-+\s?>|=+>|[–—]+>?|→|-+)\s*|\s+`

// rangePattern matches two timestamp groups at the start of a line.
var rangePattern = regexp.MustCompile(
	`^\s*(` + timestamp.Pattern + `)(` + separatorPattern + `)(` + timestamp.Pattern + `)(?:\s|$)`,
)

// candidate is a timestamp line split around its separator.
type candidate struct {
	left     string
	sep      string
	right    string
	hasArrow bool
}

// classify decides whether text is a timestamp line and, if so, splits it.
// A line qualifies when it starts with two time groups separated by an
// arrow or by whitespace, or when it contains the literal arrow anywhere.
func classify(text string) (candidate, bool) {
	if m := rangePattern.FindStringSubmatchIndex(text); m != nil {
		return splitAt(text, m[3], m[6]), true
	}
	if i := strings.Index(text, Arrow); i >= 0 {
		return splitAt(text, i, i+len(Arrow)), true
	}
	return candidate{}, false
}

// IsTimestampLine reports whether text would be treated as a timestamp line.
func IsTimestampLine(text string) bool {
	_, ok := classify(text)
	return ok
}

// splitAt splits text around the separator at [start, end), widening the
// separator to swallow adjacent spaces and tabs.
func splitAt(text string, start, end int) candidate {
	left := strings.TrimRight(text[:start], " \t")
	right := strings.TrimLeft(text[end:], " \t")
	sep := text[len(left) : len(text)-len(right)]
	return candidate{
		left:     left,
		sep:      sep,
		right:    right,
		hasArrow: strings.TrimSpace(sep) != "",
	}
}

// cutSettings splits the right-hand side into the end token and any
// trailing cue settings.
func cutSettings(right string) (token, settings string) {
	right = strings.TrimSpace(right)
	i := strings.IndexAny(right, " \t")
	if i < 0 {
		return right, ""
	}
	return right[:i], strings.TrimSpace(right[i:])
}
