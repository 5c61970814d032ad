// Package timestamp parses the start and end tokens of SRT timestamp lines.
package timestamp

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Pattern matches a timestamp-like group: optional hours, minutes, seconds
// and a comma-delimited millisecond field with loose digit widths.
const Pattern = `\d{1,2}(?::\d{1,2}){1,2},\d{1,3}`

// CanonicalLayout is the layout of a fully padded SRT timestamp.
const CanonicalLayout = "HH:MM:SS,mmm"

var tokenPattern = regexp.MustCompile(`^(?:(\d{1,2}):)?(\d{1,2}):(\d{1,2}),(\d{1,3})$`)

// ErrEmpty is returned when there is no token text to parse.
var ErrEmpty = errors.New("empty timestamp")

// ParseError describes why a token could not be parsed.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("timestamp %q: %s", e.Input, e.Reason)
}

// Token is one side of an SRT time range.
type Token struct {
	Hours   int
	Minutes int
	Seconds int
	Millis  int

	// HasHours is false when the hour field was absent in the input.
	HasHours bool

	// Raw is the token text as it appeared in the line.
	Raw string

	// widths holds the digit count of each field as written
	// (hours, minutes, seconds, milliseconds).
	widths [4]int
}

// Parse parses a single token such as "00:01:02,500", "1:02,500" or
// "1:2:3,5". At least minutes, seconds and milliseconds are required.
func Parse(s string) (Token, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Token{}, ErrEmpty
	}

	m := tokenPattern.FindStringSubmatch(s)
	if m == nil {
		return Token{}, &ParseError{Input: s, Reason: diagnose(s)}
	}

	tok := Token{Raw: s, HasHours: m[1] != ""}
	fields := []*int{&tok.Hours, &tok.Minutes, &tok.Seconds, &tok.Millis}
	for i, group := range m[1:] {
		if group == "" {
			continue
		}
		n, err := strconv.Atoi(group)
		if err != nil {
			return Token{}, &ParseError{Input: s, Reason: err.Error()}
		}
		*fields[i] = n
		tok.widths[i] = len(group)
	}

	if tok.Minutes > 59 {
		return Token{}, &ParseError{Input: s, Reason: fmt.Sprintf("minutes out of range (%d)", tok.Minutes)}
	}
	if tok.Seconds > 59 {
		return Token{}, &ParseError{Input: s, Reason: fmt.Sprintf("seconds out of range (%d)", tok.Seconds)}
	}

	return tok, nil
}

// diagnose explains why s did not match the token pattern.
func diagnose(s string) string {
	head, millis, ok := strings.Cut(s, ",")
	if !ok {
		return "missing milliseconds"
	}
	if strings.Contains(millis, ",") {
		return "more than one comma"
	}

	parts := strings.Split(head, ":")
	switch {
	case len(parts) < 2:
		return "missing minutes or seconds"
	case len(parts) > 3:
		return "too many fields"
	}

	for _, group := range append(parts, millis) {
		if group == "" {
			return "empty field"
		}
		for _, r := range group {
			if r < '0' || r > '9' {
				return fmt.Sprintf("non-numeric group %q", group)
			}
		}
	}

	if len(millis) > 3 {
		return fmt.Sprintf("milliseconds %q wider than 3 digits", millis)
	}
	return "field wider than 2 digits"
}

// String renders the token in canonical HH:MM:SS,mmm form.
func (t Token) String() string {
	return fmt.Sprintf("%02d:%02d:%02d,%03d", t.Hours, t.Minutes, t.Seconds, t.Millis)
}

// Layout describes the token's shape as written, e.g. "M:SS,mmm".
func (t Token) Layout() string {
	var b strings.Builder
	if t.HasHours {
		b.WriteString(strings.Repeat("H", t.widths[0]))
		b.WriteByte(':')
	}
	b.WriteString(strings.Repeat("M", t.widths[1]))
	b.WriteByte(':')
	b.WriteString(strings.Repeat("S", t.widths[2]))
	b.WriteByte(',')
	b.WriteString(strings.Repeat("m", t.widths[3]))
	return b.String()
}

// Padded reports whether every field present in the input had its full
// canonical width. A missing hour field does not count against it.
func (t Token) Padded() bool {
	if t.HasHours && t.widths[0] != 2 {
		return false
	}
	return t.widths[1] == 2 && t.widths[2] == 2 && t.widths[3] == 3
}
