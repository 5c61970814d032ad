package fixer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ccollicutt/srtfix/pkg/timestamp"
)

// ErrMultipleArrows is returned for lines carrying more than one arrow.
var ErrMultipleArrows = errors.New("more than one arrow")

// Inspect classifies text and parses its tokens. ok is false for lines that
// are not timestamp lines. err is non-nil for a timestamp line whose tokens
// cannot be parsed; the returned Line then carries only Raw and Separator.
func Inspect(text string) (line Line, ok bool, err error) {
	c, ok := classify(text)
	if !ok {
		return Line{}, false, nil
	}

	line = Line{
		Raw:       text,
		HasArrow:  c.hasArrow,
		Separator: c.sep,
	}

	endToken, settings := cutSettings(c.right)
	if strings.Contains(settings, Arrow) {
		return line, true, ErrMultipleArrows
	}

	left, err := timestamp.Parse(c.left)
	if err != nil {
		return line, true, fmt.Errorf("start: %w", err)
	}
	right, err := timestamp.Parse(endToken)
	if err != nil {
		return line, true, fmt.Errorf("end: %w", err)
	}

	line.Left = left
	line.Right = right
	line.Settings = settings
	return line, true, nil
}

// Tags returns the problems found on a parsed line, in AllTags order.
// An empty result means the line is already canonical.
func (l *Line) Tags() []Tag {
	var tags []Tag
	if !l.Left.HasHours {
		tags = append(tags, TagMissingHoursLeft)
	}
	if !l.Right.HasHours {
		tags = append(tags, TagMissingHoursRight)
	}
	if !l.HasArrow {
		tags = append(tags, TagMissingArrow)
	} else if l.Separator != canonicalSeparator {
		tags = append(tags, TagMalformedArrow)
	}
	if !l.Left.Padded() || !l.Right.Padded() {
		tags = append(tags, TagDigitPadding)
	}
	return tags
}

// Canonical renders the line in canonical form, keeping cue settings.
func (l *Line) Canonical() string {
	s := l.Left.String() + canonicalSeparator + l.Right.String()
	if l.Settings != "" {
		s += " " + l.Settings
	}
	return s
}

// FixLine rewrites a single line. It returns the fixed text and the tags
// describing what changed. Lines that need no change, including lines that
// are not timestamp lines, come back untouched with no tags. For a timestamp
// line that cannot be parsed, text is returned untouched with an error.
func FixLine(text string) (string, []Tag, error) {
	line, ok, err := Inspect(text)
	if !ok {
		return text, nil, nil
	}
	if err != nil {
		return text, nil, err
	}

	tags := line.Tags()
	if len(tags) == 0 {
		return text, nil, nil
	}
	return line.Canonical(), tags, nil
}
