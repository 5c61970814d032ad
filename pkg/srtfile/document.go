// Package srtfile reads and writes subtitle files line by line, keeping
// the byte order mark and each line's terminator intact.
package srtfile

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"
)

// bom is the UTF-8 byte order mark.
const bom = "\xef\xbb\xbf"

// LineEnding selects how line terminators are written.
type LineEnding string

const (
	// LineEndingPreserve writes each line with the terminator it was read with.
	LineEndingPreserve LineEnding = "preserve"

	// LineEndingLF writes "\n" after every terminated line.
	LineEndingLF LineEnding = "lf"

	// LineEndingCRLF writes "\r\n" after every terminated line.
	LineEndingCRLF LineEnding = "crlf"
)

// ParseLineEnding converts a config or flag value into a LineEnding.
// An empty string means LineEndingPreserve.
func ParseLineEnding(s string) (LineEnding, error) {
	switch LineEnding(strings.ToLower(s)) {
	case "", LineEndingPreserve:
		return LineEndingPreserve, nil
	case LineEndingLF:
		return LineEndingLF, nil
	case LineEndingCRLF:
		return LineEndingCRLF, nil
	}
	return "", fmt.Errorf("unknown line ending %q (must be preserve, lf, or crlf)", s)
}

// Line is one line of a document.
type Line struct {
	// Text is the line content without its terminator.
	Text string

	// EOL is "\n", "\r\n", or "" for a final unterminated line.
	EOL string
}

// Document is a subtitle file held in memory.
type Document struct {
	Path  string
	BOM   bool
	Lines []Line
}

// Read loads and decodes the file at path.
func Read(path string) (*Document, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes data into a Document. name is used in error messages and
// recorded as the document path.
func Parse(data []byte, name string) (*Document, error) {
	doc := &Document{Path: name}

	body := data
	if bytes.HasPrefix(body, []byte(bom)) {
		doc.BOM = true
		body = body[len(bom):]
	}

	if !utf8.Valid(body) {
		return nil, decodeError(name, body, len(data)-len(body))
	}

	for len(body) > 0 {
		i := bytes.IndexByte(body, '\n')
		if i < 0 {
			doc.Lines = append(doc.Lines, Line{Text: string(body)})
			break
		}

		text, eol := body[:i], "\n"
		if i > 0 && body[i-1] == '\r' {
			text, eol = body[:i-1], "\r\n"
		}
		doc.Lines = append(doc.Lines, Line{Text: string(text), EOL: eol})
		body = body[i+1:]
	}

	return doc, nil
}

// decodeError locates the first invalid byte in body. base is the number
// of bytes that preceded body in the file.
func decodeError(name string, body []byte, base int) *DecodeError {
	offset := 0
	for offset < len(body) {
		r, size := utf8.DecodeRune(body[offset:])
		if r == utf8.RuneError && size <= 1 {
			break
		}
		offset += size
	}
	return &DecodeError{
		Path:   name,
		Line:   bytes.Count(body[:offset], []byte("\n")) + 1,
		Offset: base + offset,
	}
}

// Texts returns the text of every line, without terminators.
func (d *Document) Texts() []string {
	texts := make([]string, len(d.Lines))
	for i, line := range d.Lines {
		texts[i] = line.Text
	}
	return texts
}

// SetTexts replaces the text of every line, keeping terminators.
func (d *Document) SetTexts(texts []string) error {
	if len(texts) != len(d.Lines) {
		return fmt.Errorf("got %d lines, document has %d", len(texts), len(d.Lines))
	}
	for i := range d.Lines {
		d.Lines[i].Text = texts[i]
	}
	return nil
}

// Bytes encodes the document. A final unterminated line stays unterminated
// regardless of le.
func (d *Document) Bytes(le LineEnding) []byte {
	var buf bytes.Buffer
	if d.BOM {
		buf.WriteString(bom)
	}
	for _, line := range d.Lines {
		buf.WriteString(line.Text)
		if line.EOL == "" {
			continue
		}
		switch le {
		case LineEndingLF:
			buf.WriteByte('\n')
		case LineEndingCRLF:
			buf.WriteString("\r\n")
		default:
			buf.WriteString(line.EOL)
		}
	}
	return buf.Bytes()
}
