package srtfile

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParse_LineEndings(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Line
	}{
		{
			name:  "lf",
			input: "1\n00:00:01,000 --> 00:00:02,000\nHello\n",
			want: []Line{
				{Text: "1", EOL: "\n"},
				{Text: "00:00:01,000 --> 00:00:02,000", EOL: "\n"},
				{Text: "Hello", EOL: "\n"},
			},
		},
		{
			name:  "crlf",
			input: "1\r\nHello\r\n",
			want: []Line{
				{Text: "1", EOL: "\r\n"},
				{Text: "Hello", EOL: "\r\n"},
			},
		},
		{
			name:  "mixed and unterminated",
			input: "1\r\n\nHello",
			want: []Line{
				{Text: "1", EOL: "\r\n"},
				{Text: "", EOL: "\n"},
				{Text: "Hello", EOL: ""},
			},
		},
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.input), "test.srt")
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if !reflect.DeepEqual(doc.Lines, tt.want) {
				t.Errorf("Parse() lines = %#v, want %#v", doc.Lines, tt.want)
			}
			if got := string(doc.Bytes(LineEndingPreserve)); got != tt.input {
				t.Errorf("Bytes() = %q, want %q", got, tt.input)
			}
		})
	}
}

func TestParse_BOM(t *testing.T) {
	input := "\xef\xbb\xbf1\n00:01,000 --> 00:02,000\n"
	doc, err := Parse([]byte(input), "bom.srt")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !doc.BOM {
		t.Error("BOM = false, want true")
	}
	if doc.Lines[0].Text != "1" {
		t.Errorf("first line = %q, want %q", doc.Lines[0].Text, "1")
	}
	if got := string(doc.Bytes(LineEndingPreserve)); got != input {
		t.Errorf("Bytes() = %q, want %q", got, input)
	}
}

func TestParse_InvalidUTF8(t *testing.T) {
	input := []byte("1\n00:00:01,000 --> 00:00:02,000\nbad \xff byte\n")

	_, err := Parse(input, "bad.srt")
	if err == nil {
		t.Fatal("Parse() expected error for invalid UTF-8")
	}

	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("error %v is not a *DecodeError", err)
	}
	if decodeErr.Line != 3 {
		t.Errorf("Line = %d, want 3", decodeErr.Line)
	}
	if want := bytes.IndexByte(input, 0xff); decodeErr.Offset != want {
		t.Errorf("Offset = %d, want %d", decodeErr.Offset, want)
	}
	if !errors.Is(err, ErrInvalidEncoding) {
		t.Error("errors.Is(err, ErrInvalidEncoding) = false")
	}
}

func TestDocument_SetTexts(t *testing.T) {
	doc, err := Parse([]byte("a\r\nb\nc"), "x.srt")
	if err != nil {
		t.Fatal(err)
	}

	if err := doc.SetTexts([]string{"A", "B", "C"}); err != nil {
		t.Fatalf("SetTexts() error = %v", err)
	}
	if got := string(doc.Bytes(LineEndingPreserve)); got != "A\r\nB\nC" {
		t.Errorf("Bytes() = %q", got)
	}

	if err := doc.SetTexts([]string{"only one"}); err == nil {
		t.Error("SetTexts() expected error for length mismatch")
	}
}

func TestDocument_Bytes_LineEnding(t *testing.T) {
	doc, err := Parse([]byte("a\r\nb\nc"), "x.srt")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		le   LineEnding
		want string
	}{
		{LineEndingPreserve, "a\r\nb\nc"},
		{LineEndingLF, "a\nb\nc"},
		{LineEndingCRLF, "a\r\nb\r\nc"},
	}

	for _, tt := range tests {
		t.Run(string(tt.le), func(t *testing.T) {
			if got := string(doc.Bytes(tt.le)); got != tt.want {
				t.Errorf("Bytes(%s) = %q, want %q", tt.le, got, tt.want)
			}
		})
	}
}

func TestParseLineEnding(t *testing.T) {
	tests := []struct {
		input   string
		want    LineEnding
		wantErr bool
	}{
		{"", LineEndingPreserve, false},
		{"preserve", LineEndingPreserve, false},
		{"LF", LineEndingLF, false},
		{"crlf", LineEndingCRLF, false},
		{"cr", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLineEnding(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLineEnding(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLineEnding(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "movie.srt")
	if err := os.WriteFile(path, []byte("1\n00:01,000 --> 00:02,000\nHi\n"), 0644); err != nil {
		t.Fatal(err)
	}

	doc, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if doc.Path != path {
		t.Errorf("Path = %q, want %q", doc.Path, path)
	}
	if len(doc.Lines) != 3 {
		t.Errorf("got %d lines, want 3", len(doc.Lines))
	}
}

func TestRead_NotFound(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.srt"))
	if err == nil {
		t.Fatal("Read() expected error for missing file")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("errors.Is(err, ErrNotFound) = false for %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("errors.Is(err, os.ErrNotExist) = false for %v", err)
	}
}
