package srtfile

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an input file does not exist.
// Returned errors also match os.ErrNotExist.
var ErrNotFound = errors.New("file not found")

// ErrInvalidEncoding is matched by every DecodeError.
var ErrInvalidEncoding = errors.New("invalid UTF-8")

// DecodeError reports input that is not valid UTF-8.
type DecodeError struct {
	Path string

	// Line is the 1-based line holding the first invalid byte.
	Line int

	// Offset is the byte offset of the first invalid byte, counted from the
	// start of the file including any BOM.
	Offset int
}

func (e *DecodeError) Error() string {
	name := e.Path
	if name == "" {
		name = "input"
	}
	return fmt.Sprintf("%s: invalid UTF-8 at line %d (byte offset %d)", name, e.Line, e.Offset)
}

// Unwrap allows errors.Is(err, ErrInvalidEncoding).
func (e *DecodeError) Unwrap() error {
	return ErrInvalidEncoding
}
