package fixer

import (
	"context"
	"log/slog"
	"time"
)

// Fixer runs the timestamp normalizer over the lines of a file.
type Fixer struct {
	// Options
	dryRun bool
	source string
}

// Option configures fixer behavior.
type Option func(*Fixer)

// WithDryRun reports issues without changing any output line.
func WithDryRun(v bool) Option {
	return func(f *Fixer) {
		f.dryRun = v
	}
}

// WithSource records the input name in the result metadata.
func WithSource(name string) Option {
	return func(f *Fixer) {
		f.source = name
	}
}

// New creates a Fixer.
func New(opts ...Option) *Fixer {
	f := &Fixer{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fix processes lines in a single forward pass. Non-timestamp lines and
// canonical timestamp lines are copied unchanged. Unparseable timestamp
// lines are also left unchanged and reported with TagUnparseable; they
// never cause an error.
func (f *Fixer) Fix(ctx context.Context, lines []string) (*Result, error) {
	result := &Result{
		Lines: make([]string, len(lines)),
		Metadata: Metadata{
			Source:     f.source,
			TotalLines: len(lines),
			DryRun:     f.dryRun,
			StartTime:  time.Now(),
		},
	}
	copy(result.Lines, lines)

	for i, text := range lines {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		num := i + 1
		line, ok, err := Inspect(text)
		if !ok {
			continue
		}
		result.Metadata.TimestampLines++

		if err != nil {
			slog.Debug("unparseable timestamp line", "source", f.source, "line", num, "err", err)
			result.Issues = append(result.Issues, Issue{
				Line:     num,
				Original: text,
				Fixed:    text,
				Tags:     []Tag{TagUnparseable},
				Error:    err.Error(),
			})
			continue
		}

		tags := line.Tags()
		if len(tags) == 0 {
			continue
		}

		fixed := line.Canonical()
		result.Issues = append(result.Issues, Issue{
			Line:     num,
			Original: text,
			Fixed:    fixed,
			Tags:     tags,
		})
		if !f.dryRun {
			result.Lines[i] = fixed
		}
	}

	result.Metadata.EndTime = time.Now()
	return result, nil
}
