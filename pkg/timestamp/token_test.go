package timestamp

import (
	"errors"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		want       string
		wantLayout string
		hasHours   bool
	}{
		{
			name:       "canonical",
			input:      "00:01:02,500",
			want:       "00:01:02,500",
			wantLayout: "HH:MM:SS,mmm",
			hasHours:   true,
		},
		{
			name:       "missing hours",
			input:      "01:00,900",
			want:       "00:01:00,900",
			wantLayout: "MM:SS,mmm",
		},
		{
			name:       "single digit minute",
			input:      "1:30,500",
			want:       "00:01:30,500",
			wantLayout: "M:SS,mmm",
		},
		{
			name:       "single digit hour",
			input:      "1:02:03,004",
			want:       "01:02:03,004",
			wantLayout: "H:MM:SS,mmm",
			hasHours:   true,
		},
		{
			name:       "short milliseconds",
			input:      "00:00:05,5",
			want:       "00:00:05,005",
			wantLayout: "HH:MM:SS,m",
			hasHours:   true,
		},
		{
			name:       "surrounding whitespace",
			input:      "  02:00,500 ",
			want:       "00:02:00,500",
			wantLayout: "MM:SS,mmm",
		},
		{
			name:       "everything unpadded",
			input:      "1:2:3,4",
			want:       "01:02:03,004",
			wantLayout: "H:M:S,m",
			hasHours:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			if got.String() != tt.want {
				t.Errorf("String() = %q, want %q", got.String(), tt.want)
			}
			if got.Layout() != tt.wantLayout {
				t.Errorf("Layout() = %q, want %q", got.Layout(), tt.wantLayout)
			}
			if got.HasHours != tt.hasHours {
				t.Errorf("HasHours = %v, want %v", got.HasHours, tt.hasHours)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		reason string
	}{
		{"corrupted group", "1:3x,500", "non-numeric"},
		{"no milliseconds", "00:01:30", "missing milliseconds"},
		{"seconds only", "30,500", "missing minutes or seconds"},
		{"too many fields", "1:2:3:4,500", "too many fields"},
		{"wide milliseconds", "01:30,5000", "wider than 3 digits"},
		{"wide hours", "100:00:00,000", "wider than 2 digits"},
		{"minutes out of range", "75:00,000", "minutes out of range"},
		{"seconds out of range", "00:01:60,000", "seconds out of range"},
		{"empty field", "1::30,500", "empty field"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if err == nil {
				t.Fatalf("Parse(%q) expected error", tt.input)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Parse(%q) error type = %T, want *ParseError", tt.input, err)
			}
			if !strings.Contains(pe.Reason, tt.reason) {
				t.Errorf("Reason = %q, want it to contain %q", pe.Reason, tt.reason)
			}
		})
	}
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse("   ")
	if !errors.Is(err, ErrEmpty) {
		t.Errorf("Parse() error = %v, want ErrEmpty", err)
	}
}

func TestToken_Padded(t *testing.T) {
	tests := []struct {
		input    string
		hasHours bool
		padded   bool
	}{
		{"00:00:01,000", true, true},
		{"00:01,000", false, true},
		{"0:00:01,000", true, false},
		{"00:00:01,00", true, false},
		{"1:00,000", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tok, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if tok.HasHours != tt.hasHours {
				t.Errorf("HasHours = %v, want %v", tok.HasHours, tt.hasHours)
			}
			if tok.Padded() != tt.padded {
				t.Errorf("Padded() = %v, want %v", tok.Padded(), tt.padded)
			}
		})
	}
}

func TestToken_StringRoundTrip(t *testing.T) {
	tok, err := Parse("5:07,25")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	again, err := Parse(tok.String())
	if err != nil {
		t.Fatalf("Parse(String()) error = %v", err)
	}
	if !again.HasHours || !again.Padded() {
		t.Errorf("re-parsed token %q is not canonical", tok.String())
	}
	if again.Hours != tok.Hours || again.Minutes != tok.Minutes ||
		again.Seconds != tok.Seconds || again.Millis != tok.Millis {
		t.Errorf("fields changed: %+v != %+v", again, tok)
	}
}
