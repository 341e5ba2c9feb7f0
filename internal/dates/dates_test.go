package dates

import (
	"strings"
	"testing"
)

func TestAddDays(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		days     int
		expected string
		wantErr  bool
	}{
		{
			name:     "thirty days within a month boundary",
			input:    "01/01/2025 00:00",
			days:     30,
			expected: "31/01/2025 00:00",
		},
		{
			name:     "rolls over the year",
			input:    "15/12/2024 10:30",
			days:     30,
			expected: "14/01/2025 10:30",
		},
		{
			name:     "ninety days",
			input:    "01/01/2025 08:00",
			days:     90,
			expected: "01/04/2025 08:00",
		},
		{
			name:    "unparseable input",
			input:   "2025-01-01",
			days:    30,
			wantErr: true,
		},
		{
			name:    "empty input",
			input:   "",
			days:    30,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AddDays(tt.input, tt.days)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("AddDays(%q, %d) expected error, got %q", tt.input, tt.days, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("AddDays(%q, %d) unexpected error: %v", tt.input, tt.days, err)
			}
			if got != tt.expected {
				t.Errorf("AddDays(%q, %d) = %q, want %q", tt.input, tt.days, got, tt.expected)
			}
		})
	}
}

func TestParseRoundTrip(t *testing.T) {
	const input = "28/02/2025 23:59"

	parsed, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse(%q) unexpected error: %v", input, err)
	}
	if got := parsed.Format(Layout); got != input {
		t.Errorf("formatting parsed date = %q, want %q", got, input)
	}
	if parsed.Location().String() != "Asia/Jerusalem" {
		t.Errorf("parsed location = %s, want Asia/Jerusalem", parsed.Location())
	}
}

func TestSlackDate(t *testing.T) {
	t.Run("renders date markup", func(t *testing.T) {
		got := SlackDate("01/01/2025 12:00")
		if !strings.HasPrefix(got, "<!date^") {
			t.Errorf("SlackDate = %q, want date markup", got)
		}
		if !strings.Contains(got, "01/01/2025 12:00 (Jerusalem)") {
			t.Errorf("SlackDate = %q, want fallback with original date", got)
		}
	})

	t.Run("falls back to raw string", func(t *testing.T) {
		if got := SlackDate("not a date"); got != "not a date" {
			t.Errorf("SlackDate = %q, want raw input", got)
		}
	})
}
