package helpers

import (
	"testing"
	"time"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{
			name:     "plain seconds",
			input:    "30s",
			expected: 30 * time.Second,
		},
		{
			name:     "hours and minutes",
			input:    "1h30m",
			expected: 90 * time.Minute,
		},
		{
			name:     "day suffix",
			input:    "7d",
			expected: 7 * 24 * time.Hour,
		},
		{
			name:     "fractional days",
			input:    "1.5d",
			expected: 36 * time.Hour,
		},
		{
			name:     "surrounding whitespace",
			input:    " 10m ",
			expected: 10 * time.Minute,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
		{
			name:    "garbage",
			input:   "soon",
			wantErr: true,
		},
		{
			name:    "garbage with day suffix",
			input:   "xd",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDuration(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseDuration(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDuration(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseDuration(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}
