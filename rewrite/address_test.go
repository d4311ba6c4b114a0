package rewrite

import (
	"errors"
	"testing"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		localPart string
		domain    string
	}{
		{
			name:      "simple address",
			input:     "alice@b.com",
			localPart: "alice",
			domain:    "b.com",
		},
		{
			name:      "slash in local part",
			input:     "alice/@b.com",
			localPart: "alice/",
			domain:    "b.com",
		},
		{
			name:      "local part case preserved, domain lowercased",
			input:     "Alice@B.COM",
			localPart: "Alice",
			domain:    "b.com",
		},
		{
			name:      "subdomain",
			input:     "bob@mail.example.org",
			localPart: "bob",
			domain:    "mail.example.org",
		},
		{
			name:      "hyphenated domain label",
			input:     "bob@my-host.example",
			localPart: "bob",
			domain:    "my-host.example",
		},
		{
			name:      "single-label domain",
			input:     "notfound@dom",
			localPart: "notfound",
			domain:    "dom",
		},
		{
			name:      "plus tag",
			input:     "alice+tag@b.com",
			localPart: "alice+tag",
			domain:    "b.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := ParseAddress(tt.input)
			if err != nil {
				t.Fatalf("ParseAddress(%q) unexpected error: %v", tt.input, err)
			}
			if addr.LocalPart() != tt.localPart {
				t.Errorf("LocalPart() = %q, want %q", addr.LocalPart(), tt.localPart)
			}
			if addr.Domain() != tt.domain {
				t.Errorf("Domain() = %q, want %q", addr.Domain(), tt.domain)
			}
		})
	}
}

func TestParseAddressRoundTrip(t *testing.T) {
	// Local parts with special characters must survive parse and format
	// unchanged.
	inputs := []string{"alice/@b.com", "a.b.c@b.com", "x+y@external.com"}
	for _, input := range inputs {
		addr, err := ParseAddress(input)
		if err != nil {
			t.Fatalf("ParseAddress(%q) unexpected error: %v", input, err)
		}
		if addr.String() != input {
			t.Errorf("String() = %q, want %q", addr.String(), input)
		}
	}
}

func TestParseAddressErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		position int
		cause    string
	}{
		{
			name:     "no separator",
			input:    "not-an-address",
			position: 1,
			cause:    "Out of data at position 1 in 'not-an-address'",
		},
		{
			name:     "empty string",
			input:    "",
			position: 1,
		},
		{
			name:     "missing local part",
			input:    "@b.com",
			position: 1,
		},
		{
			name:     "missing domain",
			input:    "alice@",
			position: 7,
		},
		{
			name:     "second separator",
			input:    "a@b@c",
			position: 4,
		},
		{
			name:     "space in local part",
			input:    "ali ce@b.com",
			position: 4,
		},
		{
			name:     "invalid domain character",
			input:    "a@b_c",
			position: 4,
		},
		{
			name:     "empty domain label",
			input:    "a@.com",
			position: 3,
		},
		{
			name:     "trailing domain dot",
			input:    "a@com.",
			position: 7,
		},
		{
			name:     "leading hyphen in label",
			input:    "a@-b.com",
			position: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAddress(tt.input)
			if err == nil {
				t.Fatalf("ParseAddress(%q) expected error", tt.input)
			}

			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("ParseAddress(%q) error type = %T, want *ParseError", tt.input, err)
			}
			if parseErr.Position != tt.position {
				t.Errorf("Position = %d, want %d", parseErr.Position, tt.position)
			}
			if parseErr.Text != tt.input {
				t.Errorf("Text = %q, want %q", parseErr.Text, tt.input)
			}
			if tt.cause != "" && parseErr.Error() != tt.cause {
				t.Errorf("Error() = %q, want %q", parseErr.Error(), tt.cause)
			}
		})
	}
}
