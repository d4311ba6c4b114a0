package rewrite

import (
	"fmt"
	"strings"
)

// MailAddress is a validated mailbox address. It is immutable once
// constructed; the domain is stored lowercased while the local part is kept
// verbatim, so addresses with unusual local parts (slashes, dots, plus tags)
// round-trip without corruption.
type MailAddress struct {
	localPart string
	domain    string
}

// LocalPart returns the part before the '@' separator.
func (a MailAddress) LocalPart() string { return a.localPart }

// Domain returns the lowercased part after the '@' separator.
func (a MailAddress) Domain() string { return a.domain }

func (a MailAddress) String() string {
	return a.localPart + "@" + a.domain
}

// ParseError reports where address parsing gave up. Position is the 1-based
// character offset within the original text.
type ParseError struct {
	Text     string
	Position int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Out of data at position %d in '%s'", e.Position, e.Text)
}

// ParseAddress validates a raw, already percent-decoded string as a mailbox
// address. The address must contain exactly one '@' separating a non-empty
// local part from a syntactically valid domain. Parsing is pure and keeps the
// original text in the returned error for diagnostics.
func ParseAddress(raw string) (MailAddress, error) {
	if raw == "" {
		return MailAddress{}, &ParseError{Text: raw, Position: 1}
	}

	at := strings.IndexByte(raw, '@')
	if at < 0 {
		// Ran out of data scanning for the separator.
		return MailAddress{}, &ParseError{Text: raw, Position: 1}
	}
	if second := strings.IndexByte(raw[at+1:], '@'); second >= 0 {
		return MailAddress{}, &ParseError{Text: raw, Position: at + 1 + second + 1}
	}

	localPart := raw[:at]
	if localPart == "" {
		return MailAddress{}, &ParseError{Text: raw, Position: 1}
	}
	for i := 0; i < len(localPart); i++ {
		if localPart[i] <= ' ' || localPart[i] == 0x7f {
			return MailAddress{}, &ParseError{Text: raw, Position: i + 1}
		}
	}

	domain := raw[at+1:]
	if domain == "" {
		return MailAddress{}, &ParseError{Text: raw, Position: len(raw) + 1}
	}
	if pos, ok := validateDomain(domain); !ok {
		return MailAddress{}, &ParseError{Text: raw, Position: at + 1 + pos}
	}

	return MailAddress{
		localPart: localPart,
		domain:    strings.ToLower(domain),
	}, nil
}

// validateDomain checks dot-separated labels of letters, digits and hyphens,
// with no empty labels and no leading or trailing hyphen per label. On
// failure it returns the 1-based offset of the offending character within the
// domain string.
func validateDomain(domain string) (int, bool) {
	labelStart := 0
	for i := 0; i <= len(domain); i++ {
		if i == len(domain) || domain[i] == '.' {
			if i == labelStart {
				return i + 1, false // empty label
			}
			if domain[labelStart] == '-' {
				return labelStart + 1, false
			}
			if domain[i-1] == '-' {
				return i, false
			}
			labelStart = i + 1
			continue
		}
		c := domain[i]
		valid := c == '-' ||
			(c >= 'a' && c <= 'z') ||
			(c >= 'A' && c <= 'Z') ||
			(c >= '0' && c <= '9')
		if !valid {
			return i + 1, false
		}
	}
	return 0, true
}
