package validator

import (
	"net/mail"
	"net/url"
	"slices"
	"strings"
)

// Required fails for empty or whitespace-only values.
func Required(field, value string) Rule {
	return Rule{
		Check: func() bool { return strings.TrimSpace(value) != "" },
		Error: ValidationError{Field: field, Code: CodeRequired, Message: "field is required"},
	}
}

// ValidEmail accepts a bare RFC 5322 address whose domain has at least one
// dot and no empty labels. Display-name forms ("Ada <ada@example.com>") are
// rejected.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool {
			addr, err := mail.ParseAddress(value)
			if err != nil || addr.Address != value {
				return false
			}
			local, domain, ok := strings.Cut(addr.Address, "@")
			if !ok || local == "" || !strings.Contains(domain, ".") {
				return false
			}
			for label := range strings.SplitSeq(domain, ".") {
				if label == "" {
					return false
				}
			}
			return true
		},
		Error: ValidationError{Field: field, Code: CodeEmail, Message: "must be a valid email address"},
	}
}

// ValidURL accepts an absolute URL with a host. When schemes are given the
// URL's scheme must be one of them.
func ValidURL(field, value string, schemes ...string) Rule {
	msg := "must be a valid URL"
	if len(schemes) > 0 {
		msg = "must be a valid " + strings.Join(schemes, " or ") + " URL"
	}
	return Rule{
		Check: func() bool {
			u, err := url.ParseRequestURI(value)
			if err != nil || u.Scheme == "" || u.Host == "" {
				return false
			}
			return len(schemes) == 0 || slices.Contains(schemes, strings.ToLower(u.Scheme))
		},
		Error: ValidationError{Field: field, Code: CodeURL, Message: msg},
	}
}
