// Package validation provides input validation and sanitization for
// deployment and authentication requests.
package validation

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrMissingCredentials indicates email or password is absent or empty.
	ErrMissingCredentials = errors.New("both email and password are required")
	// ErrInvalidTokenFormat indicates an API token does not match the provider's format.
	ErrInvalidTokenFormat = errors.New("invalid token format")
	// ErrInvalidIdentifier indicates a website identifier is malformed.
	ErrInvalidIdentifier = errors.New("website identifier must be alphanumeric with hyphens")
	// ErrInvalidDomain indicates a deployment domain is malformed.
	ErrInvalidDomain = errors.New("invalid domain format")
)

var (
	websiteIDPattern = regexp.MustCompile(`^[a-z0-9-]{1,64}$`)

	// The Vercel API token format is the provider's contract: exactly 24
	// characters of letters, digits, and underscores.
	vercelTokenPattern = regexp.MustCompile(`^[A-Za-z0-9_]{24}$`)

	emailStrip    = regexp.MustCompile(`[^\w@.-]`)
	filenameStrip = regexp.MustCompile(`[^a-zA-Z0-9-]`)
)

// ValidateWebsiteID checks a website identifier against the canonical slug
// format. Input is case-folded before matching; callers should use the
// returned normalized value.
func ValidateWebsiteID(id string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(id))
	if !websiteIDPattern.MatchString(normalized) {
		return "", ErrInvalidIdentifier
	}
	return normalized, nil
}

// ValidateCredentials checks that both email and password are present.
func ValidateCredentials(email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return ErrMissingCredentials
	}
	return nil
}

// ValidateVercelToken checks a Vercel API token against the provider's
// fixed-length format.
func ValidateVercelToken(token string) error {
	if !vercelTokenPattern.MatchString(token) {
		return ErrInvalidTokenFormat
	}
	return nil
}

// ValidateDomain checks a deployment domain of the form
// <subdomain>.<suffix>, case-insensitively.
func ValidateDomain(domain, suffix string) error {
	pattern := regexp.MustCompile(`(?i)^[a-z0-9-]+\.` + regexp.QuoteMeta(suffix) + `$`)
	if !pattern.MatchString(domain) {
		return ErrInvalidDomain
	}
	return nil
}

// SanitizeEmail trims the address and strips characters outside the
// word/at/dot/hyphen allow-list before it reaches a subprocess environment.
func SanitizeEmail(email string) string {
	return emailStrip.ReplaceAllString(strings.TrimSpace(email), "")
}

// SanitizePassword strips characters outside printable ASCII.
func SanitizePassword(password string) string {
	var b strings.Builder
	for _, r := range password {
		if r >= 0x20 && r <= 0x7e {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SanitizeFilename converts an arbitrary page name into a safe on-disk
// filename: non-alphanumeric characters are replaced, the name is capped at
// 50 characters, and the .html extension is forced.
func SanitizeFilename(name string) string {
	sanitized := filenameStrip.ReplaceAllString(name, "_")
	if len(sanitized) > 50 {
		sanitized = sanitized[:50]
	}
	return sanitized + ".html"
}
