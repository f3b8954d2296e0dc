package validation

import (
	"strings"
	"testing"
)

func TestValidateWebsiteID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"simple", "abc123", "abc123", false},
		{"hyphenated", "my-site-1", "my-site-1", false},
		{"uppercase folded", "MySite", "mysite", false},
		{"surrounding whitespace", "  abc123  ", "abc123", false},
		{"empty", "", "", true},
		{"spaces inside", "my site", "", true},
		{"underscore", "my_site", "", true},
		{"path traversal", "../etc", "", true},
		{"shell metacharacter", "site;rm", "", true},
		{"too long", strings.Repeat("a", 65), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateWebsiteID(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error for %q: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestValidateCredentials(t *testing.T) {
	if err := ValidateCredentials("user@example.com", "secret"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateCredentials("", "secret"); err != ErrMissingCredentials {
		t.Errorf("expected ErrMissingCredentials, got %v", err)
	}
	if err := ValidateCredentials("user@example.com", ""); err != ErrMissingCredentials {
		t.Errorf("expected ErrMissingCredentials, got %v", err)
	}
	if err := ValidateCredentials("   ", "secret"); err != ErrMissingCredentials {
		t.Errorf("expected ErrMissingCredentials for blank email, got %v", err)
	}
}

func TestValidateVercelToken(t *testing.T) {
	if err := ValidateVercelToken("abcDEF123_abcDEF123_abcD"); err != nil {
		t.Errorf("unexpected error for valid token: %v", err)
	}
	invalid := []string{
		"short",
		"",
		strings.Repeat("a", 25),
		strings.Repeat("a", 23),
		"abcDEF123-abcDEF123-abcD", // hyphen not allowed
		"abcDEF123 abcDEF123 abcD",
	}
	for _, token := range invalid {
		if err := ValidateVercelToken(token); err != ErrInvalidTokenFormat {
			t.Errorf("expected ErrInvalidTokenFormat for %q, got %v", token, err)
		}
	}
}

func TestValidateDomain(t *testing.T) {
	if err := ValidateDomain("abc123.surge.sh", "surge.sh"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	// Case-insensitive match.
	if err := ValidateDomain("ABC123.SURGE.SH", "surge.sh"); err != nil {
		t.Errorf("expected case-insensitive match, got %v", err)
	}
	invalid := []string{
		"BAD DOMAIN",
		"abc123",
		"abc123.example.com",
		".surge.sh",
		"abc_123.surge.sh",
		"abc123.surgeXsh", // dot must be literal
	}
	for _, domain := range invalid {
		if err := ValidateDomain(domain, "surge.sh"); err != ErrInvalidDomain {
			t.Errorf("expected ErrInvalidDomain for %q, got %v", domain, err)
		}
	}
}

func TestSanitizeEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"user@example.com", "user@example.com"},
		{"  user@example.com  ", "user@example.com"},
		{"user+tag@example.com", "usertag@example.com"},
		{"user@example.com; rm -rf /", "user@example.comrm-rf"},
		{"user$(whoami)@example.com", "userwhoami@example.com"},
	}
	for _, tt := range tests {
		if got := SanitizeEmail(tt.input); got != tt.want {
			t.Errorf("SanitizeEmail(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSanitizePassword(t *testing.T) {
	if got := SanitizePassword("s3cret!pass"); got != "s3cret!pass" {
		t.Errorf("printable password should be unchanged, got %q", got)
	}
	if got := SanitizePassword("pass\x00word\n\t"); got != "password" {
		t.Errorf("expected non-printable characters stripped, got %q", got)
	}
	if got := SanitizePassword("pässword"); got != "pssword" {
		t.Errorf("expected non-ASCII characters stripped, got %q", got)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"index", "index.html"},
		{"about us", "about_us.html"},
		{"../../etc/passwd", "______etc_passwd.html"},
		{strings.Repeat("a", 80), strings.Repeat("a", 50) + ".html"},
	}
	for _, tt := range tests {
		if got := SanitizeFilename(tt.input); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
