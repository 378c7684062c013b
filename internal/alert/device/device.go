// Package device derives a compact description of the device that raised
// an alert. Responders seeing "Safari on iOS" next to a location can judge
// whether the alert came from the subject's own phone.
package device

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/mssola/useragent"

	"lifeline/pkg/platform/validation"
)

// Service computes device summaries and fingerprints from User-Agent
// strings. Disabled deployments record nothing.
type Service struct {
	enabled bool
}

func NewService(enabled bool) *Service {
	return &Service{enabled: enabled}
}

func (s *Service) Enabled() bool {
	return s.enabled
}

// Summary returns "Browser on OS" for the alert record, or "" when capture
// is disabled or the header is absent.
func (s *Service) Summary(userAgentString string) string {
	if !s.enabled || userAgentString == "" {
		return ""
	}
	return Describe(userAgentString)
}

// Fingerprint hashes the stable parts of the user agent. It deliberately
// excludes the IP address, which is too volatile to identify a device.
func (s *Service) Fingerprint(userAgentString string) string {
	if !s.enabled || userAgentString == "" {
		return ""
	}

	ua := useragent.New(clamp(userAgentString))
	browser, version := ua.Browser()

	majorVersion := "unknown"
	if version != "" {
		parts := strings.Split(version, ".")
		if len(parts) > 0 && parts[0] != "" {
			majorVersion = parts[0]
		}
	}

	os := ua.OS()
	platform := "desktop"
	if ua.Mobile() {
		platform = "mobile"
	}

	browser = strings.ToLower(strings.TrimSpace(browser))
	if browser == "" {
		browser = "unknown"
	}
	os = strings.ToLower(strings.TrimSpace(os))
	if os == "" {
		os = "unknown"
	}

	data := fmt.Sprintf("%s|%s|%s|%s", browser, majorVersion, os, platform)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// Describe extracts a human-readable device name from a User-Agent string,
// in the form "Browser on OS" (e.g. "Chrome on macOS", "Safari on iOS").
func Describe(userAgentString string) string {
	if userAgentString == "" {
		return "Unknown Device"
	}

	ua := useragent.New(clamp(userAgentString))

	browser, _ := ua.Browser()
	os := ua.OS()

	if ua.Mobile() {
		platform := ua.Platform()
		if platform != "" {
			return strings.TrimSpace(browser + " on " + platform)
		}
	}

	if browser == "" {
		browser = "Unknown Browser"
	}
	if os == "" {
		os = "Unknown OS"
	}

	return strings.TrimSpace(browser + " on " + os)
}

func clamp(s string) string {
	if len(s) > validation.MaxUserAgentLength {
		return s[:validation.MaxUserAgentLength]
	}
	return s
}
