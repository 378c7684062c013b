package device

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	chromeMacUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	safariIOSUA = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (Version/17.0 Mobile/15E148) Version/17.0 Mobile/15E148 Safari/604.1"
	gibberishUA = "definitely-not-a-browser/1.0"
)

func TestDescribe(t *testing.T) {
	assert.Contains(t, Describe(chromeMacUA), "Chrome")
	assert.Contains(t, Describe(chromeMacUA), " on ")
	assert.Equal(t, "Unknown Device", Describe(""))
	assert.NotEmpty(t, Describe(gibberishUA))
}

func TestSummaryRespectsEnabledFlag(t *testing.T) {
	enabled := NewService(true)
	disabled := NewService(false)

	assert.NotEmpty(t, enabled.Summary(chromeMacUA))
	assert.Empty(t, disabled.Summary(chromeMacUA))
	assert.Empty(t, enabled.Summary(""))
}

func TestFingerprint(t *testing.T) {
	service := NewService(true)

	fp1 := service.Fingerprint(chromeMacUA)
	fp2 := service.Fingerprint(chromeMacUA)
	assert.Equal(t, fp1, fp2, "same agent yields same fingerprint")
	assert.Len(t, fp1, 64, "sha256 hex")

	other := service.Fingerprint(safariIOSUA)
	assert.NotEqual(t, fp1, other)

	disabled := NewService(false)
	assert.Empty(t, disabled.Fingerprint(chromeMacUA))
}

func TestOversizedUserAgentIsClamped(t *testing.T) {
	service := NewService(true)
	huge := chromeMacUA + strings.Repeat("x", 10_000)

	assert.NotPanics(t, func() {
		_ = service.Fingerprint(huge)
		_ = Describe(huge)
	})
}
