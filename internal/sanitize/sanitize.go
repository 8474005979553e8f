// Package sanitize strips markup from charity-supplied free text before it
// is stored, so descriptions and addresses can never carry scripts or tags
// into rendered pages or API consumers.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.StrictPolicy()

// Text removes all HTML from a free-text field and trims whitespace.
func Text(s string) string {
	return strings.TrimSpace(policy.Sanitize(s))
}
