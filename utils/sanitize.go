package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// Sanitize strips all HTML from text received from external collaborators
// before it is persisted or echoed to clients.
func Sanitize(input string) string {
	return strings.TrimSpace(strictPolicy.Sanitize(input))
}
