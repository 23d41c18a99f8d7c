// Package htmlsanitize strips dangerous markup from user-generated content
// (announcement bodies, feedback comments, discussion questions) before it
// is stored.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

var ugc = bluemonday.UGCPolicy()

// Sanitize removes scripts, event handler attributes, and javascript: URLs
// while preserving basic formatting markup.
func Sanitize(s string) string {
	return ugc.Sanitize(s)
}
