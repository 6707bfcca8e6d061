// Package sanitizer wraps bluemonday policies for user-generated content.
package sanitizer

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy *bluemonday.Policy
	postPolicy   *bluemonday.Policy
	initOnce     sync.Once
)

func initPolicies() {
	initOnce.Do(func() {
		// strictPolicy strips all HTML; user fields are plain text.
		strictPolicy = bluemonday.StrictPolicy()

		// postPolicy allows the formatting markdown rendering produces.
		postPolicy = bluemonday.NewPolicy()
		postPolicy.AllowStandardURLs()
		postPolicy.AllowElements(
			"p", "br", "h1", "h2", "h3", "h4",
			"strong", "b", "em", "i",
			"ul", "ol", "li",
			"code", "pre", "blockquote",
		)
		postPolicy.AllowAttrs("href").OnElements("a")
		postPolicy.RequireNoFollowOnLinks(true)
	})
}

// Text strips all HTML from a user-supplied field, returning plain text.
// Applied to usernames, titles, about texts, and raw post bodies on input.
func Text(s string) string {
	initPolicies()
	return strictPolicy.Sanitize(s)
}

// PostHTML sanitizes rendered post HTML, keeping basic formatting while
// stripping scripts, event handlers, and javascript: URLs.
func PostHTML(s string) string {
	initPolicies()
	return postPolicy.Sanitize(s)
}
