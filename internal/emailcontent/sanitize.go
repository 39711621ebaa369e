// Package emailcontent turns raw Mailchimp campaign HTML into
// display-safe markup and structured listing previews. Everything here
// is pure regex scanning over template-shaped input from a known
// upstream; there is deliberately no DOM parser, so the set of
// malformed-but-tolerated inputs stays stable.
package emailcontent

import "regexp"

var (
	scriptBlockRe = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleBlockRe  = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	iframeBlockRe = regexp.MustCompile(`(?is)<iframe[^>]*>.*?</iframe>`)
	objectBlockRe = regexp.MustCompile(`(?is)<object[^>]*>.*?</object>`)

	// Inline event handlers, double- and single-quoted. Two patterns
	// because RE2 has no backreferences.
	onAttrDoubleRe = regexp.MustCompile(`(?i)\s+on[a-z]+\s*=\s*"[^"]*"`)
	onAttrSingleRe = regexp.MustCompile(`(?i)\s+on[a-z]+\s*=\s*'[^']*'`)

	// javascript: URIs in href/src. The value is emptied, leaving the
	// attribute present but inert.
	jsHrefDoubleRe = regexp.MustCompile(`(?i)(href|src)\s*=\s*"javascript:[^"]*"`)
	jsHrefSingleRe = regexp.MustCompile(`(?i)(href|src)\s*=\s*'javascript:[^']*'`)
	jsSchemeRe     = regexp.MustCompile(`(?i)javascript:`)
)

// Sanitize strips the common XSS vectors from campaign HTML: script,
// style, iframe and object elements with their bodies, inline on*
// event handlers, and javascript: URIs in href/src.
//
// This is best-effort tag and attribute stripping for content that
// originates from the author's own Mailchimp account. It is NOT a
// hardened security boundary and must not be the sole defense when the
// origin is untrusted.
func Sanitize(html string) string {
	if html == "" {
		return ""
	}

	s := scriptBlockRe.ReplaceAllString(html, "")
	s = styleBlockRe.ReplaceAllString(s, "")
	s = iframeBlockRe.ReplaceAllString(s, "")
	s = objectBlockRe.ReplaceAllString(s, "")

	s = onAttrDoubleRe.ReplaceAllString(s, "")
	s = onAttrSingleRe.ReplaceAllString(s, "")

	s = jsHrefDoubleRe.ReplaceAllString(s, `$1=""`)
	s = jsHrefSingleRe.ReplaceAllString(s, `$1=''`)
	s = jsSchemeRe.ReplaceAllString(s, "")

	return s
}
