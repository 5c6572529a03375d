// Package classify decides whether a media title embedded in a Wikipedia
// article is plausibly a company logo. Pure string heuristics, no I/O.
package classify

import "strings"

// logoKeywords are substrings that mark a filename as logo-like.
var logoKeywords = []string{
	"logo", "wordmark", "emblem", "symbol", "brand",
	"trademark", "corporate", "company_logo", "logotype",
	"mark", "insignia",
}

// skipKeywords are substrings of platform-chrome images that must never be
// treated as company logos, even when they also contain a logo keyword
// (e.g. "Wikidata-logo.svg"). The deny list always wins.
var skipKeywords = []string{
	"commons-logo", "wiki", "wikidata", "wikimedia",
	"edit-icon", "ambox", "merge", "disambig",
}

// IsLogoFile reports whether a media title looks like a company logo.
// Three rules, all required: an allow keyword is present, the extension is
// .png or .svg, and no deny keyword is present. Deterministic — same title,
// same answer.
func IsLogoFile(title string) bool {
	lower := strings.ToLower(title)

	if !hasAny(lower, logoKeywords) {
		return false
	}
	if !strings.HasSuffix(lower, ".png") && !strings.HasSuffix(lower, ".svg") {
		return false
	}
	return !hasAny(lower, skipKeywords)
}

func hasAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
