package caption

import (
	"strings"
)

// MaxEncodedLength is the hard cap, in runes, of an encoded caption.
const MaxEncodedLength = 140

// memegenReplacer applies memegen's reserved-character escapes.
// Whitespace is handled separately because runs collapse to one underscore.
var memegenReplacer = strings.NewReplacer(
	"?", "~q",
	"%", "~p",
	`"`, "''",
)

// Encode converts a sanitized caption into a memegen text path segment.
//
// The order is fixed: trim, drop hashtag markers, turn whitespace runs into
// underscores, then escape '?', '%' and '"'. The result is cut at
// MaxEncodedLength runes without an ellipsis.
func Encode(text string) string {
	text = strings.TrimSpace(text)
	text = stripHashtags(text)
	text = collapseSpace(text, "_")
	text = memegenReplacer.Replace(text)
	return truncateRunes(text, MaxEncodedLength)
}

// ImageURL builds the memegen image URL for a template and sanitized caption:
// {base}/images/{template}/_/{encoded}.png
func ImageURL(baseURL, template, caption string) string {
	return strings.TrimRight(baseURL, "/") + "/images/" + template + "/_/" + Encode(caption) + ".png"
}
