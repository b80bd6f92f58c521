package domain

import "strings"

// Provider selects the text-generation backend for a caption.
// Values include ProviderGroq (default) and ProviderGemini.
type Provider string

const (
	ProviderGroq   Provider = "groq"
	ProviderGemini Provider = "gemini"
)

// ParseProvider maps a request selector to a Provider.
// Only "gemini" selects Gemini; anything else, including empty, selects Groq.
func ParseProvider(raw string) Provider {
	if raw == string(ProviderGemini) {
		return ProviderGemini
	}
	return ProviderGroq
}

// Mode controls whether an image URL is built for the caption.
type Mode string

const (
	ModeFull    Mode = "full"
	ModeCaption Mode = "caption"
)

// ParseMode maps a request mode to a Mode. Only "caption" is caption-only.
func ParseMode(raw string) Mode {
	if raw == string(ModeCaption) {
		return ModeCaption
	}
	return ModeFull
}

// CaptionRequest is a single meme generation request. It is never persisted.
type CaptionRequest struct {
	Topic    string
	Template string // free-form template name, alias or "random"; may be empty
	Mode     Mode
	Provider Provider
}

// HasTopic reports whether the request carries a usable topic.
func (r *CaptionRequest) HasTopic() bool {
	return strings.TrimSpace(r.Topic) != ""
}

// ResolvedMeme is the outcome of a successful request.
type ResolvedMeme struct {
	Caption   string   // sanitized, at most 120 runes
	Template  string   // canonical memegen template id
	ImageURL  string   // empty in caption-only mode
	Templates []string // catalog the template was resolved against
	Provider  Provider
}
