package prompts

import "fmt"

// ============================================================================
// Caption Prompts
// ============================================================================

// CaptionPromptTemplate asks for a single short caption. The model is told to
// skip hashtags and quotes, but the sanitizer still strips them.
const CaptionPromptTemplate = `Write a very short (max 12 words) witty meme caption (no hashtags, no surrounding quotes) for the topic: "%s"`

// CaptionPrompt builds the user prompt for a topic.
func CaptionPrompt(topic string) string {
	return fmt.Sprintf(CaptionPromptTemplate, topic)
}
