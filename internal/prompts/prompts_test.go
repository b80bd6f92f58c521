package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCaptionPrompt(t *testing.T) {
	got := CaptionPrompt("SpaceX launch")
	assert.Equal(t,
		`Write a very short (max 12 words) witty meme caption (no hashtags, no surrounding quotes) for the topic: "SpaceX launch"`,
		got)
}

func TestCaptionPromptKeepsPercent(t *testing.T) {
	assert.Contains(t, CaptionPrompt("100% real"), `"100% real"`)
}
