package scanning

import (
	"errors"
	"strings"
)

// ErrEmptyTranscript is returned when the model found no text in the image
var ErrEmptyTranscript = errors.New("no text found in image")

// transcribePrompt is the shared prompt used by all LLM providers
const transcribePrompt = `You are reading a photo of a grocery receipt, a shopping list or a recipe card.

Transcribe ALL printed or handwritten text exactly as it appears, top to bottom.

Rules:
- Put each printed line on its own line
- Keep list markers, quantities and units (for example "- 2 cups flour")
- Keep section headings such as "Ingredients" or "Instructions"
- Do not translate, summarize, correct or explain anything
- Do not use markdown code blocks
- If the image contains no readable text, return an empty response`

// cleanTranscript strips markdown fences the models add despite the prompt and
// normalizes line endings. Blank lines are preserved.
func cleanTranscript(text string) (string, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSpace(text)

	// Remove opening fence with an optional language tag
	if strings.HasPrefix(text, "```") {
		if nl := strings.Index(text, "\n"); nl >= 0 {
			text = text[nl+1:]
		} else {
			text = strings.TrimPrefix(text, "```")
		}
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	text = strings.TrimSpace(strings.Join(lines, "\n"))

	if text == "" {
		return "", ErrEmptyTranscript
	}
	return text, nil
}
