package ingredient

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// NoStepsMarker is shown when a recipe has no usable cooking steps.
const NoStepsMarker = "No cooking steps available."

var (
	ingredientDelims = regexp.MustCompile(`,|\n|;|\||\x{2022}|\t`)
	stepDelims       = regexp.MustCompile(`\n+|\r+|\.|;`)
)

// ParseIngredients converts a stored ingredient column into an ordered list.
// Lists pass through untouched. Text is decoded as a JSON array when possible
// and otherwise split on commas, newlines, semicolons, pipes, bullets and tabs.
func ParseIngredients(raw Raw) []string {
	switch raw.kind {
	case KindList:
		return raw.list
	case KindText:
		if list, ok := decodeJSONArray(raw.text); ok {
			return list
		}
		return splitTrimmed(raw.text, ingredientDelims)
	default:
		return []string{}
	}
}

// ParseSteps converts a stored steps column into an ordered list of
// instructions. A JSON array is used as is, a JSON string is split, and any
// other text is split on newlines, carriage returns, periods and semicolons.
func ParseSteps(raw Raw) []string {
	switch raw.kind {
	case KindList:
		return raw.list
	case KindText:
		if list, ok := decodeJSONArray(raw.text); ok {
			return list
		}
		var s string
		if err := json.Unmarshal([]byte(raw.text), &s); err == nil {
			return splitTrimmed(s, stepDelims)
		}
		return splitTrimmed(raw.text, stepDelims)
	default:
		return []string{}
	}
}

// FormatInstructions renders steps as a paragraph: each non-empty step is
// capitalized, given a terminal period unless it already ends in . ! or ?, and
// the steps are joined with single spaces. With no usable steps it returns
// NoStepsMarker.
func FormatInstructions(steps []string) string {
	sentences := make([]string, 0, len(steps))
	for _, step := range steps {
		step = strings.TrimSpace(step)
		if step == "" {
			continue
		}
		step = capitalize(step)
		if !strings.HasSuffix(step, ".") && !strings.HasSuffix(step, "!") && !strings.HasSuffix(step, "?") {
			step += "."
		}
		sentences = append(sentences, step)
	}
	if len(sentences) == 0 {
		return NoStepsMarker
	}
	return strings.Join(sentences, " ")
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// decodeJSONArray reports whether text is a JSON array and returns its
// elements as strings. Null elements are dropped.
func decodeJSONArray(text string) ([]string, bool) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "[") {
		return nil, false
	}
	var items []any
	if err := json.Unmarshal([]byte(trimmed), &items); err != nil {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case nil:
		case string:
			out = append(out, v)
		default:
			out = append(out, fmt.Sprint(v))
		}
	}
	return out, true
}

func splitTrimmed(text string, delims *regexp.Regexp) []string {
	parts := delims.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
