// Package extraction mines ingredient names out of OCR text taken from
// photographed receipts and recipe cards. It is a best-effort heuristic: it
// never fails, and the worst case is an empty result.
package extraction

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// quantityUnit matches a numeric amount followed by a unit word, optionally
// pluralized. Longer unit spellings come first so they win the alternation.
const quantityUnit = `\d+(?:[./]\d+)?\s*(?:cup|tablespoon|teaspoon|tbsp|tsp|ounce|oz|pound|lb|gram|kg|g|ml|liter|l)s?\b`

var (
	leadingMarker = regexp.MustCompile(`^(?:[-•*]+\s*)?(?:\d+[.)]\s*)?`)
	quantityAny   = regexp.MustCompile(`(?i)` + quantityUnit + `\s*`)
	leadingCount  = regexp.MustCompile(`^\d+(?:[./]\d+)?\s+`)
	parenthetical = regexp.MustCompile(`\([^)]*\)`)
)

var stopwords = map[string]struct{}{
	"to": {}, "the": {}, "and": {}, "or": {}, "for": {}, "of": {}, "in": {}, "a": {}, "an": {},
}

// commonFoods is scanned, in order, when no ingredient lines are found.
var commonFoods = []string{
	"flour", "sugar", "salt", "pepper", "butter", "oil", "egg", "milk", "cream", "cheese",
	"chicken", "beef", "pork", "fish", "shrimp", "salmon", "tuna",
	"tomato", "onion", "garlic", "carrot", "celery", "potato", "lettuce", "spinach",
	"rice", "pasta", "bread", "noodle", "quinoa",
	"basil", "oregano", "thyme", "parsley", "cilantro", "rosemary",
	"lemon", "lime", "orange", "apple", "banana",
	"vanilla", "cinnamon", "paprika", "cumin", "chili",
	"soy sauce", "vinegar", "mustard", "mayonnaise", "ketchup",
}

// CommonFoods returns a copy of the fallback dictionary in scan order.
func CommonFoods() []string {
	return append([]string(nil), commonFoods...)
}

// Ingredients extracts a deduplicated list of ingredient names from text, in
// order of first discovery. Lines inside a detected ingredients block, or
// list-like lines when no header exists, are cleaned into names. If that finds
// nothing, the text is searched for well-known food words instead.
func Ingredients(text string) []string {
	var (
		m     Machine
		found []string
	)
	for _, line := range lines(text) {
		if !m.Feed(line) {
			if m.State() == StateDone {
				break
			}
			continue
		}
		if name, ok := CleanLine(line); ok {
			found = append(found, name)
		}
	}

	if len(found) == 0 {
		found = dictionaryScan(text)
	}
	return dedupe(found)
}

// CleanLine reduces one candidate line to an ingredient name. It strips list
// markers, quantities with units and parenthetical notes. Names of up to four
// words are kept whole; longer ones keep their last three words. It reports
// false when what remains is too short or is a stopword.
func CleanLine(line string) (string, bool) {
	s := leadingMarker.ReplaceAllString(strings.TrimSpace(line), "")
	s = quantityAny.ReplaceAllString(s, " ")
	s = parenthetical.ReplaceAllString(s, " ")
	s = leadingCount.ReplaceAllString(strings.TrimSpace(s), "")

	words := strings.Fields(s)
	if len(words) > 4 {
		words = words[len(words)-3:]
	}
	name := strings.ToLower(strings.Join(words, " "))

	if utf8.RuneCountInString(name) <= 2 {
		return "", false
	}
	if _, ok := stopwords[name]; ok {
		return "", false
	}
	return name, true
}

func lines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

func dictionaryScan(text string) []string {
	lower := strings.ToLower(text)
	var hits []string
	for _, food := range commonFoods {
		if strings.Contains(lower, food) {
			hits = append(hits, food)
		}
	}
	return hits
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
