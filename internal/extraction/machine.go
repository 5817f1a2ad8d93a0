package extraction

import (
	"regexp"
	"strings"
)

// State is the position of the line scanner relative to an ingredients block.
type State int

const (
	// StateBeforeSection means no ingredients block has been entered yet.
	StateBeforeSection State = iota
	// StateInSection means every line is read as a candidate ingredient.
	StateInSection
	// StateDone means a stop phrase ended the block; later lines are ignored.
	StateDone
)

func (s State) String() string {
	switch s {
	case StateInSection:
		return "in_section"
	case StateDone:
		return "done"
	default:
		return "before_section"
	}
}

var (
	headerPhrases = []string{"ingredient", "ingredients:", "you will need", "you'll need", "materials", "supplies"}
	stopPhrases   = []string{"instruction", "directions", "steps", "method", "preparation", "procedure"}

	listMarker    = regexp.MustCompile(`^(?:[-•*]|\d+[.)])`)
	quantityStart = regexp.MustCompile(`(?i)^` + quantityUnit)
)

// Machine tracks section detection across the lines of a receipt transcript.
// The zero value is ready to use.
type Machine struct {
	state       State
	foundHeader bool
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// FoundHeader reports whether a header line was ever seen.
func (m *Machine) FoundHeader() bool {
	return m.foundHeader
}

// Feed advances the machine by one trimmed line and reports whether the line
// should be read as a candidate ingredient line.
func (m *Machine) Feed(line string) bool {
	if m.state == StateDone {
		return false
	}
	lower := strings.ToLower(line)

	if containsAny(lower, headerPhrases) {
		m.state = StateInSection
		m.foundHeader = true
		return false
	}

	if m.state == StateInSection {
		if containsAny(lower, stopPhrases) {
			m.state = StateDone
			return false
		}
		return true
	}

	// Without a header, a list-looking line opens an implicit section.
	if !m.foundHeader && (listMarker.MatchString(line) || quantityStart.MatchString(line)) {
		m.state = StateInSection
		return true
	}
	return false
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
