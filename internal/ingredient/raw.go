package ingredient

import (
	"database/sql"
	"strings"
)

// Kind identifies which representation a Raw value carries.
type Kind int

const (
	// KindEmpty is a missing or blank value.
	KindEmpty Kind = iota
	// KindList is an already structured list of strings.
	KindList
	// KindText is free text: either a JSON-encoded array or a delimited string.
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindList:
		return "list"
	case KindText:
		return "text"
	default:
		return "empty"
	}
}

// Raw is a stored ingredient or step column as it arrives from a collaborator.
// Build one with FromList, FromText or FromNullString.
type Raw struct {
	kind Kind
	list []string
	text string
}

// FromList wraps an already structured list. A nil list is Empty.
func FromList(list []string) Raw {
	if list == nil {
		return Raw{}
	}
	return Raw{kind: KindList, list: list}
}

// FromText wraps a text column. Blank text is Empty.
func FromText(text string) Raw {
	if strings.TrimSpace(text) == "" {
		return Raw{}
	}
	return Raw{kind: KindText, text: text}
}

// FromNullString wraps a nullable SQL text column.
func FromNullString(ns sql.NullString) Raw {
	if !ns.Valid {
		return Raw{}
	}
	return FromText(ns.String)
}

// Kind reports the representation carried by r.
func (r Raw) Kind() Kind {
	return r.kind
}
