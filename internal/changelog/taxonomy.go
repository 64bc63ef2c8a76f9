package changelog

import (
	"fmt"
	"strings"
)

// entryTypes lists the valid types in canonical order.
var entryTypes = []EntryType{
	Feature, Enhancement, BugFix, BreakingChange, Deprecation,
	KnownIssue, Security, Docs, Other,
}

// ValidEntryTypes returns every valid entry type in canonical order.
func ValidEntryTypes() []EntryType {
	out := make([]EntryType, len(entryTypes))
	copy(out, entryTypes)
	return out
}

// ParseEntryType maps a type string to an EntryType. Matching ignores case and
// surrounding space and treats '_' as '-'. Unknown strings yield Invalid.
func ParseEntryType(s string) EntryType {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for _, t := range entryTypes {
		if string(t) == normalized {
			return t
		}
	}
	return Invalid
}

// IsValid reports whether t is one of the known variants.
func (t EntryType) IsValid() bool {
	for _, v := range entryTypes {
		if v == t {
			return true
		}
	}
	return false
}

// IsCritical reports whether t always gets its own section, exempt from the
// default type filter.
func (t EntryType) IsCritical() bool {
	switch t {
	case BreakingChange, Security, KnownIssue, Deprecation:
		return true
	default:
		return false
	}
}

// IsDetailed reports whether entries of t render as expanded blocks with
// impact and action, in their own document.
func (t EntryType) IsDetailed() bool {
	switch t {
	case BreakingChange, Deprecation, KnownIssue:
		return true
	default:
		return false
	}
}

// IsPrimary reports whether t counts as a feature, enhancement or fix for the
// empty-release placeholder.
func (t EntryType) IsPrimary() bool {
	switch t {
	case Feature, Enhancement, BugFix:
		return true
	default:
		return false
	}
}

// Label returns a lower-case human label ("breaking change").
func (t EntryType) Label() string {
	return strings.ReplaceAll(string(t), "-", " ")
}

// ValidationError represents an entry or bundle validation error with context.
type ValidationError struct {
	File    string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	switch {
	case e.File != "" && e.Field != "":
		return fmt.Sprintf("%s: %s: %s", e.File, e.Field, e.Message)
	case e.Field != "":
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	case e.File != "":
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	default:
		return e.Message
	}
}
