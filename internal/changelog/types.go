package changelog

// EntryType is the taxonomy type of a changelog entry.
type EntryType string

const (
	Feature        EntryType = "feature"
	Enhancement    EntryType = "enhancement"
	BugFix         EntryType = "bug-fix"
	BreakingChange EntryType = "breaking-change"
	Deprecation    EntryType = "deprecation"
	KnownIssue     EntryType = "known-issue"
	Security       EntryType = "security"
	Docs           EntryType = "docs"
	Other          EntryType = "other"
	// Invalid marks a type string that matched no known variant. It is
	// terminal: any Invalid entry fails the render.
	Invalid EntryType = "invalid"
)

// ProductTarget ties an entry or bundle to a product release.
type ProductTarget struct {
	Product   string `yaml:"product" validate:"required"`
	Target    string `yaml:"target,omitempty"`
	Lifecycle string `yaml:"lifecycle,omitempty"`
}

// SourceKind says where an entry's fields came from.
type SourceKind int

const (
	// InlineSource entries are written directly inside the bundle descriptor.
	InlineSource SourceKind = iota
	// FileSource entries live in their own file, referenced by name and checksum.
	FileSource
)

// Source records the provenance of an entry.
type Source struct {
	Kind SourceKind
	// Name and Checksum are only set for FileSource.
	Name     string
	Checksum string
}

// IsFile reports whether the entry was resolved from a referenced file.
func (s Source) IsFile() bool {
	return s.Kind == FileSource
}

// Entry is one changelog item.
type Entry struct {
	Title       string          `yaml:"title"`
	Type        EntryType       `yaml:"type"`
	Products    []ProductTarget `yaml:"products"`
	Areas       []string        `yaml:"areas,omitempty"`
	PRs         []string        `yaml:"prs,omitempty"`
	Issues      []string        `yaml:"issues,omitempty"`
	Description string          `yaml:"description,omitempty"`
	Impact      string          `yaml:"impact,omitempty"`
	Action      string          `yaml:"action,omitempty"`
	// FeatureID keeps its original case; comparisons are case-insensitive.
	FeatureID string `yaml:"feature-id,omitempty"`
	Highlight bool   `yaml:"highlight,omitempty"`

	// RawType is the type string as written, kept for diagnostics when Type is Invalid.
	RawType string `yaml:"-"`
	// Repo is the repo label of the bundle the entry was loaded from. It
	// survives merging so links keep pointing at the right repository.
	Repo   string `yaml:"-"`
	Source Source `yaml:"-"`
}

// PR returns the first PR reference, or "" when there is none.
func (e *Entry) PR() string {
	if len(e.PRs) == 0 {
		return ""
	}
	return e.PRs[0]
}

// Bundle is one release-note file unit.
type Bundle struct {
	// Target is the grouping and sort key: a semver, an ISO date or any string.
	Target    string
	Products  []ProductTarget
	RepoLabel string
	Entries   []Entry
	// OriginPath is the descriptor the bundle was loaded from. Merged bundles
	// keep the first source's path and list every source in MergedFrom.
	OriginPath string
	MergedFrom []string
}

// IsMerged reports whether the bundle was synthesized from several sources.
func (b *Bundle) IsMerged() bool {
	return len(b.MergedFrom) > 1
}
