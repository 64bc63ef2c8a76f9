package bundle

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/elastic/docs-builder-sub007/internal/changelog"
	"github.com/elastic/docs-builder-sub007/internal/config"
	"github.com/elastic/docs-builder-sub007/internal/diag"
	"github.com/elastic/docs-builder-sub007/internal/git"
	yamlcheck "github.com/elastic/docs-builder-sub007/internal/yaml"
)

// ErrInvalidBundles is returned when loading produced at least one Error
// diagnostic. The diagnostics themselves carry the details.
var ErrInvalidBundles = errors.New("one or more changelog bundles are invalid")

// UnknownTarget is the target given to bundles that declare none.
const UnknownTarget = "unknown"

// Descriptor locates one bundle descriptor.
type Descriptor struct {
	// Path is the descriptor file.
	Path string
	// BaseDir resolves file-backed entries. Empty means the descriptor's directory.
	BaseDir string
	// Repo is the repo label for the bundle. Empty means derive one.
	Repo string
}

// ParseDescriptor parses the "path|entries-dir|repo" form used on the command
// line. Only the path is required.
func ParseDescriptor(s string) (Descriptor, error) {
	parts := strings.Split(s, "|")
	if len(parts) > 3 {
		return Descriptor{}, fmt.Errorf("invalid bundle input %q: expected path|entries-dir|repo", s)
	}
	d := Descriptor{Path: strings.TrimSpace(parts[0])}
	if d.Path == "" {
		return Descriptor{}, fmt.Errorf("invalid bundle input %q: path is empty", s)
	}
	if len(parts) > 1 {
		d.BaseDir = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		d.Repo = strings.TrimSpace(parts[2])
	}
	return d, nil
}

func (d Descriptor) baseDir() string {
	if d.BaseDir != "" {
		return d.BaseDir
	}
	return filepath.Dir(d.Path)
}

// Options controls how bundles are resolved.
type Options struct {
	// Title overrides every bundle's target.
	Title string
	// DefaultRepo is the repo label used when a descriptor does not name one.
	DefaultRepo string
	// Config, when set, enables lifecycle and pivot checks.
	Config *config.ChangelogConfig
	// RepoFromDir derives a repo label from a directory when neither the
	// descriptor nor DefaultRepo provide one. Defaults to the git origin name.
	RepoFromDir func(dir string) string
}

// Loader resolves descriptors into bundles. The duplicate tracking it keeps
// is scoped to one Loader, so use a fresh Loader per invocation.
type Loader struct {
	opts     Options
	validate *validator.Validate

	// seenFiles and seenPRs map a file name or PR reference to the
	// descriptor that first referenced it.
	seenFiles map[string]string
	seenPRs   map[string]string
}

// NewLoader returns a Loader with empty duplicate tracking.
func NewLoader(opts Options) *Loader {
	if opts.RepoFromDir == nil {
		opts.RepoFromDir = gitRepoName
	}
	return &Loader{
		opts:      opts,
		validate:  newValidator(),
		seenFiles: make(map[string]string),
		seenPRs:   make(map[string]string),
	}
}

// Load resolves every descriptor in order. Bundles that fail structurally are
// skipped; the rest are returned in descriptor order. When any Error was
// collected during this call the returned error is ErrInvalidBundles.
func (l *Loader) Load(descs []Descriptor, c *diag.Collector) ([]changelog.Bundle, error) {
	local := diag.NewCollector()
	bundles := make([]changelog.Bundle, 0, len(descs))
	for _, d := range descs {
		b, ok := l.loadOne(d, local)
		if ok {
			bundles = append(bundles, *b)
		}
	}
	c.Append(local)
	if local.HasErrors() {
		return bundles, ErrInvalidBundles
	}
	return bundles, nil
}

// rawDescriptor is the on-disk shape of a bundle descriptor.
type rawDescriptor struct {
	Products []changelog.ProductTarget `yaml:"products"`
	Entries  []rawEntry                `yaml:"entries"`
}

type fileRef struct {
	Name     string `yaml:"name"`
	Checksum string `yaml:"checksum"`
}

// rawEntry is either a file reference or an inline entry.
type rawEntry struct {
	File *fileRef `yaml:"file,omitempty"`

	Title       string                    `yaml:"title,omitempty" validate:"required"`
	Type        string                    `yaml:"type,omitempty" validate:"required"`
	Products    []changelog.ProductTarget `yaml:"products,omitempty" validate:"required,min=1,dive"`
	Areas       []string                  `yaml:"areas,omitempty"`
	PR          string                    `yaml:"pr,omitempty"`
	PRs         []string                  `yaml:"prs,omitempty"`
	Issues      []string                  `yaml:"issues,omitempty"`
	Description string                    `yaml:"description,omitempty"`
	Impact      string                    `yaml:"impact,omitempty"`
	Action      string                    `yaml:"action,omitempty"`
	FeatureID   string                    `yaml:"feature-id,omitempty"`
	Highlight   bool                      `yaml:"highlight,omitempty"`
}

func (l *Loader) loadOne(d Descriptor, c *diag.Collector) (*changelog.Bundle, bool) {
	data, err := os.ReadFile(d.Path)
	if err != nil {
		if os.IsNotExist(err) {
			c.Errorf(d.Path, "bundle file does not exist: %s", d.Path)
		} else {
			c.Errorf(d.Path, "failed to read bundle file: %v", err)
		}
		return nil, false
	}

	if verr := yamlcheck.ValidateBytes(d.Path, data); verr != nil {
		c.Errorf(d.Path, "failed to deserialize bundle: %s", verr.Error())
		return nil, false
	}
	missing, err := yamlcheck.MissingKeys(data, "products", "entries")
	if err != nil {
		c.Errorf(d.Path, "failed to deserialize bundle: %v", err)
		return nil, false
	}
	if len(missing) > 0 {
		c.Errorf(d.Path, "bundle is missing required field '%s'", strings.Join(missing, "', '"))
		return nil, false
	}

	var raw rawDescriptor
	if err := yaml.Unmarshal(data, &raw); err != nil {
		c.Errorf(d.Path, "failed to deserialize bundle: %v", err)
		return nil, false
	}

	b := &changelog.Bundle{
		Products:   raw.Products,
		OriginPath: d.Path,
		MergedFrom: []string{d.Path},
	}
	b.Target = l.target(d, raw.Products, c)
	b.RepoLabel = l.repoLabel(d, raw.Products)
	l.checkLifecycles(d.Path, raw.Products, c)

	bundleFiles := make(map[string]bool)
	for i, re := range raw.Entries {
		var (
			entry changelog.Entry
			ok    bool
		)
		if re.File != nil {
			entry, ok = l.resolveFile(d, re.File, bundleFiles, c)
		} else {
			entry, ok = l.resolveInline(d.Path, i, re, c)
		}
		if !ok {
			continue
		}
		entry.Repo = b.RepoLabel
		l.trackPRs(d.Path, entry, c)
		l.checkPivot(d.Path, entry, c)
		b.Entries = append(b.Entries, entry)
	}
	return b, true
}

func (l *Loader) target(d Descriptor, products []changelog.ProductTarget, c *diag.Collector) string {
	if t := strings.TrimSpace(l.opts.Title); t != "" {
		return t
	}
	for _, p := range products {
		if t := strings.TrimSpace(p.Target); t != "" {
			return t
		}
	}
	c.Warnf(d.Path, "bundle declares no target and no title option provided; the version will default to '%s'", UnknownTarget)
	return UnknownTarget
}

func (l *Loader) repoLabel(d Descriptor, products []changelog.ProductTarget) string {
	if d.Repo != "" {
		return d.Repo
	}
	if l.opts.DefaultRepo != "" {
		return l.opts.DefaultRepo
	}
	if name := l.opts.RepoFromDir(d.baseDir()); name != "" {
		return name
	}
	for _, p := range products {
		if p.Product != "" {
			return p.Product
		}
	}
	return ""
}

func gitRepoName(dir string) string {
	rr, err := git.OriginRepo(dir)
	if err != nil {
		return ""
	}
	return rr.Name
}

func (l *Loader) resolveFile(d Descriptor, ref *fileRef, bundleFiles map[string]bool, c *diag.Collector) (changelog.Entry, bool) {
	name := strings.TrimSpace(ref.Name)
	if name == "" {
		c.Errorf(d.Path, "file entry is missing required field 'name'")
		return changelog.Entry{}, false
	}

	if bundleFiles[name] {
		c.Warnf(d.Path, "Changelog file '%s' appears multiple times in the same bundle", name)
	} else if first, ok := l.seenFiles[name]; ok && first != d.Path {
		c.Warnf(d.Path, "Changelog file '%s' appears in multiple bundles: %s and %s", name, first, d.Path)
	}
	bundleFiles[name] = true
	if _, ok := l.seenFiles[name]; !ok {
		l.seenFiles[name] = d.Path
	}

	path := filepath.Join(d.baseDir(), name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			c.Errorf(d.Path, "entry file '%s' not found in %s", name, d.baseDir())
		} else {
			c.Errorf(d.Path, "failed to read entry file '%s': %v", name, err)
		}
		return changelog.Entry{}, false
	}

	sum := Checksum(data)
	if want := strings.TrimSpace(ref.Checksum); !strings.EqualFold(want, sum) {
		c.Errorf(d.Path, "checksum mismatch for entry file '%s': bundle records '%s' but the file hashes to '%s'", name, want, sum)
		return changelog.Entry{}, false
	}

	if verr := yamlcheck.ValidateBytes(path, data); verr != nil {
		c.Errorf(path, "failed to deserialize entry file '%s': %s", name, verr.Error())
		return changelog.Entry{}, false
	}
	var re rawEntry
	if err := yaml.Unmarshal(data, &re); err != nil {
		c.Errorf(path, "failed to deserialize entry file '%s': %v", name, err)
		return changelog.Entry{}, false
	}

	entry, ok := l.toEntry(path, fmt.Sprintf("entry file '%s'", name), re, c)
	if !ok {
		return changelog.Entry{}, false
	}
	entry.Source = changelog.Source{Kind: changelog.FileSource, Name: name, Checksum: sum}
	return entry, true
}

func (l *Loader) resolveInline(origin string, index int, re rawEntry, c *diag.Collector) (changelog.Entry, bool) {
	entry, ok := l.toEntry(origin, fmt.Sprintf("inline entry %d", index+1), re, c)
	if !ok {
		return changelog.Entry{}, false
	}
	entry.Source = changelog.Source{Kind: changelog.InlineSource}
	return entry, true
}

// toEntry validates the required fields and parses the type. An unknown type
// is an Error but the entry is still returned, typed Invalid, so later stages
// refuse to render it.
func (l *Loader) toEntry(file, what string, re rawEntry, c *diag.Collector) (changelog.Entry, bool) {
	if err := l.validate.Struct(re); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				c.Errorf(file, "%s is missing required field '%s'", what, fieldName(fe))
			}
		} else {
			c.Errorf(file, "%s is invalid: %v", what, err)
		}
		return changelog.Entry{}, false
	}

	entry := changelog.Entry{
		Title:       strings.TrimSpace(re.Title),
		RawType:     re.Type,
		Type:        changelog.ParseEntryType(re.Type),
		Products:    re.Products,
		Areas:       re.Areas,
		PRs:         collectPRs(re.PR, re.PRs),
		Issues:      re.Issues,
		Description: re.Description,
		Impact:      re.Impact,
		Action:      re.Action,
		FeatureID:   strings.TrimSpace(re.FeatureID),
		Highlight:   re.Highlight,
	}
	if entry.Type == changelog.Invalid {
		c.Errorf(file, "Changelog entry '%s' has an invalid or unrecognized type '%s'", entry.Title, re.Type)
	}
	return entry, true
}

func collectPRs(single string, many []string) []string {
	var out []string
	for _, pr := range append([]string{single}, many...) {
		if pr = strings.TrimSpace(pr); pr != "" {
			out = append(out, pr)
		}
	}
	return out
}

func (l *Loader) trackPRs(origin string, e changelog.Entry, c *diag.Collector) {
	for _, pr := range e.PRs {
		first, ok := l.seenPRs[pr]
		if !ok {
			l.seenPRs[pr] = origin
			continue
		}
		if first != origin {
			c.Warnf(origin, "PR '%s' appears in multiple bundles: %s and %s", pr, first, origin)
		}
	}
}

func (l *Loader) checkLifecycles(origin string, products []changelog.ProductTarget, c *diag.Collector) {
	if l.opts.Config == nil || len(l.opts.Config.Lifecycles) == 0 {
		return
	}
	for _, p := range products {
		if p.Lifecycle != "" && !containsFold(l.opts.Config.Lifecycles, p.Lifecycle) {
			c.Warnf(origin, "product '%s' uses lifecycle '%s' which is not one of: %s",
				p.Product, p.Lifecycle, strings.Join(l.opts.Config.Lifecycles, ", "))
		}
	}
}

func (l *Loader) checkPivot(origin string, e changelog.Entry, c *diag.Collector) {
	if l.opts.Config == nil {
		return
	}
	pivot := l.opts.Config.Pivot
	if len(pivot.Types) > 0 && e.Type != changelog.Invalid && !containsFold(pivot.Types, string(e.Type)) {
		c.Warnf(origin, "Changelog entry '%s' has type '%s' which is not declared in pivot.types", e.Title, e.Type)
	}
	if len(pivot.Areas) > 0 {
		for _, a := range e.Areas {
			if !containsFold(pivot.Areas, a) {
				c.Warnf(origin, "Changelog entry '%s' has area '%s' which is not declared in pivot.areas", e.Title, a)
			}
		}
	}
}

// Checksum returns the hex-encoded SHA-1 of an entry file's raw bytes.
func Checksum(data []byte) string {
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// fieldName returns the yaml path of a failed field, without the root struct.
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func containsFold(list []string, v string) bool {
	for _, s := range list {
		if strings.EqualFold(strings.TrimSpace(s), v) {
			return true
		}
	}
	return false
}
