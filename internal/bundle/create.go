package bundle

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/elastic/docs-builder-sub007/internal/changelog"
	"github.com/elastic/docs-builder-sub007/internal/diag"
)

// ErrNoFilter is returned when Create is given no selection filter.
var ErrNoFilter = errors.New("one of --all, --prs or --input-products is required")

// CreateOptions selects entry files and describes the descriptor to write.
// Exactly one of All, PRs and InputProducts selects entries.
type CreateOptions struct {
	// EntriesDir holds one YAML file per entry.
	EntriesDir string
	All        bool
	// PRs selects entries referencing any of these PRs.
	PRs []string
	// InputProducts selects entries targeting any of these products. A target
	// of "*" matches every target of that product. They also become the
	// descriptor's products.
	InputProducts []changelog.ProductTarget
	// Resolve writes entries inline instead of as file references.
	Resolve bool
	// Output is the descriptor path. Empty means <EntriesDir>/bundles/<target>.yaml.
	Output string
}

// CreateResult describes a written descriptor.
type CreateResult struct {
	Path    string
	Target  string
	Entries int
}

type outDescriptor struct {
	Products []changelog.ProductTarget `yaml:"products"`
	Entries  []rawEntry                `yaml:"entries"`
}

type candidate struct {
	name string
	data []byte
	raw  rawEntry
}

// Create writes a bundle descriptor for the selected entries of
// opts.EntriesDir. Entry files that fail to parse are Errors; PR filters that
// match nothing are Warnings.
func Create(opts CreateOptions, c *diag.Collector) (*CreateResult, error) {
	if !opts.All && len(opts.PRs) == 0 && len(opts.InputProducts) == 0 {
		return nil, ErrNoFilter
	}

	local := diag.NewCollector()
	defer c.Append(local)

	files, err := os.ReadDir(opts.EntriesDir)
	if err != nil {
		return nil, fmt.Errorf("reading entries directory %s: %w", opts.EntriesDir, err)
	}

	var candidates []candidate
	for _, f := range files {
		if f.IsDir() || !isYAML(f.Name()) {
			continue
		}
		path := filepath.Join(opts.EntriesDir, f.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading entry file %s: %w", path, err)
		}
		var re rawEntry
		if err := yaml.Unmarshal(data, &re); err != nil {
			local.Errorf(path, "failed to deserialize entry file '%s': %v", f.Name(), err)
			continue
		}
		candidates = append(candidates, candidate{name: f.Name(), data: data, raw: re})
	}
	if local.HasErrors() {
		return nil, ErrInvalidBundles
	}

	selected := selectCandidates(candidates, opts, local)

	products := opts.InputProducts
	if len(products) == 0 {
		products = productsOf(selected)
	}
	target := UnknownTarget
	for _, p := range products {
		if p.Target != "" && p.Target != "*" {
			target = p.Target
			break
		}
	}

	out := outDescriptor{Products: products, Entries: make([]rawEntry, 0, len(selected))}
	for _, cand := range selected {
		if opts.Resolve {
			out.Entries = append(out.Entries, cand.raw)
			continue
		}
		out.Entries = append(out.Entries, rawEntry{File: &fileRef{Name: cand.name, Checksum: Checksum(cand.data)}})
	}

	path := opts.Output
	if path == "" {
		path = filepath.Join(opts.EntriesDir, "bundles", target+".yaml")
	}
	data, err := yaml.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encoding bundle: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating bundle directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("writing bundle %s: %w", path, err)
	}
	return &CreateResult{Path: path, Target: target, Entries: len(selected)}, nil
}

func selectCandidates(candidates []candidate, opts CreateOptions, c *diag.Collector) []candidate {
	if opts.All {
		return candidates
	}

	var selected []candidate
	if len(opts.PRs) > 0 {
		matched := make(map[string]bool)
		for _, cand := range candidates {
			hit := false
			for _, pr := range collectPRs(cand.raw.PR, cand.raw.PRs) {
				for _, want := range opts.PRs {
					if SamePR(pr, want) {
						matched[want] = true
						hit = true
					}
				}
			}
			if hit {
				selected = append(selected, cand)
			}
		}
		for _, want := range opts.PRs {
			if !matched[want] {
				c.Warnf(opts.EntriesDir, "no changelog entry found for PR '%s'", want)
			}
		}
		return selected
	}

	for _, cand := range candidates {
		if matchesProducts(cand.raw.Products, opts.InputProducts) {
			selected = append(selected, cand)
		}
	}
	return selected
}

func matchesProducts(have, want []changelog.ProductTarget) bool {
	for _, h := range have {
		for _, w := range want {
			if !strings.EqualFold(h.Product, w.Product) {
				continue
			}
			if w.Target == "" || w.Target == "*" || h.Target == w.Target {
				return true
			}
		}
	}
	return false
}

func productsOf(selected []candidate) []changelog.ProductTarget {
	seen := make(map[string]bool)
	var out []changelog.ProductTarget
	for _, cand := range selected {
		for _, p := range cand.raw.Products {
			key := p.Product + "@" + p.Target
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, p)
		}
	}
	return out
}

// SamePR reports whether two PR references name the same pull request. A bare
// number matches a URL or owner/repo#n form ending in that number.
func SamePR(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == "" || b == "" {
		return false
	}
	if strings.EqualFold(a, b) {
		return true
	}
	na, nb := prNumber(a), prNumber(b)
	if na == "" || na != nb {
		return false
	}
	// Only compare numbers when at least one side is unqualified.
	return na == a || nb == b
}

func prNumber(ref string) string {
	ref = strings.TrimSuffix(ref, "/")
	if i := strings.LastIndexAny(ref, "#/"); i >= 0 {
		ref = ref[i+1:]
	}
	for _, r := range ref {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return ref
}

// ParseInputProducts parses "<id> <target> [lifecycle]" items separated by commas.
func ParseInputProducts(s string) ([]changelog.ProductTarget, error) {
	var out []changelog.ProductTarget
	for _, item := range strings.Split(s, ",") {
		fields := strings.Fields(item)
		switch len(fields) {
		case 0:
			continue
		case 1:
			out = append(out, changelog.ProductTarget{Product: fields[0], Target: "*"})
		case 2:
			out = append(out, changelog.ProductTarget{Product: fields[0], Target: fields[1]})
		case 3:
			out = append(out, changelog.ProductTarget{Product: fields[0], Target: fields[1], Lifecycle: fields[2]})
		default:
			return nil, fmt.Errorf("invalid input product %q: expected '<id> <target> [lifecycle]'", strings.TrimSpace(item))
		}
	}
	return out, nil
}

// ReadList expands values into a flat list. A value naming an existing file
// contributes that file's non-empty, non-comment lines; any other value is
// split on commas.
func ReadList(values []string) ([]string, error) {
	var out []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if info, err := os.Stat(v); err == nil && !info.IsDir() {
			lines, err := readLines(v)
			if err != nil {
				return nil, err
			}
			out = append(out, lines...)
			continue
		}
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out, nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return lines, nil
}

func isYAML(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
