// Package yaml validates YAML documents before they are decoded into
// changelog bundles, entries and config, so failures carry line and column
// information instead of a bare decoder message.
package yaml

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ValidateSyntax validates YAML syntax by streaming through the document.
// Returns nil if every document in r is syntactically valid.
func ValidateSyntax(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	for {
		var n yaml.Node
		if err := dec.Decode(&n); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// ValidationError represents a YAML validation error with location info.
type ValidationError struct {
	File    string
	Line    int
	Column  int
	Message string
}

func (e *ValidationError) Error() string {
	switch {
	case e.File != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
	case e.File != "":
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	case e.Line > 0:
		return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Message)
	default:
		return e.Message
	}
}

// ValidateFile validates the YAML syntax of the file at path.
func ValidateFile(path string) *ValidationError {
	data, err := os.ReadFile(path)
	if err != nil {
		return &ValidationError{
			File:    path,
			Message: fmt.Sprintf("failed to open file: %v", err),
		}
	}
	return ValidateBytes(path, data)
}

// ValidateBytes validates data and attributes any error to file.
func ValidateBytes(file string, data []byte) *ValidationError {
	if err := ValidateSyntax(strings.NewReader(string(data))); err != nil {
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) {
			return &ValidationError{File: file, Message: strings.Join(typeErr.Errors, "; ")}
		}
		line, column := extractLineColumn(err.Error())
		return &ValidationError{
			File:    file,
			Line:    line,
			Column:  column,
			Message: cleanYAMLError(err.Error()),
		}
	}
	return nil
}

// MissingKeys returns which of keys are absent from the top-level mapping of
// the first document in data. A document that is not a mapping is missing
// every key.
func MissingKeys(data []byte, keys ...string) ([]string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	present := make(map[string]bool)
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 && doc.Content[0].Kind == yaml.MappingNode {
		m := doc.Content[0]
		for i := 0; i+1 < len(m.Content); i += 2 {
			present[m.Content[i].Value] = true
		}
	}

	var missing []string
	for _, k := range keys {
		if !present[k] {
			missing = append(missing, k)
		}
	}
	return missing, nil
}

// extractLineColumn attempts to extract line and column numbers from a YAML error message.
// Returns 0, 0 if unable to extract.
func extractLineColumn(errMsg string) (line, column int) {
	// yaml.v3 errors look like: "yaml: line 5: could not find expected ':'"
	var l, c int
	if n, _ := fmt.Sscanf(errMsg, "yaml: line %d: column %d:", &l, &c); n == 2 {
		return l, c
	}
	if n, _ := fmt.Sscanf(errMsg, "yaml: line %d:", &l); n == 1 {
		return l, 1
	}
	return 0, 0
}

// cleanYAMLError removes the "yaml: line X:" prefix from error messages.
func cleanYAMLError(errMsg string) string {
	if strings.HasPrefix(errMsg, "yaml:") {
		if idx := strings.LastIndex(errMsg, ": "); idx > 0 {
			return errMsg[idx+2:]
		}
	}
	return errMsg
}
