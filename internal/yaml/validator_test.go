package yaml

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSyntax(t *testing.T) {
	tests := map[string]struct {
		input   string
		wantErr bool
	}{
		"simple key-value":   {input: "key: value"},
		"bundle shape":       {input: "products:\n  - product: elasticsearch\n    target: 9.3.0\nentries: []"},
		"empty document":     {input: ""},
		"multi-document":     {input: "---\na: 1\n---\nb: 2"},
		"unclosed flow list": {input: "entries: [a, b", wantErr: true},
		"bad indentation":    {input: "a:\n  b: 1\n c: 2", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := ValidateSyntax(strings.NewReader(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateBytes_LineInfo(t *testing.T) {
	verr := ValidateBytes("bundle.yaml", []byte("a:\n  b: 1\n c: 2"))
	require.NotNil(t, verr)
	assert.Equal(t, "bundle.yaml", verr.File)
	assert.Positive(t, verr.Line)
	assert.Contains(t, verr.Error(), "bundle.yaml:")
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte("entries: []\n"), 0o644))

	assert.Nil(t, ValidateFile(good))

	verr := ValidateFile(filepath.Join(dir, "missing.yaml"))
	require.NotNil(t, verr)
	assert.Contains(t, verr.Message, "failed to open file")
}

func TestMissingKeys(t *testing.T) {
	tests := map[string]struct {
		input string
		keys  []string
		want  []string
	}{
		"all present":   {input: "products: []\nentries: []", keys: []string{"products", "entries"}},
		"one missing":   {input: "products: []", keys: []string{"products", "entries"}, want: []string{"entries"}},
		"scalar doc":    {input: "hello", keys: []string{"entries"}, want: []string{"entries"}},
		"empty doc":     {input: "", keys: []string{"entries"}, want: []string{"entries"}},
		"null value ok": {input: "entries:", keys: []string{"entries"}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := MissingKeys([]byte(tt.input), tt.keys...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	assert.Equal(t, "f.yaml:3:2: bad", (&ValidationError{File: "f.yaml", Line: 3, Column: 2, Message: "bad"}).Error())
	assert.Equal(t, "line 3, column 2: bad", (&ValidationError{Line: 3, Column: 2, Message: "bad"}).Error())
	assert.Equal(t, "f.yaml: bad", (&ValidationError{File: "f.yaml", Message: "bad"}).Error())
}
