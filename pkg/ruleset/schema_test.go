package ruleset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDocument() *Document {
	return &Document{
		Providers: []Provider{
			{
				Name:       "globalRules",
				URLPattern: "^https?://",
				Rules:      []string{"utm_[a-z_]+", "fbclid"},
			},
			{
				Name:              "shop",
				URLPattern:        `^https?://shop\.example/`,
				RawRules:          []string{`/ref=[^/?#]*`},
				ReferralMarketing: []string{"tag"},
				Redirections:      []string{`[?&]to=([^&]+)`},
				Exceptions:        []string{`^https?://shop\.example/help`},
			},
		},
	}
}

func TestDocumentValidate(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		assert.NoError(t, validDocument().Validate())
	})

	t.Run("empty provider list", func(t *testing.T) {
		d := &Document{}
		assert.Error(t, d.Validate())
	})

	t.Run("missing name", func(t *testing.T) {
		d := validDocument()
		d.Providers[0].Name = ""
		assert.Error(t, d.Validate())
	})

	t.Run("missing urlPattern", func(t *testing.T) {
		d := validDocument()
		d.Providers[1].URLPattern = ""
		assert.Error(t, d.Validate())
	})

	t.Run("duplicate provider names", func(t *testing.T) {
		d := validDocument()
		d.Providers[1].Name = d.Providers[0].Name
		err := d.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate provider name")
	})

	t.Run("invalid urlPattern regex", func(t *testing.T) {
		d := validDocument()
		d.Providers[0].URLPattern = "("
		assert.Error(t, d.Validate())
	})

	t.Run("invalid rule pattern", func(t *testing.T) {
		d := validDocument()
		d.Providers[0].Rules = append(d.Providers[0].Rules, "utm_[")
		assert.Error(t, d.Validate())
	})

	t.Run("invalid rawRule pattern", func(t *testing.T) {
		d := validDocument()
		d.Providers[1].RawRules = []string{"(?P<"}
		assert.Error(t, d.Validate())
	})

	t.Run("redirection without capture group", func(t *testing.T) {
		d := validDocument()
		d.Providers[1].Redirections = []string{`[?&]to=[^&]+`}
		err := d.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no capture group")
	})
}

func TestFromJSON(t *testing.T) {
	data := []byte(`{
		"providers": [
			{"name": "globalRules", "urlPattern": "^https?://", "rules": ["fbclid"]}
		]
	}`)

	d, err := FromJSON(data)
	require.NoError(t, err)
	require.Len(t, d.Providers, 1)
	assert.Equal(t, "globalRules", d.Providers[0].Name)
	assert.Equal(t, []string{"fbclid"}, d.Providers[0].Rules)

	_, err = FromJSON([]byte("{not json"))
	assert.Error(t, err)
}

func TestFromYAML(t *testing.T) {
	data := []byte(`
providers:
  - name: globalRules
    urlPattern: "^https?://"
    rules:
      - fbclid
    completeProvider: false
  - name: ads
    urlPattern: "^https?://ads\\.example/"
    completeProvider: true
`)

	d, err := FromYAML(data)
	require.NoError(t, err)
	require.Len(t, d.Providers, 2)
	assert.False(t, d.Providers[0].CompleteProvider)
	assert.True(t, d.Providers[1].CompleteProvider)

	_, err = FromYAML([]byte("providers: [unterminated"))
	assert.Error(t, err)
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "rules.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"providers":[{"name":"p","urlPattern":"^https?://"}]}`), 0o644))

	d, err := FromFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "p", d.Providers[0].Name)

	yamlPath := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("providers:\n  - name: p\n    urlPattern: \"^https?://\"\n"), 0o644))

	d, err = FromFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "p", d.Providers[0].Name)

	_, err = FromFile(filepath.Join(dir, "rules.toml"))
	assert.Error(t, err)

	_, err = FromFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestCompileParamPattern(t *testing.T) {
	tests := []struct {
		pattern string
		key     string
		want    bool
	}{
		{"utm_source", "utm_source", true},
		{"utm_source", "UTM_Source", true},
		{"utm_source", "utm_source_extra", false},
		{"utm_source", "xutm_source", false},
		{"utm_[a-z]+", "utm_medium", true},
		{"utm_[a-z]+", "utm_", false},
		{"ref|ref_src", "ref_src", true},
		{"ref|ref_src", "ref_src_x", false},
	}

	for _, tt := range tests {
		re, err := CompileParamPattern(tt.pattern)
		require.NoError(t, err)
		assert.Equal(t, tt.want, re.MatchString(tt.key), "pattern %q key %q", tt.pattern, tt.key)
	}
}
