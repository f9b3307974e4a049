// Package ruleset defines the provider rule data model, the offline compiler
// that turns a rule document into the embedded blob shipped with plink, and
// the runtime loader that turns the blob back into compiled matchers.
package ruleset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Document is a human-authored rule document: an ordered list of providers.
// Declaration order is meaningful; providers are matched in this order and
// rule lists within a provider are applied in this order.
type Document struct {
	Providers []Provider `json:"providers" yaml:"providers" validate:"required,min=1,dive"`
}

// Provider bundles the cleaning rules for one service or URL family.
type Provider struct {
	// Name identifies the provider in CleaningResult.AppliedRules.
	Name string `json:"name" yaml:"name" validate:"required"`

	// URLPattern is a regex over the full URL. A provider is only consulted
	// for URLs this pattern matches.
	URLPattern string `json:"urlPattern" yaml:"urlPattern" validate:"required"`

	// Rules are parameter-key patterns. They are matched against query (and
	// fragment-embedded) parameter keys, anchored and case-insensitively.
	Rules []string `json:"rules,omitempty" yaml:"rules,omitempty"`

	// RawRules are regex substitutions applied to the whole URL string.
	// Every match is replaced with the empty string.
	RawRules []string `json:"rawRules,omitempty" yaml:"rawRules,omitempty"`

	// Exceptions skip the provider entirely when any of them matches the URL.
	Exceptions []string `json:"exceptions,omitempty" yaml:"exceptions,omitempty"`

	// Redirections extract an embedded, possibly percent-encoded target URL.
	// Capture group 1 must hold the target.
	Redirections []string `json:"redirections,omitempty" yaml:"redirections,omitempty"`

	// ReferralMarketing are parameter-key patterns for affiliate/referral
	// tracking. They are only applied when the caller opts in.
	ReferralMarketing []string `json:"referralMarketing,omitempty" yaml:"referralMarketing,omitempty"`

	// CompleteProvider cancels any matching URL outright when the caller has
	// domain blocking enabled.
	CompleteProvider bool `json:"completeProvider,omitempty" yaml:"completeProvider,omitempty"`

	// ForceRedirection marks redirect targets that must be followed by the
	// consumer rather than merely reported.
	ForceRedirection bool `json:"forceRedirection,omitempty" yaml:"forceRedirection,omitempty"`
}

// FromFile loads a rule document from a JSON or YAML file.
func FromFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule document: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return FromJSON(data)
	case ".yaml", ".yml":
		return FromYAML(data)
	default:
		return nil, fmt.Errorf("unsupported rule document format: %s", ext)
	}
}

// FromJSON decodes a rule document from JSON data.
func FromJSON(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse JSON rule document: %w", err)
	}
	return &d, nil
}

// FromYAML decodes a rule document from YAML data.
func FromYAML(data []byte) (*Document, error) {
	var d Document
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse YAML rule document: %w", err)
	}
	return &d, nil
}

// Validate checks the document structurally: required fields, unique provider
// names, compilable regex patterns, and redirections that actually capture a
// target. Compilation of the real matcher objects happens in Load; this only
// proves it cannot fail.
func (d *Document) Validate() error {
	if err := validator.New().Struct(d); err != nil {
		return fmt.Errorf("invalid rule document: %w", err)
	}

	seen := make(map[string]bool, len(d.Providers))
	for _, p := range d.Providers {
		if seen[p.Name] {
			return fmt.Errorf("duplicate provider name %q", p.Name)
		}
		seen[p.Name] = true

		if err := p.validate(); err != nil {
			return fmt.Errorf("provider %q: %w", p.Name, err)
		}
	}
	return nil
}

func (p *Provider) validate() error {
	if _, err := regexp.Compile(p.URLPattern); err != nil {
		return fmt.Errorf("urlPattern: %w", err)
	}
	for _, group := range []struct {
		kind     string
		patterns []string
	}{
		{"exceptions", p.Exceptions},
		{"rawRules", p.RawRules},
	} {
		for i, pat := range group.patterns {
			if _, err := regexp.Compile(pat); err != nil {
				return fmt.Errorf("%s[%d]: %w", group.kind, i, err)
			}
		}
	}
	for i, pat := range p.Redirections {
		re, err := regexp.Compile(pat)
		if err != nil {
			return fmt.Errorf("redirections[%d]: %w", i, err)
		}
		if re.NumSubexp() < 1 {
			return fmt.Errorf("redirections[%d]: pattern has no capture group for the target URL", i)
		}
	}
	for i, pat := range p.Rules {
		if _, err := CompileParamPattern(pat); err != nil {
			return fmt.Errorf("rules[%d]: %w", i, err)
		}
	}
	for i, pat := range p.ReferralMarketing {
		if _, err := CompileParamPattern(pat); err != nil {
			return fmt.Errorf("referralMarketing[%d]: %w", i, err)
		}
	}
	return nil
}

// CompileParamPattern compiles a parameter-key pattern the way the matcher
// applies it: anchored to the whole key and case-insensitive. A verbatim key
// like "fbclid" and a pattern like "utm_[a-z]+" both come out as matchers
// over complete keys.
func CompileParamPattern(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile("(?i)^(?:" + pattern + ")$")
}
