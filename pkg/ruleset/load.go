package ruleset

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
)

// ErrRulesetCorrupt reports a blob that failed to deserialize or contained a
// pattern that no longer compiles. Since Compile validates every pattern
// before producing a blob, hitting this at run time means the embedded
// artifact is broken and the engine cannot be constructed.
var ErrRulesetCorrupt = errors.New("ruleset corrupt")

// Ruleset is the runtime form of a rule document: every pattern compiled
// exactly once. It is immutable after Load and safe for concurrent use.
type Ruleset struct {
	providers []*CompiledProvider
}

// Providers returns the compiled providers in declaration order.
func (r *Ruleset) Providers() []*CompiledProvider {
	return r.providers
}

// Len returns the number of compiled providers.
func (r *Ruleset) Len() int {
	return len(r.providers)
}

// CompiledProvider is one provider with all of its patterns compiled.
type CompiledProvider struct {
	Name             string
	CompleteProvider bool
	ForceRedirection bool

	urlPattern   *regexp.Regexp
	rules        []*regexp.Regexp
	referral     []*regexp.Regexp
	rawRules     []*regexp.Regexp
	exceptions   []*regexp.Regexp
	redirections []*regexp.Regexp
}

// Load deserializes a compiled blob and instantiates every matcher object.
// This is the expensive step of engine construction and must run once per
// engine instance, never per cleaning call.
func Load(blob []byte) (*Ruleset, error) {
	zr, err := gzip.NewReader(bytes.NewReader(blob))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRulesetCorrupt, err)
	}
	payload, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRulesetCorrupt, err)
	}
	if err := zr.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRulesetCorrupt, err)
	}

	var doc Document
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRulesetCorrupt, err)
	}

	return FromDocument(&doc)
}

// FromDocument compiles a rule document directly, bypassing the blob step.
// Used by tests and by tools that operate on source documents.
func FromDocument(doc *Document) (*Ruleset, error) {
	providers := make([]*CompiledProvider, 0, len(doc.Providers))
	for i := range doc.Providers {
		cp, err := compileProvider(&doc.Providers[i])
		if err != nil {
			return nil, fmt.Errorf("%w: provider %q: %v", ErrRulesetCorrupt, doc.Providers[i].Name, err)
		}
		providers = append(providers, cp)
	}
	return &Ruleset{providers: providers}, nil
}

func compileProvider(p *Provider) (*CompiledProvider, error) {
	urlPattern, err := regexp.Compile(p.URLPattern)
	if err != nil {
		return nil, fmt.Errorf("urlPattern: %w", err)
	}

	rules, err := compileParamPatterns(p.Rules)
	if err != nil {
		return nil, fmt.Errorf("rules: %w", err)
	}
	referral, err := compileParamPatterns(p.ReferralMarketing)
	if err != nil {
		return nil, fmt.Errorf("referralMarketing: %w", err)
	}
	rawRules, err := compilePatterns(p.RawRules)
	if err != nil {
		return nil, fmt.Errorf("rawRules: %w", err)
	}
	exceptions, err := compilePatterns(p.Exceptions)
	if err != nil {
		return nil, fmt.Errorf("exceptions: %w", err)
	}
	redirections, err := compilePatterns(p.Redirections)
	if err != nil {
		return nil, fmt.Errorf("redirections: %w", err)
	}

	return &CompiledProvider{
		Name:             p.Name,
		CompleteProvider: p.CompleteProvider,
		ForceRedirection: p.ForceRedirection,
		urlPattern:       urlPattern,
		rules:            rules,
		referral:         referral,
		rawRules:         rawRules,
		exceptions:       exceptions,
		redirections:     redirections,
	}, nil
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, pat := range patterns {
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, err
		}
		out = append(out, re)
	}
	return out, nil
}

func compileParamPatterns(patterns []string) ([]*regexp.Regexp, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, pat := range patterns {
		re, err := CompileParamPattern(pat)
		if err != nil {
			return nil, err
		}
		out = append(out, re)
	}
	return out, nil
}

// MatchesURL reports whether the provider is a candidate for the URL.
func (p *CompiledProvider) MatchesURL(url string) bool {
	return p.urlPattern.MatchString(url)
}

// MatchesException reports whether any exception pattern matches the URL.
func (p *CompiledProvider) MatchesException(url string) bool {
	for _, re := range p.exceptions {
		if re.MatchString(url) {
			return true
		}
	}
	return false
}

// Redirect returns the embedded target captured by the first matching
// redirection pattern. The target may still be percent-encoded.
func (p *CompiledProvider) Redirect(url string) (string, bool) {
	for _, re := range p.redirections {
		m := re.FindStringSubmatch(url)
		if len(m) > 1 && m[1] != "" {
			return m[1], true
		}
	}
	return "", false
}

// ApplyRawRules runs every raw rule substitution against the URL string in
// declared order and returns the result plus the number of rules that fired.
func (p *CompiledProvider) ApplyRawRules(url string) (string, int) {
	fired := 0
	for _, re := range p.rawRules {
		replaced := re.ReplaceAllString(url, "")
		if replaced != url {
			url = replaced
			fired++
		}
	}
	return url, fired
}

// MatchesParam reports whether a parameter key is removed by this provider.
// Referral-marketing patterns participate only when includeReferral is set.
func (p *CompiledProvider) MatchesParam(key string, includeReferral bool) bool {
	for _, re := range p.rules {
		if re.MatchString(key) {
			return true
		}
	}
	if includeReferral {
		for _, re := range p.referral {
			if re.MatchString(key) {
				return true
			}
		}
	}
	return false
}

// HasParamRules reports whether the provider strips any parameters at all
// under the given referral setting.
func (p *CompiledProvider) HasParamRules(includeReferral bool) bool {
	if len(p.rules) > 0 {
		return true
	}
	return includeReferral && len(p.referral) > 0
}
