package plink

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/plinkurl/plink/internal/logger"
	"github.com/plinkurl/plink/internal/urlutil"
	"github.com/plinkurl/plink/pkg/ruleset"
)

// Engine applies a compiled ruleset to URLs. It is immutable after New and
// safe for concurrent use by any number of callers: cleaning is a pure
// computation with no shared mutable state.
type Engine struct {
	rules         *ruleset.Ruleset
	opts          Options
	blockedParams []*regexp.Regexp
}

// New constructs an engine. Without WithRuleset it loads and compiles the
// embedded ruleset, which is the expensive part of construction; the result
// should be reused across calls, never rebuilt per URL.
func New(opts ...Option) (*Engine, error) {
	cfg := config{opts: DefaultOptions()}
	for _, opt := range opts {
		opt(&cfg)
	}

	rs := cfg.rules
	if rs == nil {
		var err error
		rs, err = loadEmbedded()
		if err != nil {
			return nil, err
		}
	}

	blocked, err := compileBlockedParams(cfg.opts.AdditionalBlockedParams)
	if err != nil {
		return nil, err
	}

	logger.Debug("engine constructed", "providers", rs.Len(), "blocked_params", len(blocked))

	return &Engine{
		rules:         rs,
		opts:          cfg.opts,
		blockedParams: blocked,
	}, nil
}

// Options returns the options the engine was constructed with.
func (e *Engine) Options() Options {
	return e.opts
}

// Clean cleans one URL using the engine's bound options.
func (e *Engine) Clean(rawURL string) (*Result, error) {
	return e.clean(rawURL, e.opts, e.blockedParams)
}

// CleanWithOptions cleans one URL with a per-call policy override. The
// engine's compiled ruleset is shared; only the option-derived matchers are
// built for the call.
func (e *Engine) CleanWithOptions(rawURL string, o Options) (*Result, error) {
	blocked, err := compileBlockedParams(o.AdditionalBlockedParams)
	if err != nil {
		return nil, err
	}
	return e.clean(rawURL, o, blocked)
}

func (e *Engine) clean(rawURL string, o Options, blocked []*regexp.Regexp) (*Result, error) {
	normalized := normalizeScheme(strings.TrimSpace(rawURL))

	res := &Result{URL: normalized, AppliedRules: []string{}}
	working := normalized

	// Each provider may unwrap a redirect at most once per call, so this
	// loop runs at most len(providers)+1 times.
	unwrapped := make(map[string]bool)

	for {
		u, err := parseURL(working)
		if err != nil {
			if working == normalized {
				return nil, err
			}
			// A redirect target is validated before adoption, so this state
			// is unreachable; keep the last good URL rather than failing.
			res.URL = working
			res.Changed = working != normalized
			return res, nil
		}

		host := u.Hostname()
		if o.SkipLocalhost && isLocalHost(host) {
			logger.Debug("skipping local URL", "url", working)
			res.URL = working
			res.Changed = working != normalized
			return res, nil
		}
		if o.DomainBlocking && matchesBlacklist(host, o.BlacklistedDomains) {
			logger.Debug("blocked blacklisted host", "host", host)
			res.URL = working
			res.Cancel = true
			return res, nil
		}

		next, restarted := e.applyProviders(working, o, res, unwrapped)
		working = next
		if res.Cancel {
			res.URL = working
			return res, nil
		}
		if !restarted {
			break
		}
	}

	if len(blocked) > 0 {
		if out, removed := stripParams(working, func(key string) bool {
			return matchesAny(key, blocked)
		}); removed > 0 {
			// Removals from the global option set are not attributed to any
			// provider in AppliedRules.
			working = out
		}
	}

	res.URL = working
	res.Changed = working != normalized
	if res.Changed {
		logger.Debug("URL cleaned", "input", normalized, "output", working)
	}
	return res, nil
}

// applyProviders walks the providers in declaration order against the
// current URL state. It returns the new working URL and whether matching
// must restart from the first provider (after a redirect unwrap). A
// complete-provider hit sets res.Cancel instead.
func (e *Engine) applyProviders(working string, o Options, res *Result, unwrapped map[string]bool) (string, bool) {
	for _, p := range e.rules.Providers() {
		if !p.MatchesURL(working) || p.MatchesException(working) {
			continue
		}

		if p.CompleteProvider && o.DomainBlocking {
			res.Cancel = true
			res.AppliedRules = append(res.AppliedRules, p.Name)
			return working, false
		}

		if !unwrapped[p.Name] {
			if captured, ok := p.Redirect(working); ok {
				if target, ok := decodeRedirectTarget(captured); ok {
					logger.Debug("unwrapped redirect", "provider", p.Name, "target", target)
					unwrapped[p.Name] = true
					res.Redirect = true
					res.AppliedRules = append(res.AppliedRules, p.Name)
					return target, true
				}
			}
		}

		if out, fired := p.ApplyRawRules(working); fired > 0 {
			// A raw rule that breaks the URL is skipped, not propagated.
			if _, err := parseURL(out); err == nil {
				working = out
				res.AppliedRules = append(res.AppliedRules, p.Name)
			}
		}

		if p.HasParamRules(o.ApplyReferralMarketing) {
			if out, removed := stripParams(working, func(key string) bool {
				return p.MatchesParam(key, o.ApplyReferralMarketing)
			}); removed > 0 {
				working = out
				res.AppliedRules = append(res.AppliedRules, p.Name)
			}
		}
	}
	return working, false
}

// stripParams removes matching parameters from the URL's query string and
// from any query string embedded in its fragment. When nothing is removed
// the original string is returned untouched, byte for byte.
func stripParams(working string, remove func(key string) bool) (string, int) {
	u, err := parseURL(working)
	if err != nil {
		return working, 0
	}

	query, removedQ := urlutil.FilterQuery(u.RawQuery, remove)
	fragment, removedF := urlutil.FilterFragment(u.EscapedFragment(), remove)
	removed := removedQ + removedF
	if removed == 0 {
		return working, 0
	}

	return rebuildURL(u, query, fragment), removed
}

// rebuildURL re-serializes a URL from its components with the given raw
// query and fragment. Empty query strings and fragments are omitted
// entirely, never left as a dangling "?" or "#".
func rebuildURL(u *url.URL, rawQuery, rawFragment string) string {
	var b strings.Builder
	b.WriteString(u.Scheme)
	b.WriteString("://")
	if u.User != nil {
		b.WriteString(u.User.String())
		b.WriteByte('@')
	}
	b.WriteString(u.Host)
	b.WriteString(u.EscapedPath())
	if rawQuery != "" {
		b.WriteByte('?')
		b.WriteString(rawQuery)
	}
	if rawFragment != "" {
		b.WriteByte('#')
		b.WriteString(rawFragment)
	}
	return b.String()
}

// normalizeScheme prepends https:// to URLs written without a scheme.
// Already-prefixed http:// and https:// URLs pass through unchanged.
func normalizeScheme(raw string) string {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return "https://" + raw
}

// parseURL parses a normalized URL and rejects anything without an http(s)
// scheme and a host.
func parseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidURL, raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	return u, nil
}

// decodeRedirectTarget percent-decodes a captured redirect target and
// validates it. Decoding is pure percent-decoding; a literal "+" in the
// target is part of the URL, not an encoded space. Targets that do not
// decode to a usable URL are ignored so a malformed wrapper cannot poison
// the working state.
func decodeRedirectTarget(captured string) (string, bool) {
	target := captured
	if decoded, err := url.PathUnescape(captured); err == nil {
		target = decoded
	}
	target = normalizeScheme(target)
	if _, err := parseURL(target); err != nil {
		return "", false
	}
	return target, true
}

func compileBlockedParams(patterns []string) ([]*regexp.Regexp, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, pat := range patterns {
		re, err := ruleset.CompileParamPattern(pat)
		if err != nil {
			return nil, fmt.Errorf("invalid blocked parameter pattern %q: %w", pat, err)
		}
		out = append(out, re)
	}
	return out, nil
}

func matchesAny(key string, matchers []*regexp.Regexp) bool {
	for _, re := range matchers {
		if re.MatchString(key) {
			return true
		}
	}
	return false
}
