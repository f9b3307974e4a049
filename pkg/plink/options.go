// Package plink provides the public API for rule-based URL cleaning: it
// binds the embedded ruleset to an engine instance and exposes the single
// cleaning operation used by the CLI, library callers, and the FFI bindings.
package plink

import "github.com/plinkurl/plink/pkg/ruleset"

// Options is the caller-supplied cleaning policy. It is a value object: the
// engine never mutates it, and per-call overrides do not affect the engine's
// bound defaults. The JSON tags are the wire form used by the FFI surface.
type Options struct {
	// SkipLocalhost bypasses cleaning for loopback, private-network and
	// .local hosts.
	SkipLocalhost bool `json:"skip_localhost" yaml:"skip_localhost"`

	// ApplyReferralMarketing enables the providers' referral/affiliate
	// parameter rules.
	ApplyReferralMarketing bool `json:"apply_referral_marketing" yaml:"apply_referral_marketing"`

	// DomainBlocking enables blacklist enforcement and complete-provider
	// cancellation.
	DomainBlocking bool `json:"domain_blocking" yaml:"domain_blocking"`

	// AdditionalBlockedParams are extra parameter-key patterns stripped from
	// every URL, independent of any provider.
	AdditionalBlockedParams []string `json:"additional_blocked_params" yaml:"additional_blocked_params"`

	// BlacklistedDomains cancel any URL whose host equals or is a subdomain
	// of an entry.
	BlacklistedDomains []string `json:"blacklisted_domains" yaml:"blacklisted_domains"`
}

// DefaultOptions returns the policy defaults: skip local hosts, strip
// referral marketing, enforce domain blocking, no extra lists.
func DefaultOptions() Options {
	return Options{
		SkipLocalhost:          true,
		ApplyReferralMarketing: true,
		DomainBlocking:         true,
	}
}

type config struct {
	opts  Options
	rules *ruleset.Ruleset
}

// Option configures engine construction.
type Option func(*config)

// WithOptions replaces the engine's default cleaning options wholesale.
func WithOptions(o Options) Option {
	return func(c *config) {
		c.opts = o
	}
}

// WithSkipLocalhost toggles the localhost bypass.
func WithSkipLocalhost(enabled bool) Option {
	return func(c *config) {
		c.opts.SkipLocalhost = enabled
	}
}

// WithReferralMarketing toggles referral/affiliate parameter stripping.
func WithReferralMarketing(enabled bool) Option {
	return func(c *config) {
		c.opts.ApplyReferralMarketing = enabled
	}
}

// WithDomainBlocking toggles blacklist enforcement.
func WithDomainBlocking(enabled bool) Option {
	return func(c *config) {
		c.opts.DomainBlocking = enabled
	}
}

// WithBlockedParams adds globally blocked parameter-key patterns.
func WithBlockedParams(params ...string) Option {
	return func(c *config) {
		c.opts.AdditionalBlockedParams = append(c.opts.AdditionalBlockedParams, params...)
	}
}

// WithBlacklistedDomains adds domains whose URLs are cancelled outright.
func WithBlacklistedDomains(domains ...string) Option {
	return func(c *config) {
		c.opts.BlacklistedDomains = append(c.opts.BlacklistedDomains, domains...)
	}
}

// WithRuleset injects a pre-compiled ruleset instead of the embedded one.
// Used by tests and by tools that work from source rule documents.
func WithRuleset(rs *ruleset.Ruleset) Option {
	return func(c *config) {
		c.rules = rs
	}
}
