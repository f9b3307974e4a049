package plink

// Result is the outcome of one cleaning call. The JSON tags are the wire
// form consumed by the FFI bindings and the CLI's structured output.
type Result struct {
	// URL is the final URL after normalization and cleaning. When Cancel is
	// set it holds the URL in the state it had when the blacklist matched.
	URL string `json:"url" yaml:"url"`

	// Changed reports whether URL differs from the normalized input.
	Changed bool `json:"changed" yaml:"changed"`

	// Redirect reports that a redirection rule unwrapped an embedded target.
	Redirect bool `json:"redirect" yaml:"redirect"`

	// Cancel reports that the host matched the domain blacklist or a
	// complete provider; the request should be blocked, not rewritten.
	Cancel bool `json:"cancel" yaml:"cancel"`

	// AppliedRules lists the provider names whose rules fired, in
	// application order. A provider appears once per distinct firing, so
	// duplicates are meaningful.
	AppliedRules []string `json:"applied_rules" yaml:"applied_rules"`
}
