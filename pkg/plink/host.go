package plink

import (
	"net/netip"
	"strings"
)

// isLocalHost reports whether a hostname names the local machine or a
// private network: localhost and *.local names, loopback, RFC1918/ULA
// private ranges, link-local and unspecified addresses.
func isLocalHost(host string) bool {
	host = strings.ToLower(host)
	if host == "localhost" || strings.HasSuffix(host, ".localhost") || strings.HasSuffix(host, ".local") {
		return true
	}
	if addr, err := netip.ParseAddr(host); err == nil {
		return addr.IsLoopback() || addr.IsPrivate() || addr.IsLinkLocalUnicast() || addr.IsUnspecified()
	}
	return false
}

// matchesBlacklist reports whether host equals, or is a subdomain of, any
// blacklisted domain. The suffix check is dot-anchored so "notevil.example"
// does not match a blacklist entry "evil.example".
func matchesBlacklist(host string, domains []string) bool {
	host = strings.ToLower(host)
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == "" {
			continue
		}
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
