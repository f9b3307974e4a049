// Package urlutil implements the query-string text processing the cleaning
// engine needs: order-preserving parameter filtering over raw query strings
// and over query strings embedded in URL fragments.
//
// The standard library's url.Values is deliberately not used for rewriting:
// it is an unordered map and re-encodes values, so surviving parameters
// would come back reordered or re-escaped. Matching decisions are made on
// decoded keys while the surviving text is kept byte-for-byte.
package urlutil

import (
	"net/url"
	"strings"
)

// FilterQuery removes every parameter whose decoded key the remove function
// matches. The input is a raw (still encoded) query string without the
// leading "?". Surviving pairs keep their original text and order. The
// second return is the number of parameters removed.
func FilterQuery(rawQuery string, remove func(key string) bool) (string, int) {
	if rawQuery == "" {
		return "", 0
	}

	segments := strings.Split(rawQuery, "&")
	kept := segments[:0:0]
	removed := 0

	for _, seg := range segments {
		if seg == "" {
			continue
		}
		if remove(decodeKey(seg)) {
			removed++
			continue
		}
		kept = append(kept, seg)
	}

	if removed == 0 {
		return rawQuery, 0
	}
	return strings.Join(kept, "&"), removed
}

// FilterFragment removes matching parameters from a query string embedded in
// a URL fragment. Two shapes are recognized: a routing path with a query
// ("/inbox?utm_source=x") and a bare parameter list ("a=1&b=2"). Fragments
// that are neither are returned untouched.
func FilterFragment(fragment string, remove func(key string) bool) (string, int) {
	if fragment == "" {
		return "", 0
	}

	if prefix, query, ok := strings.Cut(fragment, "?"); ok {
		filtered, removed := FilterQuery(query, remove)
		if removed == 0 {
			return fragment, 0
		}
		if filtered == "" {
			return prefix, removed
		}
		return prefix + "?" + filtered, removed
	}

	// A bare fragment is only treated as parameters when it looks like them.
	if !strings.Contains(fragment, "=") {
		return fragment, 0
	}
	return FilterQuery(fragment, remove)
}

// decodeKey extracts and percent-decodes the key of one raw query segment.
// Undecodable keys are matched in their raw form.
func decodeKey(segment string) string {
	key, _, _ := strings.Cut(segment, "=")
	if decoded, err := url.QueryUnescape(key); err == nil {
		return decoded
	}
	return key
}
