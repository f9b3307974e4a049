package plink

import (
	"reflect"
	"testing"
)

// These tests run against the embedded ruleset, the same artifact shipped in
// release binaries.

func TestEmbeddedRulesetScenarios(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	tests := []struct {
		name         string
		in           string
		want         string
		wantRedirect bool
	}{
		{
			name: "global tracking parameters",
			in:   "https://example.com/page?utm_source=newsletter&fbclid=XYZ123",
			want: "https://example.com/page",
		},
		{
			name: "youtube share parameter",
			in:   "https://www.youtube.com/watch?v=dQw4w9WgXcQ&si=abc123",
			want: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		},
		{
			name: "twitter share parameters",
			in:   "https://x.com/someone/status/123456?s=20&t=abcDEF",
			want: "https://x.com/someone/status/123456",
		},
		{
			name: "amazon listing",
			in:   "https://www.amazon.com/dp/B0EXAMPLE/ref=sr_1_1?qid=1716430&sr=8-1&keywords=widget&tag=aff-21",
			want: "https://www.amazon.com/dp/B0EXAMPLE",
		},
		{
			name:         "google result redirect",
			in:           "https://www.google.com/url?sa=t&url=https%3A%2F%2Fexample.com%2Fpage&ved=2ahUKE",
			want:         "https://example.com/page",
			wantRedirect: true,
		},
		{
			name:         "facebook link shim",
			in:           "https://l.facebook.com/l.php?u=https%3A%2F%2Fexample.com%2Fstory%3Ffbclid%3DabcDEF&h=AT0x",
			want:         "https://example.com/story",
			wantRedirect: true,
		},
		{
			name:         "outlook safelinks wrapper",
			in:           "https://eur04.safelinks.protection.outlook.com/?url=https%3A%2F%2Fexample.com%2Fdoc%3Futm_source%3Dmail&data=05xyz",
			want:         "https://example.com/doc",
			wantRedirect: true,
		},
		{
			name: "gmail exception left alone",
			in:   "https://mail.google.com/mail/u/0/?ved=xyz",
			want: "https://mail.google.com/mail/u/0/?ved=xyz",
		},
		{
			name: "scheme-less input normalized then cleaned",
			in:   "example.com/?utm_source=foo&gclid=123",
			want: "https://example.com/",
		},
		{
			name: "clean URL untouched",
			in:   "https://en.wikipedia.org/wiki/URL",
			want: "https://en.wikipedia.org/wiki/URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := e.Clean(tt.in)
			if err != nil {
				t.Fatalf("Clean(%q) error: %v", tt.in, err)
			}
			if res.URL != tt.want {
				t.Errorf("URL = %q, want %q", res.URL, tt.want)
			}
			if res.Redirect != tt.wantRedirect {
				t.Errorf("Redirect = %v, want %v", res.Redirect, tt.wantRedirect)
			}
			if wantChanged := tt.in != tt.want; res.Changed != wantChanged {
				t.Errorf("Changed = %v, want %v", res.Changed, wantChanged)
			}

			again, err := e.Clean(res.URL)
			if err != nil {
				t.Fatalf("Clean(%q) error on second pass: %v", res.URL, err)
			}
			if again.URL != res.URL {
				t.Errorf("not idempotent: %q -> %q", res.URL, again.URL)
			}
		})
	}
}

func TestEmbeddedCompleteProvider(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatal(err)
	}

	res, err := e.Clean("https://ad.doubleclick.net/ddm/trackclk/N12345")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Cancel {
		t.Fatal("doubleclick URL not cancelled")
	}
	if !reflect.DeepEqual(res.AppliedRules, []string{"doubleclick"}) {
		t.Errorf("AppliedRules = %v", res.AppliedRules)
	}
}

func TestEmbeddedWithBlockedParams(t *testing.T) {
	e, err := New(WithReferralMarketing(false), WithBlockedParams("ref", "src"))
	if err != nil {
		t.Fatal(err)
	}

	res, err := e.Clean("https://mysite.com/?src=test&ref=home&utm_campaign=spring")
	if err != nil {
		t.Fatal(err)
	}
	if res.URL != "https://mysite.com/" {
		t.Errorf("URL = %q", res.URL)
	}
	if !res.Changed {
		t.Error("Changed not set")
	}
}

func TestEmbeddedWithBlacklist(t *testing.T) {
	e, err := New(WithBlacklistedDomains("ads.example.com"))
	if err != nil {
		t.Fatal(err)
	}

	res, err := e.Clean("https://ads.example.com/click?id=1")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Cancel {
		t.Error("blacklisted host not cancelled")
	}
}

func TestDefaultEngine(t *testing.T) {
	first, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}
	second, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("Default() constructed a second engine")
	}

	res, err := CleanURL("https://example.com/page?utm_source=x")
	if err != nil {
		t.Fatalf("CleanURL() error: %v", err)
	}
	if res.URL != "https://example.com/page" || !res.Changed {
		t.Errorf("CleanURL() = %+v", res)
	}
}
