package locale_test

import (
	"testing"

	"github.com/asilitravel/safarihub/internal/app/system/locale"
)

func TestMatch_EachSupportedLocale(t *testing.T) {
	for _, c := range locale.Supported() {
		got := locale.Match(string(c))
		if got != c {
			t.Errorf("Match(%q): got %q, want %q", c, got, c)
		}
	}
}

func TestMatch_QualityOrdering(t *testing.T) {
	got := locale.Match("sw;q=0.9, en;q=0.4")
	if got != locale.Swahili {
		t.Errorf("Match: got %q, want sw", got)
	}
}

func TestMatch_RegionalVariant(t *testing.T) {
	// sw-TZ should resolve to the base sw entry.
	got := locale.Match("sw-TZ")
	if got != locale.Swahili {
		t.Errorf("Match(sw-TZ): got %q, want sw", got)
	}
}

func TestMatch_UnsupportedFallsBackToDefault(t *testing.T) {
	for _, header := range []string{"zh-CN", "ja, ko;q=0.8", "", "garbage;;;"} {
		got := locale.Match(header)
		if got != locale.Default {
			t.Errorf("Match(%q): got %q, want default %q", header, got, locale.Default)
		}
	}
}

func TestIsSupported(t *testing.T) {
	if !locale.IsSupported("en") || !locale.IsSupported("sw") {
		t.Error("expected en and sw to be supported")
	}
	if locale.IsSupported("EN") {
		t.Error("codes are case-sensitive; EN must not be supported")
	}
	if locale.IsSupported("xx") {
		t.Error("xx must not be supported")
	}
}

func TestSplitPath(t *testing.T) {
	cases := []struct {
		path, seg, rest string
	}{
		{"/", "", "/"},
		{"/en", "en", "/"},
		{"/en/tours", "en", "/tours"},
		{"/en/tours/serengeti", "en", "/tours/serengeti"},
		{"/tours", "tours", "/"},
	}
	for _, c := range cases {
		seg, rest := locale.SplitPath(c.path)
		if seg != c.seg || rest != c.rest {
			t.Errorf("SplitPath(%q): got (%q, %q), want (%q, %q)", c.path, seg, rest, c.seg, c.rest)
		}
	}
}

func TestLooksLikeCode(t *testing.T) {
	for _, s := range []string{"en", "xx", "pt-BR"} {
		if !locale.LooksLikeCode(s) {
			t.Errorf("LooksLikeCode(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"tours", "e", "eng", "12", "en/"} {
		if locale.LooksLikeCode(s) {
			t.Errorf("LooksLikeCode(%q) = true, want false", s)
		}
	}
}

func TestPathFor(t *testing.T) {
	if got := locale.PathFor(locale.Swahili, "/tours"); got != "/sw/tours" {
		t.Errorf("PathFor: got %q", got)
	}
	if got := locale.PathFor(locale.English, "/"); got != "/en" {
		t.Errorf("PathFor root: got %q", got)
	}
	if got := locale.PathFor(locale.English, ""); got != "/en" {
		t.Errorf("PathFor empty: got %q", got)
	}
}
