// Package locale holds the closed set of site locales and the
// Accept-Language detector used for bare-root requests.
package locale

import (
	"strings"

	"golang.org/x/text/language"
)

// Code is a supported locale code, always one of the table below.
type Code string

const (
	English Code = "en"
	Swahili Code = "sw"
	French  Code = "fr"
	German  Code = "de"
)

// Default is substituted whenever a request carries no usable locale.
const Default = English

// supported is the locale table, defined once at process start. Order
// matters: the first entry is the matcher's fallback.
var supported = []Code{English, Swahili, French, German}

var matcher language.Matcher

func init() {
	tags := make([]language.Tag, len(supported))
	for i, c := range supported {
		tags[i] = language.MustParse(string(c))
	}
	matcher = language.NewMatcher(tags)
}

// Supported returns the locale table.
func Supported() []Code {
	out := make([]Code, len(supported))
	copy(out, supported)
	return out
}

// IsSupported reports whether s is exactly one of the table's codes.
func IsSupported(s string) bool {
	for _, c := range supported {
		if string(c) == s {
			return true
		}
	}
	return false
}

// Match picks the best supported locale for an Accept-Language header.
// An empty or unparseable header yields Default; so does a header that
// prefers only unsupported languages.
func Match(acceptLanguage string) Code {
	if strings.TrimSpace(acceptLanguage) == "" {
		return Default
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default
	}
	return supported[idx]
}

// SplitPath splits a request path into its first segment and the rest.
// rest always begins with "/" ("/" for a bare "/en"). An empty or root
// path returns ("", "/").
func SplitPath(path string) (seg, rest string) {
	trimmed := strings.TrimPrefix(path, "/")
	if trimmed == "" {
		return "", "/"
	}
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		return trimmed[:i], trimmed[i:]
	}
	return trimmed, "/"
}

// LooksLikeCode reports whether seg is shaped like a locale code
// (two ASCII letters, optionally a dash and a two-letter region). Paths
// whose first segment is locale-shaped but unsupported are corrected to
// Default; anything else is treated as having no locale prefix at all.
func LooksLikeCode(seg string) bool {
	switch len(seg) {
	case 2:
		return isAlpha(seg)
	case 5:
		return seg[2] == '-' && isAlpha(seg[:2]) && isAlpha(seg[3:])
	}
	return false
}

func isAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i] | 0x20
		if c < 'a' || c > 'z' {
			return false
		}
	}
	return true
}

// PathFor builds a locale-prefixed canonical path. rest may be "" or "/"
// for the locale landing page.
func PathFor(code Code, rest string) string {
	if rest == "" || rest == "/" {
		return "/" + string(code)
	}
	if !strings.HasPrefix(rest, "/") {
		rest = "/" + rest
	}
	return "/" + string(code) + rest
}
