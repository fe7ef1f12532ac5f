package index

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// FallbackKey is the shard key for names whose first character is not an
// ASCII letter.
const FallbackKey = "_"

// CategoryAll is the category holding every documented name.
const CategoryAll = "all"

// Categories lists the index categories a documentation build may publish.
var Categories = []string{
	CategoryAll,
	"classes",
	"namespaces",
	"files",
	"functions",
	"variables",
	"typedefs",
	"enums",
	"enumvalues",
	"related",
	"defines",
	"groups",
	"pages",
}

// KeyFor returns the shard key for s: the lowercase first letter when it is
// in a-z, FallbackKey for any other leading character, and "" when s is
// empty after trimming.
func KeyFor(s string) string {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	if s == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(s)
	r = unicode.ToLower(r)
	if r >= 'a' && r <= 'z' {
		return string(r)
	}
	return FallbackKey
}

// ValidKey reports whether key names a shard.
func ValidKey(key string) bool {
	if key == FallbackKey {
		return true
	}
	return len(key) == 1 && key[0] >= 'a' && key[0] <= 'z'
}

// Keys returns every shard key in ascending order, fallback last.
func Keys() []string {
	keys := make([]string, 0, 27)
	for c := 'a'; c <= 'z'; c++ {
		keys = append(keys, string(c))
	}
	return append(keys, FallbackKey)
}

// ValidCategory reports whether c is a known index category.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}
