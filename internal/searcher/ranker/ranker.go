// Package ranker orders matches by match class, name length and name, and
// turns each into a render-ready result: a direct link for a single-location
// entry, a disambiguation group otherwise.
package ranker

import (
	"sort"
	"unicode/utf8"

	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/index"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/searcher/matcher"
)

// Result is one render-ready record. Direct results carry URL and Scope;
// grouped results carry every location in index order and leave URL empty.
type Result struct {
	Name      string           `json:"name"`
	URL       string           `json:"url,omitempty"`
	Scope     string           `json:"scope,omitempty"`
	Locations []index.Location `json:"locations,omitempty"`
	Match     string           `json:"match"`

	class matcher.Class
}

// Grouped reports whether r is a disambiguation group.
func (r Result) Grouped() bool {
	return len(r.Locations) > 0
}

// Class returns the match class r was ranked by.
func (r Result) Class() matcher.Class {
	return r.class
}

// Rank orders matches and converts them to results. A positive limit keeps
// only the first limit results; a group always counts as one result.
func Rank(matches []matcher.Match, limit int) []Result {
	if len(matches) == 0 {
		return nil
	}
	var ordered []matcher.Match
	if limit > 0 && limit < len(matches) {
		ordered = topK(matches, limit)
	} else {
		ordered = make([]matcher.Match, len(matches))
		copy(ordered, matches)
		sort.SliceStable(ordered, func(i, j int) bool { return less(ordered[i], ordered[j]) })
	}

	results := make([]Result, 0, len(ordered))
	for _, m := range ordered {
		results = append(results, toResult(m))
	}
	return results
}

func less(a, b matcher.Match) bool {
	if a.Class != b.Class {
		return a.Class < b.Class
	}
	la, lb := utf8.RuneCountInString(a.Entry.Name), utf8.RuneCountInString(b.Entry.Name)
	if la != lb {
		return la < lb
	}
	if a.Entry.Name != b.Entry.Name {
		return a.Entry.Name < b.Entry.Name
	}
	return a.Entry.Locations[0].URL < b.Entry.Locations[0].URL
}

func toResult(m matcher.Match) Result {
	e := m.Entry
	r := Result{Name: e.Name, Match: m.Class.String(), class: m.Class}
	if e.Grouped() {
		r.Locations = make([]index.Location, len(e.Locations))
		copy(r.Locations, e.Locations)
		return r
	}
	r.URL = e.Locations[0].URL
	r.Scope = e.Locations[0].Scope
	return r
}
