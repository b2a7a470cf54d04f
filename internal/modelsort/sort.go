// Package modelsort ranks model identifiers so the newest and most capable
// models come first.
package modelsort

import (
	"regexp"
	"sort"
	"strings"
)

// Sorter ranks ids with a priority table and a deprecated table.
type Sorter struct {
	rules      []Rule
	deprecated []*regexp.Regexp
}

// New builds a sorter over the given tables.
func New(rules []Rule, deprecated []*regexp.Regexp) *Sorter {
	return &Sorter{rules: rules, deprecated: deprecated}
}

// Default returns a sorter over every vendor table.
func Default() *Sorter {
	return New(AllRules(), DeprecatedRules)
}

// Priority returns the rank of a single id.
func (s *Sorter) Priority(id string) int {
	lowered := strings.ToLower(id)
	for _, re := range s.deprecated {
		if re.MatchString(lowered) {
			return DeprecatedPriority
		}
	}
	for _, r := range s.rules {
		if r.Pattern.MatchString(lowered) {
			return r.Priority
		}
	}
	return DefaultPriority
}

// Sort returns a new slice ordered by descending priority, ties broken by
// ascending id. The input is not modified.
func (s *Sorter) Sort(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)

	priorities := make(map[string]int, len(out))
	for _, id := range out {
		if _, ok := priorities[id]; !ok {
			priorities[id] = s.Priority(id)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := priorities[out[i]], priorities[out[j]]
		if pi != pj {
			return pi > pj
		}
		return out[i] < out[j]
	})
	return out
}

var defaultSorter = Default()

// Sort ranks ids with the default tables.
func Sort(ids []string) []string {
	return defaultSorter.Sort(ids)
}
