package normalize

import (
	"sort"

	"github.com/spf13/cast"
)

// Accessors over decoded JSON. Missing or mistyped values read as zero.

func object(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func array(v any) []any {
	a, _ := v.([]any)
	return a
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func integer(v any) int {
	return cast.ToInt(v)
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func firstObject(list []any) map[string]any {
	if len(list) == 0 {
		return nil
	}
	return object(list[0])
}
