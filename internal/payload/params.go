package payload

import (
	"math"
	"sort"

	"github.com/opacedigital/ai-core/pkg/api"
	"github.com/spf13/cast"
)

// Coerce converts value according to the declared parameter type. Numbers
// with a fractional step become float64, other numbers become int. Select
// and string values pass through unchanged.
func Coerce(spec api.ParameterSpec, value any) (any, error) {
	if spec.Type != api.ParamNumber {
		return value, nil
	}

	if spec.Step != nil && *spec.Step < 1 {
		f, err := cast.ToFloat64E(value)
		if err != nil {
			return nil, &api.InvalidParameterError{Name: spec.RequestKey, Value: value, Err: err}
		}
		return f, nil
	}

	// Parse as float first so strings like "12.0" are accepted.
	f, err := cast.ToFloat64E(value)
	if err != nil {
		return nil, &api.InvalidParameterError{Name: spec.RequestKey, Value: value, Err: err}
	}
	return int(math.Trunc(f)), nil
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok && s == "" {
		return true
	}
	return false
}

// Apply maps every schema entry onto body. The caller's value wins over the
// schema default; entries where both are empty are skipped. Keys are
// processed in sorted order so overlapping request keys resolve
// deterministically.
func Apply(body Tree, schema map[string]api.ParameterSpec, values map[string]any) error {
	names := make([]string, 0, len(schema))
	for name := range schema {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		spec := schema[name]
		value, ok := values[name]
		if !ok || isEmpty(value) {
			value = spec.Default
		}
		if isEmpty(value) {
			continue
		}

		coerced, err := Coerce(spec, value)
		if err != nil {
			return err
		}

		key := spec.RequestKey
		if key == "" {
			key = name
		}
		body.Set(key, coerced)
	}
	return nil
}

// Build returns a fresh body holding only the mapped parameters.
func Build(schema map[string]api.ParameterSpec, values map[string]any) (Tree, error) {
	body := Tree{}
	if err := Apply(body, schema, values); err != nil {
		return nil, err
	}
	return body, nil
}
