package payload

import (
	"testing"

	"github.com/opacedigital/ai-core/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestTreeSet_NestedPath(t *testing.T) {
	body := Tree{}
	body.Set("text.format.temp", 0.5)

	assert.Equal(t, Tree{"text": map[string]any{"format": map[string]any{"temp": 0.5}}}, body)
}

func TestTreeSet_OverwritesScalarOnPath(t *testing.T) {
	body := Tree{"reasoning": "high"}
	body.Set("reasoning.effort", "low")

	got, ok := body.Get("reasoning.effort")
	require.True(t, ok)
	assert.Equal(t, "low", got)
}

func TestTreeSet_KeepsSiblings(t *testing.T) {
	body := Tree{"text": map[string]any{"format": map[string]any{"type": "text"}}}
	body.Set("text.verbosity", "low")

	assert.True(t, body.Has("text.format.type"))
	assert.True(t, body.Has("text.verbosity"))
}

func TestSetDefault(t *testing.T) {
	body := Tree{}
	body.Set("text.format", map[string]any{"type": "json_object"})
	body.SetDefault("text.format", map[string]any{"type": "text"})

	got, _ := body.Get("text.format.type")
	assert.Equal(t, "json_object", got)
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		name  string
		spec  api.ParameterSpec
		value any
		want  any
	}{
		{"fractional step keeps float", api.ParameterSpec{Type: api.ParamNumber, Step: f(0.1)}, 0.7, 0.7},
		{"fractional step parses string", api.ParameterSpec{Type: api.ParamNumber, Step: f(0.01)}, "0.25", 0.25},
		{"integer step truncates", api.ParameterSpec{Type: api.ParamNumber, Step: f(1)}, 1024.9, 1024},
		{"no step means integer", api.ParameterSpec{Type: api.ParamNumber}, "2048", 2048},
		{"select passes through", api.ParameterSpec{Type: api.ParamSelect}, "high", "high"},
		{"string passes through", api.ParameterSpec{Type: api.ParamString}, "x", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Coerce(tt.spec, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoerce_RejectsGarbage(t *testing.T) {
	_, err := Coerce(api.ParameterSpec{Type: api.ParamNumber, RequestKey: "max_tokens"}, "lots")
	assert.ErrorContains(t, err, "max_tokens")
}

func TestBuild(t *testing.T) {
	schema := map[string]api.ParameterSpec{
		"temperature":      {Type: api.ParamNumber, Default: 1.0, Step: f(0.1), RequestKey: "temperature"},
		"max_tokens":       {Type: api.ParamNumber, Default: 4096, Step: f(1), RequestKey: "max_output_tokens"},
		"reasoning_effort": {Type: api.ParamSelect, Default: "medium", RequestKey: "reasoning.effort"},
		"top_k":            {Type: api.ParamNumber, Step: f(1), RequestKey: "top_k"},
		"text_temp":        {Type: api.ParamNumber, Default: 0.5, Step: f(0.1), RequestKey: "text.format.temp"},
	}

	body, err := Build(schema, map[string]any{
		"temperature":      0.2,
		"reasoning_effort": "",
		"unknown":          true,
	})
	require.NoError(t, err)

	assert.Equal(t, 0.2, body["temperature"])
	assert.Equal(t, 4096, body["max_output_tokens"])
	assert.Equal(t, map[string]any{"effort": "medium"}, body["reasoning"])
	assert.Equal(t, map[string]any{"format": map[string]any{"temp": 0.5}}, body["text"])
	assert.NotContains(t, body, "top_k")
	assert.NotContains(t, body, "unknown")
}

func TestBuild_EmptySchema(t *testing.T) {
	body, err := Build(map[string]api.ParameterSpec{}, map[string]any{"temperature": 1})
	require.NoError(t, err)
	assert.Empty(t, body)
}
