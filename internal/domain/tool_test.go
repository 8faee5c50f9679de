package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolConfig_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ToolMap
	}{
		{"object", `{"web_search":{"enabled":true,"description":"Search"}}`, ToolMap{"web_search": {Enabled: true, Description: "Search"}}},
		{"bare bool", `{"files":true,"shell":false}`, ToolMap{"files": {Enabled: true}, "shell": {Enabled: false}}},
		{"null", `{"files":null}`, ToolMap{"files": {}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got ToolMap
			require.NoError(t, json.Unmarshal([]byte(tt.in), &got))
			assert.Equal(t, tt.want, got)
		})
	}

	var bad ToolMap
	assert.Error(t, json.Unmarshal([]byte(`{"files":"yes"}`), &bad))
}

func TestToolMap_Equal(t *testing.T) {
	var nilMap ToolMap
	assert.True(t, nilMap.Equal(ToolMap{}))
	assert.True(t, ToolMap{"a": {Enabled: true}}.Equal(ToolMap{"a": {Enabled: true}}))
	assert.False(t, ToolMap{"a": {Enabled: true}}.Equal(ToolMap{"a": {Enabled: false}}))
	assert.False(t, ToolMap{"a": {Enabled: true}}.Equal(ToolMap{"b": {Enabled: true}}))
	assert.False(t, ToolMap{"a": {}}.Equal(ToolMap{}))
}

func TestToolMap_Clone(t *testing.T) {
	var nilMap ToolMap
	assert.Nil(t, nilMap.Clone())

	orig := ToolMap{"a": {Enabled: true}}
	cp := orig.Clone()
	cp["a"] = ToolConfig{}
	assert.True(t, orig.Enabled("a"))
	assert.False(t, orig.Enabled("missing"))
}
