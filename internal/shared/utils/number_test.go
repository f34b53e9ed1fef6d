package utils

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"number", `5`, 5},
		{"fraction", `4.5`, 4.5},
		{"numeric string", `"5"`, 5},
		{"padded string", `" 1965 "`, 1965},
		{"negative string", `"-2"`, -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body struct {
				Value *Number `json:"value"`
			}
			require.NoError(t, json.Unmarshal([]byte(`{"value":`+tt.raw+`}`), &body))
			require.NotNil(t, body.Value)
			assert.Equal(t, tt.want, float64(*body.Value))
		})
	}
}

func TestNumber_NonNumeric(t *testing.T) {
	var body struct {
		Value *Number `json:"value"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"value":"five"}`), &body))
	require.NotNil(t, body.Value)
	assert.True(t, math.IsNaN(float64(*body.Value)))
	assert.False(t, body.Value.IsWhole())

	body.Value = nil
	require.NoError(t, json.Unmarshal([]byte(`{"value":null}`), &body))
	assert.Nil(t, body.Value)

	assert.Error(t, json.Unmarshal([]byte(`{"value":true}`), &body))
}

func TestNumber_IsWholeAndIntPtr(t *testing.T) {
	assert.True(t, NewNumber(3).IsWhole())
	assert.False(t, NewNumber(3.5).IsWhole())
	assert.False(t, NewNumber(math.Inf(1)).IsWhole())

	var missing *Number
	assert.Nil(t, missing.IntPtr())
	require.NotNil(t, NewNumber(1965).IntPtr())
	assert.Equal(t, 1965, *NewNumber(1965).IntPtr())
}
