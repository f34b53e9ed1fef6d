package utils

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is a request field that accepts a JSON number or a numeric string ("5", " 1965 ").
// A string that is not numeric decodes as NaN so that field validation reports it.
type Number float64

func NewNumber(v float64) *Number {
	n := Number(v)
	return &n
}

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			*n = Number(math.NaN())
			return nil
		}
		*n = Number(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Number(v)
	return nil
}

// IsWhole reports whether n holds a finite integer value
func (n Number) IsWhole() bool {
	v := float64(n)
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v == math.Trunc(v)
}

// IntPtr returns nil for a nil Number. Call only after IsWhole.
func (n *Number) IntPtr() *int {
	if n == nil {
		return nil
	}
	v := int(*n)
	return &v
}
