// Package payload decodes the JSON payloads carried by diagram fenced blocks.
//
// Two payload kinds exist:
//
//	plot-function:  { "fn": "x^2", "domain": [-5, 5] }
//	plot-force:     [ { "name": "Gravity", "x": 0, "y": -10, "color": "blue" } ]
//
// Decoding happens in two phases. The text is first decoded into a generic
// value with no schema; a syntax error there is a PAYLOAD_DECODE error. The
// generic value is then checked against the expected shape and converted;
// a mismatch is a PAYLOAD_SHAPE error. Nothing beyond shape is validated, so
// {"fn": ""} is a valid function payload.
//
// None of the functions in this package panic on any input.
package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/plotdown/pkg/errors"
)

// DefaultForceColor is the arrow color used when a force carries no color.
const DefaultForceColor = "#e53935"

// DefaultDomain is the horizontal plot range used when a function payload
// has no domain.
var DefaultDomain = [2]float64{-10, 10}

// FunctionPlot is a decoded plot-function payload.
type FunctionPlot struct {
	Fn     string      `json:"fn"`
	Domain *[2]float64 `json:"domain,omitempty"`
}

// XDomain returns the horizontal plot range, defaulting to [DefaultDomain].
// Inverted or empty ranges are returned unchanged.
func (f FunctionPlot) XDomain() [2]float64 {
	if f.Domain == nil {
		return DefaultDomain
	}
	return *f.Domain
}

// ForceVector is one force of a plot-force payload, in model units.
type ForceVector struct {
	Name  string  `json:"name"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Color string  `json:"color,omitempty"`
}

// StrokeColor returns the vector's color or [DefaultForceColor].
func (v ForceVector) StrokeColor() string {
	if v.Color == "" {
		return DefaultForceColor
	}
	return v.Color
}

// decodeGeneric is the schema-free first phase.
func decodeGeneric(text string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, errors.Wrap(errors.ErrCodePayloadDecode, err, "payload is not valid JSON")
	}
	// Only whitespace may follow the value.
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New(errors.ErrCodePayloadDecode, "payload has trailing data after the JSON value")
	}
	return v, nil
}

// kindOf names a generic JSON value for shape error messages.
func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
