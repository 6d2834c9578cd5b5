package payload

import (
	"github.com/matzehuels/plotdown/pkg/errors"
)

// ParseFunction decodes a plot-function payload.
//
// The payload must be a JSON object. "fn" must be a string when present;
// "domain" must be an array of exactly two numbers when present. The error
// is a coded PAYLOAD_DECODE or PAYLOAD_SHAPE error and is meant for the
// diagnostic channel; callers draw nothing when it is non-nil.
func ParseFunction(text string) (FunctionPlot, error) {
	v, err := decodeGeneric(text)
	if err != nil {
		return FunctionPlot{}, err
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return FunctionPlot{}, errors.New(errors.ErrCodePayloadShape, "function payload must be an object, got %s", kindOf(v))
	}

	var spec FunctionPlot
	if spec.Fn, err = optString(obj, "fn"); err != nil {
		return FunctionPlot{}, err
	}

	raw, ok := obj["domain"]
	if !ok || raw == nil {
		return spec, nil
	}
	bounds, ok := raw.([]any)
	if !ok || len(bounds) != 2 {
		return FunctionPlot{}, errors.New(errors.ErrCodePayloadShape, "domain must be an array of two numbers")
	}
	var domain [2]float64
	for i, b := range bounds {
		if domain[i], err = toNumber(b, "domain"); err != nil {
			return FunctionPlot{}, err
		}
	}
	spec.Domain = &domain
	return spec, nil
}
