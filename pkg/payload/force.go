package payload

import (
	"encoding/json"

	"github.com/matzehuels/plotdown/pkg/errors"
)

// DecodeForces decodes a plot-force payload.
// The payload must be a JSON array of objects; missing fields take their zero value.
func DecodeForces(text string) ([]ForceVector, error) {
	v, err := decodeGeneric(text)
	if err != nil {
		return nil, err
	}

	items, ok := v.([]any)
	if !ok {
		return nil, errors.New(errors.ErrCodePayloadShape, "force payload must be an array, got %s", kindOf(v))
	}

	forces := make([]ForceVector, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, errors.New(errors.ErrCodePayloadShape, "force %d must be an object, got %s", i, kindOf(item))
		}
		f, err := forceFromObject(obj)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodePayloadShape, err, "force %d", i)
		}
		forces = append(forces, f)
	}
	return forces, nil
}

// ParseForces decodes a plot-force payload and never fails: malformed or
// mis-shaped payloads yield an empty, non-nil slice.
func ParseForces(text string) []ForceVector {
	forces, err := DecodeForces(text)
	if err != nil {
		return []ForceVector{}
	}
	return forces
}

func forceFromObject(obj map[string]any) (ForceVector, error) {
	var f ForceVector
	var err error
	if f.Name, err = optString(obj, "name"); err != nil {
		return f, err
	}
	if f.X, err = optNumber(obj, "x"); err != nil {
		return f, err
	}
	if f.Y, err = optNumber(obj, "y"); err != nil {
		return f, err
	}
	if f.Color, err = optString(obj, "color"); err != nil {
		return f, err
	}
	return f, nil
}

func optString(obj map[string]any, key string) (string, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", errors.New(errors.ErrCodePayloadShape, "field %q must be a string, got %s", key, kindOf(v))
	}
	return s, nil
}

func optNumber(obj map[string]any, key string) (float64, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		return 0, nil
	}
	return toNumber(v, key)
}

func toNumber(v any, field string) (float64, error) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, errors.New(errors.ErrCodePayloadShape, "field %q must be a number, got %s", field, kindOf(v))
	}
	f, err := n.Float64()
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodePayloadShape, err, "field %q is out of range", field)
	}
	return f, nil
}
