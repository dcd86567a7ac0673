package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RawActivity is one entry of the activity bank JSON array.
// Immutable once loaded; consumed only by the activity mapper.
type RawActivity struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	ConsumptionInWh json.Number `json:"consumption_in_wh"`
	Source          string      `json:"source"`
	ImagePath       string      `json:"image_path"`
}

// UnmarshalJSON decodes a raw activity, failing with ErrMalformedInput when
// a field is missing or has the wrong JSON type. The id may be a string or
// a number; numeric ids keep their literal text.
func (a *RawActivity) UnmarshalJSON(data []byte) error {
	fields, err := objectFields(data)
	if err != nil {
		return err
	}

	var out RawActivity
	if out.ID, err = requireID(fields, "id"); err != nil {
		return err
	}
	if out.Title, err = requireString(fields, "title"); err != nil {
		return err
	}
	if out.ConsumptionInWh, err = requireNumber(fields, "consumption_in_wh"); err != nil {
		return err
	}
	if out.Source, err = requireString(fields, "source"); err != nil {
		return err
	}
	if out.ImagePath, err = requireString(fields, "image_path"); err != nil {
		return err
	}

	*a = out
	return nil
}

// ActivityDTO is the validated, length-bounded activity accepted by the
// service's batch endpoints. Never mutated after creation.
type ActivityDTO struct {
	Description string      `json:"description"`
	Cost        json.Number `json:"cost"`
	Source      string      `json:"source"`
	Icon        string      `json:"icon"`
}

// RawReaction is one entry of the reactions file's "reactions" list.
type RawReaction struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// UnmarshalJSON decodes a raw reaction, failing with ErrMalformedInput when
// name or image is missing or not a string.
func (r *RawReaction) UnmarshalJSON(data []byte) error {
	fields, err := objectFields(data)
	if err != nil {
		return err
	}

	var out RawReaction
	if out.Name, err = requireString(fields, "name"); err != nil {
		return err
	}
	if out.Image, err = requireString(fields, "image"); err != nil {
		return err
	}

	*r = out
	return nil
}

// ReactionDTO is the JSON metadata part of a reaction upload.
// Paired with the raw reaction's image file at upload time.
type ReactionDTO struct {
	ReactionType string `json:"reactionType"`
}

func objectFields(data []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: expected an object: %v", ErrMalformedInput, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: expected an object, got null", ErrMalformedInput)
	}
	return fields, nil
}

func lookup(fields map[string]json.RawMessage, key string) (json.RawMessage, error) {
	raw, ok := fields[key]
	if !ok {
		return nil, fmt.Errorf("%w: missing field %q", ErrMalformedInput, key)
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, fmt.Errorf("%w: field %q is null", ErrMalformedInput, key)
	}
	return raw, nil
}

func requireString(fields map[string]json.RawMessage, key string) (string, error) {
	raw, err := lookup(fields, key)
	if err != nil {
		return "", err
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("%w: field %q must be a string", ErrMalformedInput, key)
	}
	return s, nil
}

func requireNumber(fields map[string]json.RawMessage, key string) (json.Number, error) {
	raw, err := lookup(fields, key)
	if err != nil {
		return "", err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return "", fmt.Errorf("%w: field %q: %v", ErrMalformedInput, key, err)
	}
	n, ok := v.(json.Number)
	if !ok {
		return "", fmt.Errorf("%w: field %q must be a number", ErrMalformedInput, key)
	}
	return n, nil
}

func requireID(fields map[string]json.RawMessage, key string) (string, error) {
	raw, err := lookup(fields, key)
	if err != nil {
		return "", err
	}
	if s, err := requireString(fields, key); err == nil {
		return s, nil
	}
	n, err := requireNumber(fields, key)
	if err != nil {
		return "", fmt.Errorf("%w: field %q must be a string or number, got %s", ErrMalformedInput, key, raw)
	}
	return n.String(), nil
}
