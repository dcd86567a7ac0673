package content

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/pithecene-io/seedbank/iox"
	"github.com/pithecene-io/seedbank/types"
)

// DefaultReactionsFile is the reactions metadata file inside a reactions directory.
const DefaultReactionsFile = "reactions.json"

// MaxInputBytes bounds the size of a single metadata file.
const MaxInputBytes = 64 << 20

// LoadActivities parses the activity array stored at name.
func LoadActivities(ctx context.Context, store Store, name string) ([]types.RawActivity, error) {
	data, err := readAll(ctx, store, name)
	if err != nil {
		return nil, err
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, types.NewError(types.ErrMalformedInput, name, fmt.Errorf("expected a JSON array of activities: %w", err))
	}
	if items == nil {
		return nil, types.NewError(types.ErrMalformedInput, name, errors.New("expected a JSON array of activities, got null"))
	}

	out := make([]types.RawActivity, len(items))
	for i, item := range items {
		if err := json.Unmarshal(item, &out[i]); err != nil {
			return nil, types.NewError(types.ErrMalformedInput, fmt.Sprintf("%s[%d]", name, i), err)
		}
	}
	return out, nil
}

// LoadReactions parses the {"reactions": [...]} object stored at name.
func LoadReactions(ctx context.Context, store Store, name string) ([]types.RawReaction, error) {
	data, err := readAll(ctx, store, name)
	if err != nil {
		return nil, err
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil || doc == nil {
		if err == nil {
			err = errors.New("got null")
		}
		return nil, types.NewError(types.ErrMalformedInput, name, fmt.Errorf("expected a JSON object: %w", err))
	}
	list, ok := doc["reactions"]
	if !ok || bytes.Equal(bytes.TrimSpace(list), []byte("null")) {
		return nil, types.NewError(types.ErrMalformedInput, name, errors.New(`missing "reactions" list`))
	}

	var items []json.RawMessage
	if err := json.Unmarshal(list, &items); err != nil {
		return nil, types.NewError(types.ErrMalformedInput, name, fmt.Errorf(`"reactions" must be a list: %w`, err))
	}

	out := make([]types.RawReaction, len(items))
	for i, item := range items {
		if err := json.Unmarshal(item, &out[i]); err != nil {
			return nil, types.NewError(types.ErrMalformedInput, fmt.Sprintf("%s.reactions[%d]", name, i), err)
		}
	}
	return out, nil
}

// readAll reads a metadata file. A missing file is a configuration error
// because it is named on the command line, not by a record.
func readAll(ctx context.Context, store Store, name string) ([]byte, error) {
	rc, err := store.Open(ctx, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, types.NewError(types.ErrConfig, name, fmt.Errorf("not found in %s", store))
		}
		return nil, types.NewError(types.ErrMalformedInput, name, err)
	}
	defer iox.DiscardClose(rc)

	data, err := iox.ReadAllLimit(rc, MaxInputBytes)
	if err != nil {
		return nil, types.NewError(types.ErrMalformedInput, name, err)
	}
	return data, nil
}
