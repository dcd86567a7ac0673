package content

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pithecene-io/seedbank/types"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
}

func newStore(t *testing.T, files map[string]string) *FSStore {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		writeFile(t, dir, name, body)
	}
	store, err := NewFSStore(dir)
	require.NoError(t, err)
	return store
}

func TestLoadActivities(t *testing.T) {
	store := newStore(t, map[string]string{
		"activities.json": `[
			{"id": "a1", "title": "Boil a kettle", "consumption_in_wh": 100, "source": "https://x.test/k#s", "image_path": "img/kettle.png"},
			{"id": 7, "title": "Phone charge", "consumption_in_wh": -2.5, "source": "https://x.test/p", "image_path": "img/phone.png"}
		]`,
	})

	got, err := LoadActivities(context.Background(), store, "activities.json")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, types.RawActivity{
		ID:              "a1",
		Title:           "Boil a kettle",
		ConsumptionInWh: "100",
		Source:          "https://x.test/k#s",
		ImagePath:       "img/kettle.png",
	}, got[0])
	assert.Equal(t, "7", got[1].ID)
	assert.Equal(t, "-2.5", got[1].ConsumptionInWh.String())
}

func TestLoadActivities_Empty(t *testing.T) {
	store := newStore(t, map[string]string{"activities.json": `[]`})

	got, err := LoadActivities(context.Background(), store, "activities.json")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadActivities_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		errMsg string
	}{
		{"not an array", `{"id": "a1"}`, "expected a JSON array"},
		{"null document", `null`, "got null"},
		{"invalid json", `[{"id":`, "expected a JSON array"},
		{"missing field", `[{"id": "a1", "title": "t", "consumption_in_wh": 1, "source": "s"}]`, `activities.json[0]`},
		{"cost as string", `[{"id": "a1", "title": "t", "consumption_in_wh": "1", "source": "s", "image_path": "i"}]`, `"consumption_in_wh" must be a number`},
		{"second record bad", `[
			{"id": "a1", "title": "t", "consumption_in_wh": 1, "source": "s", "image_path": "i"},
			{"id": "a2", "title": 3, "consumption_in_wh": 1, "source": "s", "image_path": "i"}
		]`, `activities.json[1]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore(t, map[string]string{"activities.json": tt.body})

			_, err := LoadActivities(context.Background(), store, "activities.json")
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrMalformedInput)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadActivities_MissingFileIsConfigError(t *testing.T) {
	store := newStore(t, nil)

	_, err := LoadActivities(context.Background(), store, "activities.json")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrConfig)
}

func TestLoadReactions(t *testing.T) {
	store := newStore(t, map[string]string{
		"reactions.json": `{"reactions": [
			{"name": "laugh", "image": "laugh.gif"},
			{"name": "cry", "image": "sub/cry.png"}
		]}`,
	})

	got, err := LoadReactions(context.Background(), store, DefaultReactionsFile)
	require.NoError(t, err)
	assert.Equal(t, []types.RawReaction{
		{Name: "laugh", Image: "laugh.gif"},
		{Name: "cry", Image: "sub/cry.png"},
	}, got)
}

func TestLoadReactions_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		errMsg string
	}{
		{"array document", `[]`, "expected a JSON object"},
		{"null document", `null`, "expected a JSON object"},
		{"missing key", `{"reaction": []}`, `missing "reactions" list`},
		{"null list", `{"reactions": null}`, `missing "reactions" list`},
		{"list is object", `{"reactions": {}}`, `"reactions" must be a list`},
		{"missing image", `{"reactions": [{"name": "laugh"}]}`, `reactions.json.reactions[0]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore(t, map[string]string{"reactions.json": tt.body})

			_, err := LoadReactions(context.Background(), store, "reactions.json")
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrMalformedInput)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
