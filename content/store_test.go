package content

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pithecene-io/seedbank/types"
)

func readString(t *testing.T, store Store, name string) string {
	t.Helper()
	rc, err := store.Open(context.Background(), name)
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(data)
}

func TestNewFSStore_Validation(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := NewFSStore(filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, types.ErrConfig)
	assert.Contains(t, err.Error(), "does not exist")

	_, err = NewFSStore(file)
	assert.ErrorIs(t, err, types.ErrConfig)
	assert.Contains(t, err.Error(), "not a directory")

	store, err := NewFSStore(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, store.String())
}

func TestFSStore_OpenAndSub(t *testing.T) {
	store := newStore(t, map[string]string{
		"img/kettle.png":           "kettle",
		"reactions/laugh.gif":      "laugh",
		"reactions/sub/smile.webp": "smile",
	})

	assert.Equal(t, "kettle", readString(t, store, "img/kettle.png"))
	assert.Equal(t, "kettle", readString(t, store, "./img//kettle.png"))
	assert.Equal(t, "kettle", readString(t, store, "/img/kettle.png"))

	sub := store.Sub("reactions")
	assert.Equal(t, "laugh", readString(t, sub, "laugh.gif"))
	assert.Equal(t, "smile", readString(t, sub, "sub/smile.webp"))
}

func TestFSStore_OpenMissing(t *testing.T) {
	store := newStore(t, nil)

	_, err := store.Open(context.Background(), "nope.png")
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestFSStore_RejectsEscapes(t *testing.T) {
	store := newStore(t, nil)

	for _, name := range []string{"../secret", "img/../../secret", "", "/"} {
		_, err := store.Open(context.Background(), name)
		assert.ErrorIs(t, err, types.ErrMalformedInput, "name %q", name)
	}
}

func TestParseBackend(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", BackendFS, false},
		{"fs", BackendFS, false},
		{"S3", BackendS3, false},
		{"gcs", "", true},
	}
	for _, tt := range tests {
		got, err := ParseBackend(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, types.ErrConfig, "ParseBackend(%q)", tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseS3Path(t *testing.T) {
	tests := []struct {
		path           string
		bucket, prefix string
	}{
		{"my-bucket", "my-bucket", ""},
		{"my-bucket/content", "my-bucket", "content"},
		{"my-bucket/a/b/", "my-bucket", "a/b"},
		{"s3://my-bucket/bank", "my-bucket", "bank"},
	}
	for _, tt := range tests {
		bucket, prefix := ParseS3Path(tt.path)
		assert.Equal(t, tt.bucket, bucket, tt.path)
		assert.Equal(t, tt.prefix, prefix, tt.path)
	}
}

func TestS3Config_Validate(t *testing.T) {
	cfg := S3Config{}
	assert.ErrorIs(t, cfg.Validate(), types.ErrConfig)

	cfg.Bucket = "bank"
	assert.NoError(t, cfg.Validate())
}

// fakeS3 serves objects from memory keyed by bucket/key.
type fakeS3 struct {
	objects map[string]string
	keys    []string
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	k := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	f.keys = append(f.keys, k)
	body, ok := f.objects[k]
	if !ok {
		return nil, &s3types.NoSuchKey{Message: aws.String("not found")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestS3Store_Open(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{
		"bank/content/activities.json":    `[]`,
		"bank/content/reactions/a.png":    "png",
		"bank/content/img/kettle.png":     "kettle",
		"bank/content/reactions/sub/b.gi": "gif",
	}}
	store := newS3Store(fake, "bank", "/content/")

	assert.Equal(t, "s3://bank/content", store.String())
	assert.Equal(t, "kettle", readString(t, store, "img/kettle.png"))

	sub := store.Sub("reactions")
	assert.Equal(t, "s3://bank/content/reactions", sub.String())
	assert.Equal(t, "png", readString(t, sub, "a.png"))

	assert.Equal(t, []string{"bank/content/img/kettle.png", "bank/content/reactions/a.png"}, fake.keys)
}

func TestS3Store_OpenMissing(t *testing.T) {
	store := newS3Store(&fakeS3{}, "bank", "")

	_, err := store.Open(context.Background(), "missing.json")
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "s3://bank/missing.json")
}

func TestS3Store_OpenOtherError(t *testing.T) {
	boom := errors.New("access denied")
	store := newS3Store(getterFunc(func() error { return boom }), "bank", "")

	_, err := store.Open(context.Background(), "a.json")
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, fs.ErrNotExist)
}

func TestLoadActivities_FromS3(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{
		"bank/activities.json": `[{"id": "a1", "title": "t", "consumption_in_wh": 1, "source": "s", "image_path": "i.png"}]`,
	}}

	got, err := LoadActivities(context.Background(), newS3Store(fake, "bank", ""), "activities.json")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a1", got[0].ID)

	_, err = LoadActivities(context.Background(), newS3Store(fake, "bank", ""), "other.json")
	assert.ErrorIs(t, err, types.ErrConfig)
}

type getterFunc func() error

func (f getterFunc) GetObject(context.Context, *s3.GetObjectInput, ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	return nil, f()
}
