package upload

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pithecene-io/seedbank/content"
	"github.com/pithecene-io/seedbank/metrics"
	"github.com/pithecene-io/seedbank/transport"
	"github.com/pithecene-io/seedbank/types"
)

func newTestStore(t *testing.T, files map[string]string) *content.FSStore {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	store, err := content.NewFSStore(dir)
	require.NoError(t, err)
	return store
}

type receivedPart struct {
	field, fileName, contentType, body string
}

type recordedRequest struct {
	path          string
	authorization string
	parts         []receivedPart
}

// recordingServer captures multipart requests and answers with statuses in order.
func recordingServer(t *testing.T, statuses ...int) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var got []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{path: r.URL.Path, authorization: r.Header.Get("Authorization")}
		_, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err == nil {
			mr := multipart.NewReader(r.Body, params["boundary"])
			for {
				p, err := mr.NextPart()
				if err != nil {
					break
				}
				data, _ := io.ReadAll(p)
				// Part.FileName applies filepath.Base, so read the raw parameter.
				_, disp, _ := mime.ParseMediaType(p.Header.Get("Content-Disposition"))
				rec.parts = append(rec.parts, receivedPart{
					field:       p.FormName(),
					fileName:    disp["filename"],
					contentType: p.Header.Get("Content-Type"),
					body:        string(data),
				})
			}
		}
		status := http.StatusCreated
		if len(got) < len(statuses) {
			status = statuses[len(got)]
		}
		got = append(got, rec)
		w.WriteHeader(status)
		_, _ = w.Write([]byte("reaction response"))
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func newSender(t *testing.T, url string) *transport.Client {
	t.Helper()
	client, err := transport.New(transport.Config{BaseURL: url})
	require.NoError(t, err)
	return client
}

func TestReactionUploader_OneRequestPerReaction(t *testing.T) {
	srv, got := recordingServer(t)
	store := newTestStore(t, map[string]string{
		"laugh.gif":   "GIF89a",
		"sub/cry.png": "PNG",
	})
	collector := metrics.NewCollector("reactions", "fs", "run-test")
	u := NewReactionUploader(newSender(t, srv.URL), types.BearerHeaders("tok"), store, nil, collector)

	err := u.Upload(context.Background(), []types.RawReaction{
		{Name: "laugh", Image: "laugh.gif"},
		{Name: "cry", Image: "sub/cry.png"},
	})
	require.NoError(t, err)

	require.Len(t, *got, 2)
	for i, want := range []struct{ name, image, body, contentType string }{
		{"laugh", "laugh.gif", "GIF89a", "image/gif"},
		{"cry", "sub/cry.png", "PNG", "image/png"},
	} {
		req := (*got)[i]
		assert.Equal(t, ReactionPath, req.path)
		assert.Equal(t, "Bearer tok", req.authorization)
		require.Len(t, req.parts, 2)

		meta := req.parts[0]
		assert.Equal(t, transport.FieldReaction, meta.field)
		assert.Equal(t, "blob", meta.fileName)
		assert.Equal(t, "application/json", meta.contentType)
		var dto types.ReactionDTO
		require.NoError(t, json.Unmarshal([]byte(meta.body), &dto))
		assert.Equal(t, want.name, dto.ReactionType)

		img := req.parts[1]
		assert.Equal(t, transport.FieldImage, img.field)
		assert.Equal(t, want.image, img.fileName)
		assert.Equal(t, want.contentType, img.contentType)
		assert.Equal(t, want.body, img.body)
	}
	assert.Equal(t, int64(2), collector.Snapshot().ReactionsUploaded)
}

func TestReactionUploader_StopsAtFirstFailure(t *testing.T) {
	srv, got := recordingServer(t, http.StatusConflict)
	store := newTestStore(t, map[string]string{"a.png": "a", "b.png": "b"})
	collector := metrics.NewCollector("reactions", "fs", "run-test")
	u := NewReactionUploader(newSender(t, srv.URL), nil, store, nil, collector)

	err := u.Upload(context.Background(), []types.RawReaction{
		{Name: "a", Image: "a.png"},
		{Name: "b", Image: "b.png"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrUpload)
	assert.Equal(t, http.StatusConflict, types.StatusOf(err))
	assert.Contains(t, err.Error(), "reaction a")

	assert.Len(t, *got, 1)
	assert.Empty(t, (*got)[0].authorization)
	assert.Equal(t, int64(1), collector.Snapshot().ReactionsFailed)
}

func TestReactionUploader_MissingImageSendsNothing(t *testing.T) {
	srv, got := recordingServer(t)
	store := newTestStore(t, nil)
	u := NewReactionUploader(newSender(t, srv.URL), nil, store, nil, nil)

	err := u.Upload(context.Background(), []types.RawReaction{{Name: "ghost", Image: "ghost.png"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrMalformedInput)
	assert.Empty(t, *got)
}

func TestImageSubmitter_StreamsFilesFromStore(t *testing.T) {
	srv, got := recordingServer(t)
	store := newTestStore(t, map[string]string{"img/0.png": "zero", "img/1.png": "one"})
	submitter, err := NewSubmitter(Config{ChunkSize: 2, WithImages: true}, newSender(t, srv.URL), nil, store)
	require.NoError(t, err)

	var chunk Chunk
	for c := range Chunks(makeDTOs(2), 2) {
		chunk = c
	}
	result, err := submitter.Submit(context.Background(), chunk)
	require.NoError(t, err)
	assert.True(t, result.OK())

	require.Len(t, *got, 1)
	parts := (*got)[0].parts
	require.Len(t, parts, 3)
	assert.Equal(t, BatchImagesPath, (*got)[0].path)

	var activities []types.ActivityDTO
	require.NoError(t, json.Unmarshal([]byte(parts[0].body), &activities))
	assert.Equal(t, chunk.Activities, activities)
	assert.Equal(t, receivedPart{field: "images", fileName: "img/0.png", contentType: "image/png", body: "zero"}, parts[1])
	assert.Equal(t, receivedPart{field: "images", fileName: "img/1.png", contentType: "image/png", body: "one"}, parts[2])
}
