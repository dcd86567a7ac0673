package upload

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pithecene-io/seedbank/content"
	"github.com/pithecene-io/seedbank/transport"
	"github.com/pithecene-io/seedbank/types"
)

// Service endpoints.
const (
	BatchPath       = "/api/activity/batch"
	BatchImagesPath = "/api/activity/batch/images"
	ReactionPath    = "/api/reaction"
)

// Submitter sends one chunk.
type Submitter interface {
	Submit(ctx context.Context, chunk Chunk) (*types.UploadResult, error)
	// Attachments reports how many files Submit attaches for chunk.
	Attachments(chunk Chunk) int
}

// NewSubmitter selects the submission variant for cfg.
func NewSubmitter(cfg Config, sender transport.Sender, headers types.AuthHeaders, store content.Store) (Submitter, error) {
	if !cfg.WithImages {
		return &JSONSubmitter{sender: sender, headers: headers.Clone()}, nil
	}
	if store == nil {
		return nil, types.ConfigError("image upload requires a content store")
	}
	return &ImageSubmitter{sender: sender, headers: headers.Clone(), store: store}, nil
}

// JSONSubmitter posts a chunk as a JSON array.
type JSONSubmitter struct {
	sender  transport.Sender
	headers types.AuthHeaders
}

// Submit posts chunk to BatchPath.
func (s *JSONSubmitter) Submit(ctx context.Context, chunk Chunk) (*types.UploadResult, error) {
	data, err := marshalActivities(chunk)
	if err != nil {
		return nil, err
	}
	return s.sender.Send(ctx, transport.Request{
		Method:  http.MethodPost,
		Path:    BatchPath,
		Body:    data,
		Headers: s.headers,
	})
}

// Attachments is always zero.
func (s *JSONSubmitter) Attachments(Chunk) int { return 0 }

// ImageSubmitter posts a chunk as multipart: one "activities" JSON part and
// one "images" part per activity, read from the content store at its icon.
type ImageSubmitter struct {
	sender  transport.Sender
	headers types.AuthHeaders
	store   content.Store
}

// Submit posts chunk to BatchImagesPath.
func (s *ImageSubmitter) Submit(ctx context.Context, chunk Chunk) (*types.UploadResult, error) {
	data, err := marshalActivities(chunk)
	if err != nil {
		return nil, err
	}

	parts := make([]transport.Part, 0, 1+chunk.Size())
	parts = append(parts, transport.JSONPart(transport.FieldActivities, data))
	for _, dto := range chunk.Activities {
		parts = append(parts, transport.FilePart(transport.FieldImages, dto.Icon, s.opener(ctx, dto.Icon)))
	}

	return s.sender.Send(ctx, transport.Request{
		Method:  http.MethodPost,
		Path:    BatchImagesPath,
		Parts:   parts,
		Headers: s.headers,
	})
}

// Attachments is one image per activity.
func (s *ImageSubmitter) Attachments(chunk Chunk) int { return chunk.Size() }

func (s *ImageSubmitter) opener(ctx context.Context, name string) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		return s.store.Open(ctx, name)
	}
}

func marshalActivities(chunk Chunk) ([]byte, error) {
	activities := chunk.Activities
	if activities == nil {
		activities = []types.ActivityDTO{}
	}
	data, err := json.Marshal(activities)
	if err != nil {
		return nil, types.NewError(types.ErrMalformedInput, chunkOp(chunk), err)
	}
	return data, nil
}

var (
	_ Submitter = (*JSONSubmitter)(nil)
	_ Submitter = (*ImageSubmitter)(nil)
)
