package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pithecene-io/seedbank/content"
	"github.com/pithecene-io/seedbank/log"
	"github.com/pithecene-io/seedbank/metrics"
	"github.com/pithecene-io/seedbank/transport"
	"github.com/pithecene-io/seedbank/types"
)

// ReactionUploader posts reactions one at a time, each with its image.
type ReactionUploader struct {
	sender  transport.Sender
	headers types.AuthHeaders
	store   content.Store
	logger  *log.Logger
	metrics *metrics.Collector
}

// NewReactionUploader creates an uploader reading images from store, which
// is rooted at the reactions directory.
func NewReactionUploader(sender transport.Sender, headers types.AuthHeaders, store content.Store, logger *log.Logger, collector *metrics.Collector) *ReactionUploader {
	if logger == nil {
		logger = log.Nop()
	}
	return &ReactionUploader{sender: sender, headers: headers.Clone(), store: store, logger: logger, metrics: collector}
}

// Upload posts each reaction in order and stops at the first failure.
func (u *ReactionUploader) Upload(ctx context.Context, reactions []types.RawReaction) error {
	for _, reaction := range reactions {
		u.logger.Debug("Uploading reaction: "+reaction.Name, map[string]any{"image": reaction.Image})

		data, err := json.Marshal(types.ReactionDTO{ReactionType: reaction.Name})
		if err != nil {
			return types.NewError(types.ErrMalformedInput, "reaction "+reaction.Name, err)
		}

		image := reaction.Image
		result, err := u.sender.Send(ctx, transport.Request{
			Method: http.MethodPost,
			Path:   ReactionPath,
			Parts: []transport.Part{
				transport.JSONPart(transport.FieldReaction, data),
				transport.FilePart(transport.FieldImage, image, func() (io.ReadCloser, error) {
					return u.store.Open(ctx, image)
				}),
			},
			Headers: u.headers,
		})
		if err != nil {
			u.metrics.IncReactionFailed()
			u.logger.Error(fmt.Sprintf("Failed to add reaction %s", reaction.Name), map[string]any{
				"error": err.Error(),
			})
			return err
		}
		if !result.OK() {
			u.metrics.IncReactionFailed()
			u.logger.Error(fmt.Sprintf("Failed to add reaction %s", reaction.Name), map[string]any{
				"status_code": result.StatusCode,
				"response":    result.BodyText(),
			})
			return types.NewStatusError(types.ErrUpload, "reaction "+reaction.Name, result)
		}

		u.metrics.IncReactionUploaded()
		u.logger.Info(fmt.Sprintf("Successfully added reaction %s.", reaction.Name), nil)
	}
	return nil
}
