package upload

import (
	"context"
	"fmt"

	"github.com/pithecene-io/seedbank/log"
	"github.com/pithecene-io/seedbank/metrics"
	"github.com/pithecene-io/seedbank/types"
)

// Config configures activity batching.
type Config struct {
	ChunkSize  int
	WithImages bool
}

// Validate checks that the chunk size is positive.
func (c Config) Validate() error {
	if c.ChunkSize <= 0 {
		return types.ConfigError("chunk size must be positive, got %d", c.ChunkSize)
	}
	return nil
}

// BatchUploader submits activities chunk by chunk.
type BatchUploader struct {
	cfg       Config
	submitter Submitter
	logger    *log.Logger
	metrics   *metrics.Collector
}

// NewBatchUploader creates an uploader. logger and collector may be nil.
func NewBatchUploader(cfg Config, submitter Submitter, logger *log.Logger, collector *metrics.Collector) (*BatchUploader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &BatchUploader{cfg: cfg, submitter: submitter, logger: logger, metrics: collector}, nil
}

// Upload submits dtos in order. It returns at the first network failure or
// non-2xx response; later chunks are never attempted.
func (u *BatchUploader) Upload(ctx context.Context, dtos []types.ActivityDTO) error {
	size := u.cfg.ChunkSize
	for chunk := range Chunks(dtos, size) {
		// The logged range follows the requested size, so the final chunk's
		// upper bound can exceed the number of activities.
		from, to := chunk.Start, chunk.Start+size
		u.logger.Sugar().Debugf("Adding activities %d to %d", from, to)

		result, err := u.submitter.Submit(ctx, chunk)
		if err != nil {
			u.metrics.IncChunkFailed()
			u.logger.Error(fmt.Sprintf("Failed to add activities %d to %d", from, to), map[string]any{
				"chunk": chunk.Index,
				"size":  chunk.Size(),
				"error": err.Error(),
			})
			return err
		}
		if !result.OK() {
			u.metrics.IncChunkFailed()
			u.logger.Error(fmt.Sprintf("Failed to add activities %d to %d", from, to), map[string]any{
				"chunk":       chunk.Index,
				"size":        chunk.Size(),
				"status_code": result.StatusCode,
				"response":    result.BodyText(),
			})
			return types.NewStatusError(types.ErrUpload, chunkOp(chunk), result)
		}

		u.metrics.IncChunkSubmitted(chunk.Size(), u.submitter.Attachments(chunk))
		u.logger.Info(fmt.Sprintf("Added activities %d to %d", from, to), map[string]any{
			"chunk": chunk.Index,
			"size":  chunk.Size(),
		})
	}
	return nil
}

func chunkOp(chunk Chunk) string {
	return fmt.Sprintf("activities %d-%d", chunk.Start, chunk.End)
}
