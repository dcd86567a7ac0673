package ledger

import (
	"context"

	"github.com/justapithecus/lode/lode"
	lodes3 "github.com/justapithecus/lode/lode/s3"

	"github.com/pithecene-io/seedbank/content"
)

// S3Config is the S3 location of the ledger. It is the same shape as the
// content backend's so both are parsed from a bucket/prefix path.
type S3Config = content.S3Config

// NewS3Factory returns a Lode store factory for the bucket.
func NewS3Factory(ctx context.Context, s3cfg S3Config) (lode.StoreFactory, error) {
	client, err := content.NewS3Client(ctx, s3cfg)
	if err != nil {
		return nil, err
	}
	return func() (lode.Store, error) {
		return lodes3.New(client, lodes3.Config{
			Bucket: s3cfg.Bucket,
			Prefix: s3cfg.Prefix,
		})
	}, nil
}

// NewS3 creates a ledger with S3 storage.
func NewS3(ctx context.Context, cfg Config, s3cfg S3Config) (*Ledger, error) {
	factory, err := NewS3Factory(ctx, s3cfg)
	if err != nil {
		return nil, err
	}
	return NewWithFactory(cfg, factory)
}
