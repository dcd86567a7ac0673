// Package redis implements a Redis pub/sub notifier.
//
// Publishes seed completion events as JSON to a configurable Redis channel
// in a single attempt.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/pithecene-io/seedbank/notify"
)

// DefaultChannel is the default pub/sub channel name.
const DefaultChannel = "seedbank:seed_completed"

// DefaultTimeout is the default publish timeout.
const DefaultTimeout = 5 * time.Second

// Config configures the Redis pub/sub notifier.
type Config struct {
	// URL is the Redis connection URL (required).
	// Format: redis://[:password@]host:port[/db]
	URL string
	// Channel is the pub/sub channel name (default: seedbank:seed_completed).
	Channel string
	// Timeout is the publish timeout (default 5s).
	Timeout time.Duration
}

// Notifier publishes seed completion events via Redis PUBLISH.
type Notifier struct {
	config Config
	client *goredis.Client
}

// New creates a Redis pub/sub notifier from the given config.
// Returns an error if the URL is empty or invalid.
func New(cfg Config) (*Notifier, error) {
	if cfg.URL == "" {
		return nil, errors.New("redis notifier requires a URL")
	}

	opts, err := goredis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("redis notifier: invalid URL: %w", err)
	}
	// One attempt only: the client would otherwise retry failed commands.
	opts.MaxRetries = -1

	if cfg.Channel == "" {
		cfg.Channel = DefaultChannel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Notifier{
		config: cfg,
		client: goredis.NewClient(opts),
	}, nil
}

// Channel returns the channel events are published to.
func (n *Notifier) Channel() string { return n.config.Channel }

// Publish sends the event as a JSON PUBLISH to the configured channel.
func (n *Notifier) Publish(ctx context.Context, event *notify.SeedCompletedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("redis: marshal event: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, n.config.Timeout)
	defer cancel()

	if err := n.client.Publish(publishCtx, n.config.Channel, body).Err(); err != nil {
		return fmt.Errorf("redis: publish to %s: %w", n.config.Channel, err)
	}
	return nil
}

// Close releases notifier resources.
func (n *Notifier) Close() error {
	return n.client.Close()
}

// Verify Notifier implements the notify interface.
var _ notify.Notifier = (*Notifier)(nil)
