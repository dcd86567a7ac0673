package cmd

import (
	"context"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/seedbank/auth"
	"github.com/pithecene-io/seedbank/cli/config"
	"github.com/pithecene-io/seedbank/cli/render"
	"github.com/pithecene-io/seedbank/content"
	"github.com/pithecene-io/seedbank/ledger"
	"github.com/pithecene-io/seedbank/log"
	"github.com/pithecene-io/seedbank/metrics"
	"github.com/pithecene-io/seedbank/notify"
	redisnotify "github.com/pithecene-io/seedbank/notify/redis"
	"github.com/pithecene-io/seedbank/notify/webhook"
	"github.com/pithecene-io/seedbank/transport"
	"github.com/pithecene-io/seedbank/types"
)

// Exit codes. Every failure kind maps to the same code; the message on
// stderr carries the classification.
const (
	exitSuccess = 0
	exitFailure = 1
)

// Notifier types accepted by --notify-type.
const (
	notifyNone    = "none"
	notifyWebhook = "webhook"
	notifyRedis   = "redis"
)

// authChoice holds the resolved authentication settings.
type authChoice struct {
	enabled bool
	mode    auth.Mode
	creds   auth.Credentials
}

// contentChoice holds the resolved content bank location.
type contentChoice struct {
	backend   string
	path      string
	region    string
	endpoint  string
	pathStyle bool
}

// notifyChoice holds the resolved completion notifier settings.
type notifyChoice struct {
	kind    string
	url     string
	channel string
	headers map[string]string
	timeout time.Duration
}

// runEnv is everything a seeding command needs, built and validated before
// any network call is made.
type runEnv struct {
	meta      types.RunMeta
	cfg       *config.Config
	apiURL    string
	logger    *log.Logger
	collector *metrics.Collector
	client    *transport.Client
	sender    transport.Sender
	auth      authChoice
	content   contentChoice
	notifier  notify.Notifier
	ledger    *ledger.Ledger
	renderer  *render.Renderer
	quiet     bool

	// contentSource is set by the command once its store is open.
	contentSource string
}

func newRunEnv(c *cli.Context, command string) (*runEnv, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	meta := types.NewRunMeta(command)
	if err := meta.Validate(); err != nil {
		return nil, types.NewError(types.ErrConfig, "config", err)
	}

	format, err := log.ParseFormat(resolveString(c, "log-format",
		configVal(cfg, func(c *config.Config) string { return c.LogFormat })))
	if err != nil {
		return nil, types.NewError(types.ErrConfig, "config", err)
	}
	logger := log.NewLogger(meta, log.Options{
		Verbose: resolveBool(c, "verbose", configVal(cfg, func(c *config.Config) bool { return c.Verbose })),
		Format:  format,
	})

	cc, err := resolveContent(c, cfg)
	if err != nil {
		return nil, err
	}

	ac, err := resolveAuth(c, cfg)
	if err != nil {
		return nil, err
	}

	apiURL := resolveString(c, "api-url", configVal(cfg, func(c *config.Config) string { return c.APIURL }))
	client, err := transport.New(transport.Config{
		BaseURL: apiURL,
		Timeout: resolveDuration(c, "timeout", configVal(cfg, func(c *config.Config) time.Duration { return c.Timeout.Duration })),
	})
	if err != nil {
		return nil, err
	}

	lc, err := resolveLedger(c, cfg)
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	notifier, err := buildNotifier(resolveNotify(c, cfg))
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	renderer, err := render.NewRenderer(c)
	if err != nil {
		_ = client.Close()
		return nil, types.NewError(types.ErrConfig, "config", err)
	}

	runLedger, err := lc.open(c.Context, meta, time.Now())
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	collector := metrics.NewCollector(command, cc.backend, meta.RunID)

	return &runEnv{
		meta:      meta,
		cfg:       cfg,
		apiURL:    apiURL,
		logger:    logger,
		collector: collector,
		client:    client,
		sender:    transport.NewInstrumentedSender(client, collector),
		auth:      ac,
		content:   cc,
		notifier:  notifier,
		ledger:    runLedger,
		renderer:  renderer,
		quiet:     c.Bool("quiet"),
	}, nil
}

func (e *runEnv) close() {
	if e.notifier != nil {
		_ = e.notifier.Close()
	}
	if e.ledger != nil {
		_ = e.ledger.Close()
	}
	_ = e.client.Close()
	_ = e.logger.Sync()
}

// authenticate returns the headers for every later request. Disabled auth
// yields nil headers and makes no call.
func (e *runEnv) authenticate(ctx context.Context) (types.AuthHeaders, error) {
	if !e.auth.enabled {
		e.logger.Info("Authentication disabled, sending requests without a token.", nil)
		return nil, nil
	}
	return auth.New(e.sender, e.logger).Authenticate(ctx, e.auth.mode, e.auth.creds)
}

// notify publishes the completion event. Failures are logged and never
// change the run outcome.
func (e *runEnv) notify(ctx context.Context, started, finished time.Time, snap metrics.Snapshot, runErr error) {
	if e.notifier == nil {
		return
	}
	event := notify.NewSeedCompletedEvent(e.meta, e.apiURL, e.contentSource, started, finished, snap, runErr)
	if err := e.notifier.Publish(ctx, event); err != nil {
		e.logger.Warn("Failed to publish completion event", map[string]any{"error": err.Error()})
		return
	}
	e.logger.Debug("Published completion event", map[string]any{"outcome": event.Outcome})
}

func (e *runEnv) printSummary(s Summary) {
	e.renderer.Title("Run Summary")
	if err := e.renderer.Render(s); err != nil {
		e.logger.Warn("Failed to render run summary", map[string]any{"error": err.Error()})
	}
}

// runSeed builds the run environment, runs fn under a signal-cancelled
// context, then records the run, notifies, and prints the summary. Any
// error from fn exits 1.
func runSeed(c *cli.Context, command string, fn func(ctx context.Context, env *runEnv) error) error {
	env, err := newRunEnv(c, command)
	if err != nil {
		return cli.Exit(err.Error(), exitFailure)
	}
	defer env.close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	started := time.Now()
	runErr := fn(ctx, env)
	finished := time.Now()

	snap := env.collector.Snapshot()
	env.recordSummary(context.WithoutCancel(ctx), finished, snap, runErr)
	env.notify(context.WithoutCancel(ctx), started, finished, snap, runErr)

	if !env.quiet {
		env.printSummary(newSummary(env.meta, env.contentSource, finished.Sub(started), snap, runErr))
	}

	if runErr != nil {
		return cli.Exit(runErr.Error(), exitFailure)
	}
	env.logger.Info("Done.", nil)
	return nil
}

func resolveAuth(c *cli.Context, cfg *config.Config) (authChoice, error) {
	enabled := cfg == nil || cfg.Auth.AuthEnabled()
	if c.IsSet("no-auth") {
		enabled = !c.Bool("no-auth")
	}

	mode, err := auth.ParseMode(configVal(cfg, func(c *config.Config) string { return c.Auth.Mode }))
	if err != nil {
		return authChoice{}, err
	}
	if c.IsSet("register") {
		mode = auth.ModeLogin
		if c.Bool("register") {
			mode = auth.ModeRegister
		}
	}

	ac := authChoice{
		enabled: enabled,
		mode:    mode,
		creds: auth.Credentials{
			Email:    resolveString(c, "email", configVal(cfg, func(c *config.Config) string { return c.Auth.Email })),
			Password: resolveString(c, "password", configVal(cfg, func(c *config.Config) string { return c.Auth.Password })),
		},
	}
	if ac.enabled {
		if err := ac.creds.Validate(); err != nil {
			return authChoice{}, err
		}
	}
	return ac, nil
}

func resolveContent(c *cli.Context, cfg *config.Config) (contentChoice, error) {
	backend, err := content.ParseBackend(resolveString(c, "content-backend",
		configVal(cfg, func(c *config.Config) string { return c.Content.Backend })))
	if err != nil {
		return contentChoice{}, err
	}

	cc := contentChoice{
		backend:   backend,
		path:      resolveString(c, "content-path", configVal(cfg, func(c *config.Config) string { return c.Content.Path })),
		region:    resolveString(c, "content-s3-region", configVal(cfg, func(c *config.Config) string { return c.Content.Region })),
		endpoint:  resolveString(c, "content-s3-endpoint", configVal(cfg, func(c *config.Config) string { return c.Content.Endpoint })),
		pathStyle: resolveBool(c, "content-s3-path-style", configVal(cfg, func(c *config.Config) bool { return c.Content.S3PathStyle })),
	}
	if cc.backend == content.BackendS3 && cc.path == "" {
		return contentChoice{}, types.ConfigError("--content-path is required for s3 content (bucket/prefix)")
	}
	return cc, nil
}

// openFile returns the store that holds target and the name of target
// within it. Without a content path the file's own directory is the root.
func (cc contentChoice) openFile(ctx context.Context, target string) (content.Store, string, error) {
	if cc.backend == content.BackendS3 {
		store, err := cc.openS3(ctx)
		if err != nil {
			return nil, "", err
		}
		return store, target, nil
	}

	root, name := cc.path, target
	if root == "" {
		root, name = filepath.Dir(target), filepath.Base(target)
	}
	store, err := content.NewFSStore(root)
	if err != nil {
		return nil, "", err
	}
	return store, name, nil
}

// openDir returns a store rooted at dir. A relative dir is taken inside the
// content path when one is set.
func (cc contentChoice) openDir(ctx context.Context, dir string) (content.Store, error) {
	if cc.backend == content.BackendS3 {
		store, err := cc.openS3(ctx)
		if err != nil {
			return nil, err
		}
		return store.Sub(dir), nil
	}

	if cc.path != "" && !filepath.IsAbs(dir) {
		dir = filepath.Join(cc.path, dir)
	}
	store, err := content.NewFSStore(dir)
	if err != nil {
		return nil, err
	}
	return store, nil
}

func (cc contentChoice) openS3(ctx context.Context) (*content.S3Store, error) {
	bucket, prefix := content.ParseS3Path(cc.path)
	return content.NewS3Store(ctx, content.S3Config{
		Bucket:       bucket,
		Prefix:       prefix,
		Region:       cc.region,
		Endpoint:     cc.endpoint,
		UsePathStyle: cc.pathStyle,
	})
}

func resolveNotify(c *cli.Context, cfg *config.Config) notifyChoice {
	return notifyChoice{
		kind:    resolveString(c, "notify-type", configVal(cfg, func(c *config.Config) string { return c.Notify.Type })),
		url:     resolveString(c, "notify-url", configVal(cfg, func(c *config.Config) string { return c.Notify.URL })),
		channel: resolveString(c, "notify-channel", configVal(cfg, func(c *config.Config) string { return c.Notify.Channel })),
		headers: configVal(cfg, func(c *config.Config) map[string]string { return c.Notify.Headers }),
		timeout: configVal(cfg, func(c *config.Config) time.Duration { return c.Notify.Timeout.Duration }),
	}
}

// buildNotifier returns nil when no notifier is configured.
func buildNotifier(nc notifyChoice) (notify.Notifier, error) {
	switch strings.ToLower(nc.kind) {
	case "", notifyNone:
		return nil, nil
	case notifyWebhook:
		if nc.url == "" {
			return nil, types.ConfigError("--notify-url is required for the webhook notifier")
		}
		n, err := webhook.New(webhook.Config{URL: nc.url, Headers: nc.headers, Timeout: nc.timeout})
		if err != nil {
			return nil, types.NewError(types.ErrConfig, "config", err)
		}
		return n, nil
	case notifyRedis:
		if nc.url == "" {
			return nil, types.ConfigError("--notify-url is required for the redis notifier")
		}
		n, err := redisnotify.New(redisnotify.Config{URL: nc.url, Channel: nc.channel, Timeout: nc.timeout})
		if err != nil {
			return nil, types.NewError(types.ErrConfig, "config", err)
		}
		return n, nil
	default:
		return nil, types.ConfigError("unknown notifier type %q (must be webhook or redis)", nc.kind)
	}
}
