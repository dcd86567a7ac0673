package cmd

import (
	"time"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/seedbank/cli/config"
	"github.com/pithecene-io/seedbank/types"
)

// loadConfig loads the --config file when given. A nil config means no file
// was requested.
func loadConfig(c *cli.Context) (*config.Config, error) {
	path := c.String("config")
	if path == "" {
		return nil, nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, types.NewError(types.ErrConfig, "config", err)
	}
	return cfg, nil
}

// configVal reads a field from cfg, returning the zero value when cfg is nil.
func configVal[T any](cfg *config.Config, fn func(*config.Config) T) T {
	var zero T
	if cfg == nil {
		return zero
	}
	return fn(cfg)
}

// resolveString returns the CLI value if explicitly set, then the config
// value if non-empty, then the flag default.
func resolveString(c *cli.Context, name, cfgVal string) string {
	if c.IsSet(name) {
		return c.String(name)
	}
	if cfgVal != "" {
		return cfgVal
	}
	return c.String(name)
}

// resolveInt applies the same precedence with nil as "unset" in config.
// An explicit config 0 is returned as is for the caller to reject.
func resolveInt(c *cli.Context, name string, cfgVal *int) int {
	if c.IsSet(name) {
		return c.Int(name)
	}
	if cfgVal != nil {
		return *cfgVal
	}
	return c.Int(name)
}

// resolveBool lets config turn a flag on; only the CLI can turn it back off.
func resolveBool(c *cli.Context, name string, cfgVal bool) bool {
	if c.IsSet(name) {
		return c.Bool(name)
	}
	if cfgVal {
		return true
	}
	return c.Bool(name)
}

func resolveDuration(c *cli.Context, name string, cfgVal time.Duration) time.Duration {
	if c.IsSet(name) {
		return c.Duration(name)
	}
	if cfgVal != 0 {
		return cfgVal
	}
	return c.Duration(name)
}
