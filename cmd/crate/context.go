package main

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"crate/internal/catalog"
	"crate/internal/config"
	"crate/internal/coverart"
	"crate/internal/fetch"
	"crate/internal/logging"
	"crate/internal/musicbrainz"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
			LogDir: cfg.Paths.LogDir,
		})
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

// withStore opens the catalog for the duration of fn.
func (c *commandContext) withStore(fn func(*catalog.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := catalog.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

// withLockedStore additionally holds the catalog write lock, for commands
// that mutate.
func (c *commandContext) withLockedStore(fn func(*catalog.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	release, err := catalog.AcquireWriteLock(cfg)
	if err != nil {
		return err
	}
	defer release()
	return c.withStore(fn)
}

// newGateway wires the external service clients behind the shared limiter and
// gate.
func (c *commandContext) newGateway() (*fetch.Gateway, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	metadata, err := musicbrainz.New(cfg.MusicBrainz.BaseURL, cfg.MusicBrainz.UserAgent,
		musicbrainz.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.MusicBrainz.TimeoutSeconds) * time.Second}))
	if err != nil {
		return nil, err
	}
	artwork, err := coverart.New(cfg.CoverArt.BaseURL,
		coverart.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.CoverArt.TimeoutSeconds) * time.Second}))
	if err != nil {
		return nil, err
	}
	return fetch.NewGateway(metadata, artwork,
		fetch.WithInterval(time.Duration(cfg.MusicBrainz.RateLimitMS)*time.Millisecond),
		fetch.WithMaxInFlight(cfg.CoverArt.MaxInFlight),
		fetch.WithLogger(c.ensureLogger()),
	), nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
