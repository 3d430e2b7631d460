package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateMusicBrainz(); err != nil {
		return err
	}
	if err := c.validateCoverArt(); err != nil {
		return err
	}
	if err := c.validateDedup(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateMusicBrainz() error {
	if c.MusicBrainz.BaseURL == "" {
		return errors.New("musicbrainz.base_url must be set")
	}
	if c.MusicBrainz.UserAgent == "" {
		return errors.New("musicbrainz.user_agent must be set (the metadata service rejects anonymous clients)")
	}
	if c.MusicBrainz.RateLimitMS <= 0 {
		return errors.New("musicbrainz.rate_limit_ms must be positive")
	}
	if c.MusicBrainz.TimeoutSeconds <= 0 {
		return errors.New("musicbrainz.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateCoverArt() error {
	if c.CoverArt.BaseURL == "" {
		return errors.New("coverart.base_url must be set")
	}
	if c.CoverArt.MaxInFlight <= 0 {
		return errors.New("coverart.max_in_flight must be positive")
	}
	if c.CoverArt.TimeoutSeconds <= 0 {
		return errors.New("coverart.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateDedup() error {
	if c.Dedup.Threshold < 0 || c.Dedup.Threshold > 1 {
		return fmt.Errorf("dedup.threshold must be between 0 and 1, got %v", c.Dedup.Threshold)
	}
	return nil
}
