package config

const (
	defaultDataDir              = "~/.local/share/crate"
	defaultLogDir               = "~/.local/share/crate/logs"
	defaultMusicBrainzBaseURL   = "https://musicbrainz.org/ws/2"
	defaultMusicBrainzUserAgent = "crate/0.1"
	defaultMusicBrainzRateMS    = 1100
	defaultMusicBrainzTimeout   = 10
	defaultCoverArtBaseURL      = "https://coverartarchive.org"
	defaultCoverArtMaxInFlight  = 3
	defaultCoverArtTimeout      = 20
	defaultDedupThreshold       = 0.4
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		MusicBrainz: MusicBrainz{
			BaseURL:        defaultMusicBrainzBaseURL,
			UserAgent:      defaultMusicBrainzUserAgent,
			RateLimitMS:    defaultMusicBrainzRateMS,
			TimeoutSeconds: defaultMusicBrainzTimeout,
		},
		CoverArt: CoverArt{
			BaseURL:        defaultCoverArtBaseURL,
			MaxInFlight:    defaultCoverArtMaxInFlight,
			TimeoutSeconds: defaultCoverArtTimeout,
		},
		Dedup: Dedup{
			Threshold: defaultDedupThreshold,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
