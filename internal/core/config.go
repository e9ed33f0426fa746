package core

import (
	"time"

	"spotifyproxy/internal/i18n"
)

// Default configuration values.
const (
	DefaultServerPort         = 8080
	DefaultServerTimeoutSecs  = 10
	DefaultFloodLimitPerMin   = 120
	DefaultCacheSize          = 1024
	DefaultCacheFalsePositive = 0.01
	DefaultMarket             = "US"

	// AnyOwner scopes a playlist request to the global catalog search.
	AnyOwner = "anyuser"
)

type Config struct {
	Spotify SpotifyConfig
	Server  ServerConfig
	Log     LogConfig
	App     AppConfig
	Limits  LimitsConfig
	Cache   CacheConfig
}

type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	TokenPath    string
	// User is the session's user identity. When empty it is taken from the
	// authenticated user token.
	User string
	// UserAuth enables the interactive authorization code flow needed by the
	// user library intents.
	UserAuth bool
	Market   string
}

type ServerConfig struct {
	Enabled      bool
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type AppConfig struct {
	Language         string
	PlayMode         string
	ExplicitFilter   string
	FloodLimitPerMin int
}

// LimitsConfig holds the page sizes of the catalog calls issued per request.
type LimitsConfig struct {
	SearchTracks         int
	SearchArtists        int
	ArtistFallbackTracks int
	SearchAlbums         int
	SearchPlaylists      int
	Recommendations      int
	ArtistAlbums         int
	AlbumTracks          int
	PlaylistTracks       int
	Listing              int
	UserTracks           int
	UserTopArtists       int
	// MaxPages bounds every paginated walk.
	MaxPages int
}

type CacheConfig struct {
	Size              int
	FalsePositiveRate float64
}

func DefaultConfig() *Config {
	return &Config{
		Spotify: SpotifyConfig{
			RedirectURL: "http://127.0.0.1:8080/callback",
			TokenPath:   "./spotify_token.json",
			Market:      DefaultMarket,
		},
		Server: ServerConfig{
			Enabled:      true,
			Host:         "127.0.0.1",
			Port:         DefaultServerPort,
			ReadTimeout:  DefaultServerTimeoutSecs * time.Second,
			WriteTimeout: DefaultServerTimeoutSecs * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		App: AppConfig{
			Language:         i18n.DefaultLanguage,
			PlayMode:         PlayModeNormal.String(),
			ExplicitFilter:   ExplicitDisallow.String(),
			FloodLimitPerMin: DefaultFloodLimitPerMin,
		},
		Limits: DefaultLimits(),
		Cache: CacheConfig{
			Size:              DefaultCacheSize,
			FalsePositiveRate: DefaultCacheFalsePositive,
		},
	}
}

func DefaultLimits() LimitsConfig {
	return LimitsConfig{
		SearchTracks:         50,
		SearchArtists:        20,
		ArtistFallbackTracks: 20,
		SearchAlbums:         10,
		SearchPlaylists:      20,
		Recommendations:      100,
		ArtistAlbums:         30,
		AlbumTracks:          50,
		PlaylistTracks:       100,
		Listing:              50,
		UserTracks:           50,
		UserTopArtists:       20,
		MaxPages:             50,
	}
}
