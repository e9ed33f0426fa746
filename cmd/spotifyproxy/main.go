// Package main provides the spotifyproxy CLI application entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"spotifyproxy/internal/core"
	"spotifyproxy/internal/flood"
	httpserver "spotifyproxy/internal/http"
	"spotifyproxy/internal/i18n"
	"spotifyproxy/internal/spotify"
)

const (
	defaultServerHost = "127.0.0.1"
	envPrefix         = "SPOTIFYPROXY"
)

var (
	cfgFile string
	config  *core.Config
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "spotifyproxy",
	Short: "spotifyproxy - Spotify catalog playback queue",
	Long: `spotifyproxy resolves free-text requests against the Spotify catalog, expands
the matching artist, album, playlist or recommendation into tracks and serves the
resulting playback queue to a media player over a small JSON API.`,
	RunE: runServe,
}

var playCmd = &cobra.Command{
	Use:   "play <intent> [query...]",
	Short: "Resolve one request, print the queue and exit",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPlay,
}

var intentsCmd = &cobra.Command{
	Use:   "intents",
	Short: "List the supported enqueue intents",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		for _, intent := range core.Intents() {
			fmt.Fprintln(cmd.OutOrStdout(), intent)
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is .env)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "json", "log format (json, text)")
	flags.String("spotify-client-id", "", "Spotify client ID")
	flags.String("spotify-client-secret", "", "Spotify client secret")
	flags.String("spotify-redirect-url", "", "Spotify OAuth redirect URL")
	flags.String("spotify-token-path", "./spotify_token.json", "Spotify user token path")
	flags.String("spotify-user", "", "Session user ID (default: the authorized user)")
	flags.Bool("spotify-user-auth", false, "Authorize a Spotify user for library requests")
	flags.String("market", core.DefaultMarket, "Market used for catalog lookups and top tracks")
	flags.Bool("server-enabled", true, "Serve the HTTP control API")
	flags.String("server-host", defaultServerHost, "HTTP server host")
	flags.Int("server-port", core.DefaultServerPort, "HTTP server port")
	supportedLangs := strings.Join(i18n.GetSupportedLanguages(), ", ")
	flags.String("language", i18n.DefaultLanguage, fmt.Sprintf("Message language (%s)", supportedLangs))
	flags.String("play-mode", "normal", "Play mode (normal, shuffle)")
	flags.String("explicit-filter", "disallow", "Explicit track filter (allow, disallow)")
	flags.Int("flood-limit-per-minute", core.DefaultFloodLimitPerMin, "Maximum API requests per client per minute (0 disables)")
	flags.Int("cache-size", core.DefaultCacheSize, "Entries kept per catalog lookup cache")
	flags.Int("max-pages", core.DefaultLimits().MaxPages, "Maximum pages read per paginated catalog listing")
	rootCmd.Flags().Bool("generate-env-example", false, "Generate .env.example file from current configuration and exit")

	playCmd.Flags().String("owner", "", "Playlist owner for the playlist intent (anyuser searches all playlists)")

	rootCmd.AddCommand(playCmd, intentsCmd)

	if err := viper.BindPFlags(flags); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind flags: %v\n", err)
		os.Exit(1)
	}
	if err := viper.BindPFlags(rootCmd.Flags()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind flags: %v\n", err)
		os.Exit(1)
	}
}

func initConfig() {
	envFile := ".env"
	if cfgFile != "" {
		envFile = cfgFile
	}

	if err := gotenv.Load(envFile); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		}
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	config = buildConfig()
	logger = buildLogger(config.Log.Level, config.Log.Format)
}

func buildConfig() *core.Config {
	cfg := core.DefaultConfig()

	configureSpotify(cfg)
	configureServer(cfg)
	configureApp(cfg)

	return cfg
}

func configureSpotify(cfg *core.Config) {
	cfg.Spotify.ClientID = viper.GetString("spotify-client-id")
	cfg.Spotify.ClientSecret = viper.GetString("spotify-client-secret")
	cfg.Spotify.TokenPath = viper.GetString("spotify-token-path")
	if cfg.Spotify.TokenPath == "" {
		cfg.Spotify.TokenPath = "./spotify_token.json"
	}
	cfg.Spotify.User = viper.GetString("spotify-user")
	cfg.Spotify.UserAuth = viper.GetBool("spotify-user-auth")
	cfg.Spotify.Market = strings.ToUpper(viper.GetString("market"))
	if cfg.Spotify.Market == "" {
		cfg.Spotify.Market = core.DefaultMarket
	}

	cfg.Spotify.RedirectURL = viper.GetString("spotify-redirect-url")
	if cfg.Spotify.RedirectURL == "" {
		cfg.Spotify.RedirectURL = fmt.Sprintf("http://%s:%d/callback",
			defaultServerHost, viper.GetInt("server-port"))
	}
}

func configureServer(cfg *core.Config) {
	cfg.Server.Enabled = viper.GetBool("server-enabled")
	cfg.Server.Host = viper.GetString("server-host")
	if cfg.Server.Host == "" {
		cfg.Server.Host = defaultServerHost
	}
	cfg.Server.Port = viper.GetInt("server-port")
	cfg.Log.Level = viper.GetString("log-level")
	cfg.Log.Format = viper.GetString("log-format")
}

func configureApp(cfg *core.Config) {
	cfg.App.Language = viper.GetString("language")
	if cfg.App.Language == "" {
		cfg.App.Language = i18n.DefaultLanguage
	}

	if !i18n.IsSupported(cfg.App.Language) {
		fmt.Fprintf(os.Stderr, "Warning: Unsupported language '%s', falling back to '%s'. Supported languages: %s\n",
			cfg.App.Language, i18n.DefaultLanguage, strings.Join(i18n.GetSupportedLanguages(), ", "))
		cfg.App.Language = i18n.DefaultLanguage
	}

	cfg.App.PlayMode = viper.GetString("play-mode")
	cfg.App.ExplicitFilter = viper.GetString("explicit-filter")

	// Zero disables the flood gate; negative values are a typo
	cfg.App.FloodLimitPerMin = viper.GetInt("flood-limit-per-minute")
	if cfg.App.FloodLimitPerMin < 0 {
		cfg.App.FloodLimitPerMin = core.DefaultFloodLimitPerMin
	}

	if size := viper.GetInt("cache-size"); size > 0 {
		cfg.Cache.Size = size
	}
	if pages := viper.GetInt("max-pages"); pages > 0 {
		cfg.Limits.MaxPages = pages
	}
}

func buildLogger(level, format string) *zap.Logger {
	var zapLevel zapcore.Level
	switch strings.ToLower(level) {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	if strings.EqualFold(format, "text") {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	builtLogger, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to build logger: %v", err))
	}

	return builtLogger
}

func validateConfig() error {
	if config.Spotify.ClientID == "" {
		return errors.New("spotify client ID is required")
	}
	if config.Spotify.ClientSecret == "" {
		return errors.New("spotify client secret is required")
	}
	if _, err := core.ParsePlayMode(config.App.PlayMode); err != nil {
		return err
	}
	if _, err := core.ParseExplicitFilter(config.App.ExplicitFilter); err != nil {
		return err
	}
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	if viper.GetBool("generate-env-example") {
		return generateEnvExample(cmd)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("Starting spotifyproxy",
		zap.String("market", config.Spotify.Market),
		zap.String("language", config.App.Language),
		zap.String("play_mode", config.App.PlayMode),
		zap.String("explicit_filter", config.App.ExplicitFilter),
		zap.Bool("user_auth", config.Spotify.UserAuth))

	if err := validateConfig(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if !config.Server.Enabled {
		return errors.New("HTTP server is disabled; use the play command for one-shot requests")
	}

	svcs, err := initializeServices(ctx, core.NewLogSink(logger))
	if err != nil {
		return err
	}
	defer svcs.floodgate.Stop()

	return runServices(ctx, svcs)
}

type services struct {
	spotify    *spotify.Client
	proxy      *core.Proxy
	floodgate  *flood.Floodgate
	httpServer *httpserver.Server
}

func initializeServices(ctx context.Context, sink core.Sink) (*services, error) {
	spotifyClient := spotify.NewClient(&config.Spotify, config.Cache, logger.Named("spotify"))
	if err := spotifyClient.Authenticate(ctx); err != nil {
		return nil, fmt.Errorf("failed to authenticate with Spotify: %w", err)
	}

	proxy, err := core.NewProxy(config, spotifyClient, sink, logger)
	if err != nil {
		return nil, err
	}

	floodgate := flood.New(config.App.FloodLimitPerMin)
	httpServer := httpserver.NewServer(&config.Server, proxy, floodgate, logger,
		httpserver.NewCacheCollector(spotifyClient.CacheStats))

	return &services{
		spotify:    spotifyClient,
		proxy:      proxy,
		floodgate:  floodgate,
		httpServer: httpServer,
	}, nil
}

func runServices(ctx context.Context, svcs *services) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return svcs.httpServer.Start(gCtx)
	})

	g.Go(func() error {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-gCtx.Done():
				return nil
			case <-ticker.C:
				stats := svcs.floodgate.GetStats()
				logger.Debug("Flood gate status",
					zap.Int("active_clients", stats.ActiveClients),
					zap.Int("limit_per_minute", stats.LimitPerMinute))
			}
		}
	})

	logger.Info("spotifyproxy started successfully",
		zap.String("http_addr", fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)))

	if err := g.Wait(); err != nil {
		logger.Error("spotifyproxy stopped with error", zap.Error(err))
		return err
	}

	logger.Info("spotifyproxy stopped gracefully")
	return nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	intent, err := core.ParseIntent(args[0])
	if err != nil {
		return err
	}
	query := strings.Join(args[1:], " ")
	owner, err := cmd.Flags().GetString("owner")
	if err != nil {
		return err
	}

	if err := validateConfig(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	svcs, err := initializeServices(ctx, newConsoleSink(cmd.OutOrStdout(), cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	defer svcs.floodgate.Stop()

	added, err := svcs.proxy.Enqueue(ctx, intent, query, owner)
	var notFound *core.NotFoundError
	if errors.As(err, &notFound) {
		return errors.New(notFound.Message)
	}
	if err != nil {
		return err
	}

	logger.Debug("Request enqueued", zap.Stringer("intent", intent), zap.Int("added", added))
	if item, ok := svcs.proxy.Next(); ok {
		fmt.Fprintf(cmd.OutOrStdout(), "Now playing: %s\n", item)
	}
	return nil
}
