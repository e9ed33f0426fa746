package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"spotifyproxy/internal/core"
	"spotifyproxy/internal/i18n"
)

func generateEnvExample(cmd *cobra.Command) error {
	fmt.Println("Generating .env.example file from current configuration...")

	content := generateEnvExampleContent(cmd)

	if err := os.WriteFile(".env.example", []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write .env.example: %w", err)
	}

	fmt.Println("Successfully generated .env.example file")
	return nil
}

func generateEnvExampleContent(cmd *cobra.Command) string {
	var content strings.Builder

	content.WriteString("# =============================================================================\n")
	content.WriteString("# spotifyproxy Configuration\n")
	content.WriteString("# =============================================================================\n")
	content.WriteString("#\n")
	content.WriteString("# Copy this file to .env and update with your values\n")
	content.WriteString("# All environment variables have CLI flag equivalents (use --help to see them)\n")
	content.WriteString("#\n")
	content.WriteString("# Format: " + envPrefix + "_<SETTING>=value\n")
	content.WriteString("# CLI equivalent: --<setting>\n")
	content.WriteString("#\n\n")

	generateSpotifySection(&content, cmd)
	generatePlaybackSection(&content, cmd)
	generateServerSection(&content, cmd)
	generateLoggingSection(&content, cmd)

	return content.String()
}

func flagToEnvVar(flagName string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}

func getDefaultValueString(cmd *cobra.Command, flagName string) string {
	if f := cmd.PersistentFlags().Lookup(flagName); f != nil {
		return f.DefValue
	}
	if f := cmd.Flags().Lookup(flagName); f != nil {
		return f.DefValue
	}
	return ""
}

// writeSetting writes one documented setting with its flag default.
func writeSetting(content *strings.Builder, cmd *cobra.Command, flagName, description string) {
	def := getDefaultValueString(cmd, flagName)
	fmt.Fprintf(content, "%s=%s\n", flagToEnvVar(flagName), def)
	fmt.Fprintf(content, "#   %s (default: %q)\n", description, def)
}

func writeHeader(content *strings.Builder, title, cli string) {
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# " + title + "\n")
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# CLI: " + cli + "\n")
}

func generateSpotifySection(content *strings.Builder, cmd *cobra.Command) {
	writeHeader(content, "Spotify (required) - https://developer.spotify.com/dashboard",
		"--spotify-client-id, --spotify-client-secret, --spotify-user-auth")

	fmt.Fprintf(content, "%s=your_spotify_client_id_here\n", flagToEnvVar("spotify-client-id"))
	fmt.Fprintf(content, "%s=your_spotify_client_secret_here\n", flagToEnvVar("spotify-client-secret"))
	fmt.Fprintf(content, "%s=http://127.0.0.1:%d/callback\n",
		flagToEnvVar("spotify-redirect-url"), core.DefaultServerPort)
	writeSetting(content, cmd, "spotify-token-path", "Where the authorized user token is stored")
	writeSetting(content, cmd, "spotify-user-auth", "Authorize a user for liked, recent and top track requests")
	writeSetting(content, cmd, "spotify-user", "Session user ID, empty to use the authorized user")
	writeSetting(content, cmd, "market", "Market for track lookups and artist top tracks")
	content.WriteString("\n")
}

func generatePlaybackSection(content *strings.Builder, cmd *cobra.Command) {
	writeHeader(content, "Playback",
		"--play-mode, --explicit-filter, --language, --cache-size, --max-pages")

	writeSetting(content, cmd, "play-mode", "normal or shuffle")
	writeSetting(content, cmd, "explicit-filter", "allow or disallow explicit tracks")
	writeSetting(content, cmd, "language",
		"Message language: "+strings.Join(i18n.GetSupportedLanguages(), ", "))
	writeSetting(content, cmd, "cache-size", "Entries kept per catalog lookup cache")
	writeSetting(content, cmd, "max-pages", "Pages read at most per paginated listing")
	content.WriteString("\n")
}

func generateServerSection(content *strings.Builder, cmd *cobra.Command) {
	writeHeader(content, "HTTP Server", "--server-enabled, --server-host, --server-port, --flood-limit-per-minute")

	writeSetting(content, cmd, "server-enabled", "Serve the control API")
	writeSetting(content, cmd, "server-host", "Server bind address")
	writeSetting(content, cmd, "server-port", "Server port")
	writeSetting(content, cmd, "flood-limit-per-minute", "Requests per client per minute, 0 disables")
	content.WriteString("\n")
}

func generateLoggingSection(content *strings.Builder, cmd *cobra.Command) {
	writeHeader(content, "Logging", "--log-level, --log-format")

	writeSetting(content, cmd, "log-level", "debug, info, warn, error")
	writeSetting(content, cmd, "log-format", "json or text")
}
