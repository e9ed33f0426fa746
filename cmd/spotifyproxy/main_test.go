package main

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestFlagToEnvVar(t *testing.T) {
	tests := []struct {
		flag string
		want string
	}{
		{"spotify-client-id", "SPOTIFYPROXY_SPOTIFY_CLIENT_ID"},
		{"market", "SPOTIFYPROXY_MARKET"},
		{"flood-limit-per-minute", "SPOTIFYPROXY_FLOOD_LIMIT_PER_MINUTE"},
	}

	for _, tt := range tests {
		if got := flagToEnvVar(tt.flag); got != tt.want {
			t.Errorf("flagToEnvVar(%q) = %q, want %q", tt.flag, got, tt.want)
		}
	}
}

func TestGenerateEnvExampleContent(t *testing.T) {
	content := generateEnvExampleContent(rootCmd)

	for _, want := range []string{
		"SPOTIFYPROXY_SPOTIFY_CLIENT_ID=",
		"SPOTIFYPROXY_PLAY_MODE=normal",
		"SPOTIFYPROXY_EXPLICIT_FILTER=disallow",
		"SPOTIFYPROXY_SERVER_PORT=8080",
		"SPOTIFYPROXY_LOG_FORMAT=json",
		"en, ch_be",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("generated .env.example lacks %q", want)
		}
	}
}

func TestBuildLogger(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"WARN", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"verbose", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		logger := buildLogger(tt.level, "json")
		if !logger.Core().Enabled(tt.want) {
			t.Errorf("buildLogger(%q) does not log at %v", tt.level, tt.want)
		}
		if tt.want > zapcore.DebugLevel && logger.Core().Enabled(tt.want-1) {
			t.Errorf("buildLogger(%q) logs below %v", tt.level, tt.want)
		}
	}
}

func TestConsoleSink(t *testing.T) {
	var out, errOut bytes.Buffer
	sink := newConsoleSink(&out, &errOut)

	sink.Info("Looking for Artist 'daft'")
	sink.Advice("'daft' not found. Playing 'Daft Punk' instead.")
	sink.Warning("Searching all playlists")

	want := "Looking for Artist 'daft'\n> 'daft' not found. Playing 'Daft Punk' instead.\n"
	if got := out.String(); got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
	if got := errOut.String(); got != "Warning: Searching all playlists\n" {
		t.Errorf("stderr = %q", got)
	}
}
