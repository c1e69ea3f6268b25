package logger

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/wonny/openresearch/backend/pkg/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *config.Config
		wantLevel zerolog.Level
	}{
		{
			name:      "debug level",
			cfg:       &config.Config{Env: "development", LogLevel: "debug", LogFormat: "json"},
			wantLevel: zerolog.DebugLevel,
		},
		{
			name:      "info level",
			cfg:       &config.Config{Env: "production", LogLevel: "info", LogFormat: "json"},
			wantLevel: zerolog.InfoLevel,
		},
		{
			name:      "warn level",
			cfg:       &config.Config{Env: "staging", LogLevel: "warn", LogFormat: "json"},
			wantLevel: zerolog.WarnLevel,
		},
		{
			name:      "console format",
			cfg:       &config.Config{Env: "development", LogLevel: "error", LogFormat: "console"},
			wantLevel: zerolog.ErrorLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(tt.cfg)
			if logger == nil {
				t.Fatal("Expected logger to be created")
			}

			if zerolog.GlobalLevel() != tt.wantLevel {
				t.Errorf("Expected global level %v, got %v", tt.wantLevel, zerolog.GlobalLevel())
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"WARN", zerolog.WarnLevel},
		{"unknown", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLogLevel(tt.input); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestWithFieldChaining(t *testing.T) {
	base := NewNop()

	derived := base.
		WithField("ticker", "AAPL").
		WithFields(map[string]interface{}{"module": "facts"}).
		WithError(nil)

	if derived == nil {
		t.Fatal("Expected derived logger")
	}
	if derived == base {
		t.Error("Expected WithField to return a new logger")
	}

	// Must not panic on a nop logger.
	derived.Debug("debug")
	derived.Info("info")
	derived.Warn("warn")
	derived.Error("error")
	derived.Infof("formatted %d", 1)
}
