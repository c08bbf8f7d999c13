package cmd

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The interactive entry point relies on the package init having set up the
// shared logger; it must never start with a nil Logger.
func TestLoggerInitializedOnImport(t *testing.T) {
	require.NotNil(t, Logger)
}

func TestInitLoggerLevels(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  logrus.Level
	}{
		{name: "default", level: "", want: logrus.InfoLevel},
		{name: "debug", level: "debug", want: logrus.DebugLevel},
		{name: "warning", level: "warning", want: logrus.WarnLevel},
		{name: "invalid falls back to info", level: "nonsense", want: logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tt.level)

			InitLogger()
			assert.Equal(t, tt.want, Logger.GetLevel())
		})
	}
}

func TestNewLogger(t *testing.T) {
	t.Setenv("LOG_LEVEL", "info")
	InitLogger()

	assert.Equal(t, logrus.DebugLevel, newLogger(true).GetLevel())
	assert.Equal(t, logrus.InfoLevel, newLogger(false).GetLevel())
}
