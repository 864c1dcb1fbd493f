package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name          string
		logLevel      string
		envLevel      string
		logFormat     string
		development   bool
		expectedLevel logrus.Level
		expectJSON    bool
	}{
		{
			name:          "production defaults to info json",
			expectedLevel: logrus.InfoLevel,
			expectJSON:    true,
		},
		{
			name:          "development defaults to debug text",
			development:   true,
			expectedLevel: logrus.DebugLevel,
		},
		{
			name:          "argument wins over environment",
			logLevel:      "warn",
			envLevel:      "debug",
			expectedLevel: logrus.WarnLevel,
			expectJSON:    true,
		},
		{
			name:          "environment level",
			envLevel:      "ERROR",
			development:   true,
			expectedLevel: logrus.ErrorLevel,
		},
		{
			name:          "json forced in development",
			logFormat:     "json",
			development:   true,
			expectedLevel: logrus.DebugLevel,
			expectJSON:    true,
		},
		{
			name:          "invalid level defaults to info",
			logLevel:      "loud",
			expectedLevel: logrus.InfoLevel,
			expectJSON:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tt.envLevel)
			t.Setenv("LOG_FORMAT", tt.logFormat)

			var buf bytes.Buffer
			log := initLogger(tt.logLevel, tt.development, &buf)
			assert.Equal(t, tt.expectedLevel, log.GetLevel())
			assert.Same(t, log, Logger)

			_, isJSON := log.Formatter.(*logrus.JSONFormatter)
			assert.Equal(t, tt.expectJSON, isJSON)
		})
	}
}

func TestContextHelpers(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")
	var buf bytes.Buffer
	initLogger("info", false, &buf)

	WithSlateContext("2024-07-04", "").Info("slate")
	WithService("mlb-dfs-api").Info("starting")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var slate map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &slate))
	assert.Equal(t, "2024-07-04", slate["slate_date"])
	assert.NotContains(t, slate, "run_id")

	var service map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &service))
	assert.Equal(t, "mlb-dfs-api", service["service"])
}
