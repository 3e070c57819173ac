package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"car-rental-backend/config"
)

func TestNew(t *testing.T) {
	testCases := []struct {
		name      string
		cfg       config.LogConfig
		enabled   zapcore.Level
		disabled  zapcore.Level
		expectErr bool
	}{
		{
			name:     "Development debug",
			cfg:      config.LogConfig{Env: "development", Level: "debug"},
			enabled:  zapcore.DebugLevel,
			disabled: zapcore.DebugLevel - 1,
		},
		{
			name:     "Production warn",
			cfg:      config.LogConfig{Env: "production", Level: "WARN"},
			enabled:  zapcore.WarnLevel,
			disabled: zapcore.InfoLevel,
		},
		{
			name:      "Unknown level",
			cfg:       config.LogConfig{Env: "production", Level: "loud"},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			logger, err := New(tc.cfg)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tc.enabled))
			assert.False(t, logger.Core().Enabled(tc.disabled))
		})
	}
}

func TestIsProduction(t *testing.T) {
	assert.True(t, IsProduction("production"))
	assert.True(t, IsProduction("PROD"))
	assert.False(t, IsProduction("development"))
	assert.False(t, IsProduction(""))
}
