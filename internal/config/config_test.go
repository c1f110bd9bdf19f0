package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateMonitor(t *testing.T) {
	tests := []struct {
		name    string
		cfg     MonitorConfig
		wantErr string
	}{
		{
			name:    "missing inactive threshold",
			cfg:     MonitorConfig{DisableAfter: 30 * 24 * time.Hour},
			wantErr: "monitor.inactiveafter is required",
		},
		{
			name:    "missing disable threshold",
			cfg:     MonitorConfig{InactiveAfter: 24 * time.Hour},
			wantErr: "monitor.disableafter is required",
		},
		{
			name:    "disable not longer than inactive",
			cfg:     MonitorConfig{InactiveAfter: 24 * time.Hour, DisableAfter: 12 * time.Hour},
			wantErr: "monitor.disableafter must be longer",
		},
		{
			name: "valid",
			cfg:  MonitorConfig{InactiveAfter: 24 * time.Hour, DisableAfter: 30 * 24 * time.Hour},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Monitor: tt.cfg}
			err := cfg.ValidateMonitor()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MonitorThresholdsFromEnv(t *testing.T) {
	t.Setenv("DEVPUSH_MONITOR_INACTIVEAFTER", "168h")
	t.Setenv("DEVPUSH_MONITOR_DISABLEAFTER", "720h")
	t.Setenv("DEVPUSH_MONITOR_CHECKINTERVAL", "1m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 168*time.Hour, cfg.Monitor.InactiveAfter)
	assert.Equal(t, 720*time.Hour, cfg.Monitor.DisableAfter)
	assert.Equal(t, time.Minute, cfg.Monitor.CheckInterval)
	assert.NoError(t, cfg.ValidateMonitor())
}
