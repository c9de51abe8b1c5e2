package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Directory = t.TempDir()
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ModeStdio, cfg.Mode)
	assert.Equal(t, DefaultHost, cfg.Host)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.NotEmpty(t, cfg.Directory)
	assert.Equal(t, StoreFile, cfg.Store)
	assert.Equal(t, filepath.Join(cfg.Directory, DefaultStoreDirName), cfg.StoreDir)
	assert.Equal(t, 612.0, cfg.PageWidth)
	assert.Equal(t, 792.0, cfg.PageHeight)
	assert.Equal(t, LayoutStacked, cfg.LayoutMode)
	assert.Equal(t, 92.0, cfg.StackBaseline)
	assert.Equal(t, -50.0, cfg.StackStride)
	assert.Equal(t, 30*time.Second, cfg.ExportTimeout)
	assert.Equal(t, "mcp-pdf-formdesigner", cfg.ServerName)
	assert.Equal(t, int64(DefaultMaxFileSize), cfg.MaxFileSize)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"server mode", func(c *Config) { c.Mode = ModeServer }, ""},
		{"invalid mode", func(c *Config) { c.Mode = "invalid" }, "mode must be"},
		{"port too low in server mode", func(c *Config) { c.Mode = ModeServer; c.Port = 0 }, "port must be"},
		{"port too high in server mode", func(c *Config) { c.Mode = ModeServer; c.Port = 70000 }, "port must be"},
		{"port ignored in stdio mode", func(c *Config) { c.Port = 0 }, ""},
		{"empty directory", func(c *Config) { c.Directory = "" }, "working directory"},
		{"zero max file size", func(c *Config) { c.MaxFileSize = 0 }, "maximum file size"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "invalid log level"},
		{"memory store", func(c *Config) { c.Store = StoreMemory }, ""},
		{"redis without url", func(c *Config) { c.Store = StoreRedis }, "redis url"},
		{"redis with url", func(c *Config) { c.Store = StoreRedis; c.RedisURL = "redis://localhost:6379/0" }, ""},
		{"unknown store", func(c *Config) { c.Store = "etcd" }, "invalid store"},
		{"zero page width", func(c *Config) { c.PageWidth = 0 }, "page size"},
		{"negative page height", func(c *Config) { c.PageHeight = -1 }, "page size"},
		{"freeform", func(c *Config) { c.LayoutMode = LayoutFreeform }, ""},
		{"unknown layout", func(c *Config) { c.LayoutMode = "grid" }, "invalid layout mode"},
		{"zero stride", func(c *Config) { c.StackStride = 0 }, "stride"},
		{"negative stride", func(c *Config) { c.StackStride = -50 }, ""},
		{"negative timeout", func(c *Config) { c.ExportTimeout = -time.Second }, "timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigValidateDirectoryCreation(t *testing.T) {
	cfg := validConfig(t)
	cfg.Directory = filepath.Join(t.TempDir(), "nested", "forms")

	require.NoError(t, cfg.Validate())
	info, err := os.Stat(cfg.Directory)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestConfigAddress(t *testing.T) {
	cfg := &Config{Host: "192.168.1.1", Port: 9090}
	assert.Equal(t, "192.168.1.1:9090", cfg.Address())
}

func TestConfigModes(t *testing.T) {
	tests := []struct {
		mode       string
		wantServer bool
		wantStdio  bool
	}{
		{ModeServer, true, false},
		{ModeStdio, false, true},
		{"other", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			cfg := &Config{Mode: tt.mode}
			assert.Equal(t, tt.wantServer, cfg.IsServerMode())
			assert.Equal(t, tt.wantStdio, cfg.IsStdioMode())
		})
	}
}

func TestConfigIsDebug(t *testing.T) {
	for level, want := range map[string]bool{"debug": true, "info": false, "warn": false, "error": false} {
		t.Run(level, func(t *testing.T) {
			assert.Equal(t, want, (&Config{LogLevel: level}).IsDebug())
		})
	}
}

func TestConfigString(t *testing.T) {
	cfg := &Config{
		Mode:        ModeServer,
		Host:        "localhost",
		Port:        8080,
		Directory:   "/home/user/forms",
		Store:       StoreRedis,
		LayoutMode:  LayoutFreeform,
		PageWidth:   612,
		PageHeight:  792,
		LogLevel:    "debug",
		MaxFileSize: 1024,
	}

	result := cfg.String()
	for _, substr := range []string{
		"Mode: server",
		"Host: localhost",
		"Port: 8080",
		"Directory: /home/user/forms",
		"Store: redis",
		"LayoutMode: freeform",
		"Page: 612x792",
		"LogLevel: debug",
		"MaxFileSize: 1024",
	} {
		assert.Contains(t, result, substr)
	}
}
