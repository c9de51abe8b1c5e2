package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Store backends
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreMemory = "memory"

	// Layout modes
	LayoutStacked  = "stacked"
	LayoutFreeform = "freeform"

	// Default values
	DefaultPort          = 8080
	DefaultHost          = "127.0.0.1"
	DefaultLogLevel      = "info"
	DefaultMaxFileSize   = 100 * 1024 * 1024 // 100MB
	DefaultPageWidth     = 612.0
	DefaultPageHeight    = 792.0
	DefaultStackBaseline = 92.0  // 700pt above the bottom of a Letter page
	DefaultStackStride   = -50.0 // later fields stack further down
	DefaultExportTimeout = 30 * time.Second
	DefaultStoreDirName  = ".formdesigner"

	// Directory permissions
	DefaultDirPerm = 0o750

	envPrefix = "MCP_FORM"
)

// Config holds all configuration for the form designer server
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Working directory for base PDFs and exports
	Directory string

	// Persistence
	Store    string
	StoreDir string
	RedisURL string

	// Page and layout
	PageWidth     float64
	PageHeight    float64
	LayoutMode    string
	StackBaseline float64
	StackStride   float64

	// Application configuration
	Version       string
	ServerName    string
	LogLevel      string
	MaxFileSize   int64 // Maximum base PDF size in bytes
	ExportTimeout time.Duration
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		// Fallback to current directory if working directory cannot be determined
		currentDir = "."
	}

	return &Config{
		Mode:          ModeStdio, // Default to stdio mode for MCP compatibility
		Host:          DefaultHost,
		Port:          DefaultPort,
		Directory:     currentDir,
		Store:         StoreFile,
		StoreDir:      filepath.Join(currentDir, DefaultStoreDirName),
		PageWidth:     DefaultPageWidth,
		PageHeight:    DefaultPageHeight,
		LayoutMode:    LayoutStacked,
		StackBaseline: DefaultStackBaseline,
		StackStride:   DefaultStackStride,
		Version:       "1.0.0",
		ServerName:    "mcp-pdf-formdesigner",
		LogLevel:      DefaultLogLevel,
		MaxFileSize:   DefaultMaxFileSize,
		ExportTimeout: DefaultExportTimeout,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Expand paths if needed
	if cfg.Directory != "" {
		if expandedPath, err := filepath.Abs(cfg.Directory); err == nil {
			cfg.Directory = expandedPath
		}
	}
	// The store follows the working directory unless set explicitly
	if cfg.StoreDir == "" {
		cfg.StoreDir = filepath.Join(cfg.Directory, DefaultStoreDirName)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// flagKeys lists every key shared by flags, env and viper defaults
var flagKeys = []string{
	"mode", "host", "port", "dir", "loglevel", "maxfilesize",
	"store", "storedir", "redisurl",
	"pagewidth", "pageheight", "layoutmode", "stackbaseline", "stackstride",
	"exporttimeout",
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	// Set environment variable prefix
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("dir", cfg.Directory)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("store", cfg.Store)
	viper.SetDefault("redisurl", cfg.RedisURL)
	viper.SetDefault("pagewidth", cfg.PageWidth)
	viper.SetDefault("pageheight", cfg.PageHeight)
	viper.SetDefault("layoutmode", cfg.LayoutMode)
	viper.SetDefault("stackbaseline", cfg.StackBaseline)
	viper.SetDefault("stackstride", cfg.StackStride)
	viper.SetDefault("exporttimeout", cfg.ExportTimeout)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP server")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("dir", cfg.Directory, "Working directory for base PDFs and exports")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum base PDF size in bytes")
	pflag.String("store", cfg.Store, "Design store backend (file, redis, memory)")
	pflag.String("storedir", "", "Directory of the file store (default <dir>/"+DefaultStoreDirName+")")
	pflag.String("redisurl", cfg.RedisURL, "Redis URL for the redis store, e.g. redis://localhost:6379/0")
	pflag.Float64("pagewidth", cfg.PageWidth, "Blank page width in points")
	pflag.Float64("pageheight", cfg.PageHeight, "Blank page height in points")
	pflag.String("layoutmode", cfg.LayoutMode, "Field placement: 'stacked' follows list order, 'freeform' keeps dropped positions")
	pflag.Float64("stackbaseline", cfg.StackBaseline, "yPosition of the first field in stacked mode")
	pflag.Float64("stackstride", cfg.StackStride, "yPosition step between stacked fields (negative stacks downward)")
	pflag.Duration("exporttimeout", cfg.ExportTimeout, "Deadline of a single PDF export")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	for _, key := range flagKeys {
		_ = viper.BindPFlag(key, pflag.Lookup(key))
	}
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nMCP PDF Form Designer - A Model Context Protocol server for designing fillable PDF forms\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                          "+
			"# stdio mode, current directory (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --dir=/path/to/forms                     "+
			"# stdio mode with custom directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server --layoutmode=freeform      # HTTP editor API\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --store=redis --redisurl=redis://localhost:6379/0\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		for _, key := range flagKeys {
			fmt.Fprintf(os.Stderr, "  %s_%s\n", envPrefix, strings.ToUpper(key))
		}
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.Directory = viper.GetString("dir")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.Store = viper.GetString("store")
	cfg.StoreDir = viper.GetString("storedir")
	cfg.RedisURL = viper.GetString("redisurl")
	cfg.PageWidth = viper.GetFloat64("pagewidth")
	cfg.PageHeight = viper.GetFloat64("pageheight")
	cfg.LayoutMode = viper.GetString("layoutmode")
	cfg.StackBaseline = viper.GetFloat64("stackbaseline")
	cfg.StackStride = viper.GetFloat64("stackstride")
	cfg.ExportTimeout = viper.GetDuration("exporttimeout")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate mode
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	// Validate port range (only for server mode)
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	// Validate working directory
	if c.Directory == "" {
		return errors.New("working directory cannot be empty")
	}

	// Check if the working directory exists, create if it doesn't
	if _, err := os.Stat(c.Directory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.Directory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create working directory %s: %w", c.Directory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access working directory %s: %w", c.Directory, err)
	}

	// Validate max file size
	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	switch c.Store {
	case StoreFile, StoreMemory:
	case StoreRedis:
		if c.RedisURL == "" {
			return errors.New("redis store requires a redis url")
		}
	default:
		return fmt.Errorf("invalid store: %s (must be one of: file, redis, memory)", c.Store)
	}

	if c.PageWidth <= 0 || c.PageHeight <= 0 {
		return fmt.Errorf("page size must be positive, got %vx%v", c.PageWidth, c.PageHeight)
	}
	if c.LayoutMode != LayoutStacked && c.LayoutMode != LayoutFreeform {
		return fmt.Errorf("invalid layout mode: %s (must be one of: stacked, freeform)", c.LayoutMode)
	}
	if c.StackStride == 0 {
		return errors.New("stack stride cannot be zero")
	}
	if c.ExportTimeout < 0 {
		return errors.New("export timeout cannot be negative")
	}

	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, Directory: %s, Store: %s, LayoutMode: %s, "+
		"Page: %vx%v, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.Host, c.Port, c.Directory, c.Store, c.LayoutMode,
		c.PageWidth, c.PageHeight, c.LogLevel, c.MaxFileSize)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
