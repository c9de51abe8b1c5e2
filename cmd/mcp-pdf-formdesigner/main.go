package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/a3tai/mcp-pdf-formdesigner/internal/config"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/coords"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/httpapi"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/mcp"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/metrics"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/pdf"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/pdf/export"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/reorder"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/session"
	"github.com/a3tai/mcp-pdf-formdesigner/internal/storage"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

const (
	persistTimeout  = 5 * time.Second
	shutdownTimeout = 10 * time.Second
)

// initLogger builds a JSON logger on stderr so stdout stays free for the
// stdio transport. Stdio mode only logs warnings unless debug is enabled.
func initLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	if cfg.IsStdioMode() && !cfg.IsDebug() && level < zapcore.WarnLevel {
		level = zapcore.WarnLevel
	}

	zc := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      level == zapcore.DebugLevel,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	return zc.Build()
}

// app is the wired designer: persistence, export and the session
type app struct {
	session    *session.Session
	writer     *storage.Writer
	dispatcher *export.Dispatcher
	closeKV    func() error
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) (*app, error) {
	kv, closeKV, err := storage.Open(ctx, storage.Options{
		Kind:     cfg.Store,
		Dir:      cfg.StoreDir,
		RedisURL: cfg.RedisURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store, err)
	}

	store := storage.NewStore(kv, nil, logger.Named("storage"), m)
	writer := storage.NewWriter(store, persistTimeout, logger.Named("storage"))

	backend := export.NewPDFCPUBackend(logger.Named("pdfcpu"), filepath.Join(os.TempDir(), "formdesigner"))
	exporter := export.NewExporter(backend, logger.Named("export"), m)
	dispatcher := export.NewDispatcher(exporter, cfg.ExportTimeout, logger.Named("export"), m)

	sess, err := session.New(ctx, session.Options{
		Page: coords.Page{Width: cfg.PageWidth, Height: cfg.PageHeight},
		Policy: reorder.Policy{
			Mode:     reorder.Mode(cfg.LayoutMode),
			Baseline: cfg.StackBaseline,
			Stride:   cfg.StackStride,
		},
		Loader:     store,
		Persister:  writer,
		Dispatcher: dispatcher,
		Validator:  pdf.NewValidator(cfg.MaxFileSize),
		Logger:     logger.Named("session"),
		Metrics:    m,
		AutoExport: cfg.IsServerMode(),
	})
	if err != nil {
		dispatcher.Close()
		writer.Close()
		_ = closeKV()
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &app{session: sess, writer: writer, dispatcher: dispatcher, closeKV: closeKV}, nil
}

// Close flushes pending saves and releases the store
func (a *app) Close() error {
	a.dispatcher.Close()
	a.writer.Close()
	return a.closeKV()
}

func newHTTPServer(cfg *config.Config, a *app, server *mcp.Server, m *metrics.Metrics, logger *zap.Logger) *http.Server {
	router := httpapi.NewRouter(httpapi.Options{
		Session:     a.session,
		Metrics:     m,
		Gatherer:    prometheus.DefaultGatherer,
		Logger:      logger.Named("http"),
		MCP:         server.Handler("http://" + cfg.Address()),
		MaxBodySize: cfg.MaxFileSize,
		Release:     !cfg.IsDebug(),
	})
	return &http.Server{
		Addr:              cfg.Address(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// runServerMode serves the HTTP API and MCP over SSE until a signal arrives
func runServerMode(srv *http.Server, logger *zap.Logger) error {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(signalCh)

	serverErrCh := make(chan error, 1)
	go func() {
		logger.Info("server started", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	select {
	case sig := <-signalCh:
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err, ok := <-serverErrCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	m := metrics.NewWithRegistry(prometheus.DefaultRegisterer, logger.Named("metrics"))

	a, err := newApp(ctx, cfg, logger, m)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("failed to close store", zap.Error(err))
		}
	}()

	server, err := mcp.NewServer(cfg, a.session, logger.Named("mcp"))
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	if cfg.IsServerMode() {
		return runServerMode(newHTTPServer(cfg, a, server, m, logger), logger)
	}
	// In stdio mode the parent process controls our lifecycle
	return server.Run(ctx)
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	logger, err := initLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Debug("starting", zap.Stringer("config", cfg))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("exiting", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("MCP PDF Form Designer\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
