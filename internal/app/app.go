package app

import (
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/yourusername/console-landing/internal/cache"
	"github.com/yourusername/console-landing/internal/datasource"
	"github.com/yourusername/console-landing/internal/i18n"
	"github.com/yourusername/console-landing/internal/storage"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// App holds the collaborators shared by every landing page session
type App struct {
	logger    *zap.Logger
	config    *Config
	version   string
	clock     clock.Clock
	client    *datasource.ConsoleClient
	session   storage.Store
	durable   storage.Store
	cache     *cache.ResultCache
	localizer *i18n.Localizer
}

// New creates a new App instance
func New(config *Config, version string) (*App, error) {
	// Initialize logger
	logger, err := initLogger(config.LogLevel, config.LogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return newApp(config, version, logger, clock.New())
}

func newApp(config *Config, version string, logger *zap.Logger, clk clock.Clock) (*App, error) {
	logger.Info("Starting console-landing",
		zap.String("version", version),
		zap.String("base_url", config.BaseURL),
		zap.Duration("poll_interval", config.PollInterval),
		zap.Bool("transitional_refresh", config.TransitionalRefresh),
	)

	client, err := datasource.NewConsoleClient(datasource.ClientConfig{
		BaseURL:       config.BaseURL,
		CSRFToken:     config.CSRFToken,
		SessionCookie: config.SessionCookie,
		Timeout:       config.Timeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create console client: %w", err)
	}

	durable, err := storage.NewSQLiteStore(config.StoragePath, logger)
	if err != nil {
		// Preferences still work for this run, they just are not kept
		logger.Warn("Durable preference store unavailable, using memory",
			zap.String("path", config.StoragePath),
			zap.Error(err),
		)
		durable = nil
	}

	a := &App{
		logger:    logger,
		config:    config,
		version:   version,
		clock:     clk,
		client:    client,
		session:   storage.NewMemoryStore(),
		cache:     cache.NewResultCache(config.EnrichCacheSize, config.EnrichCacheTTL, logger),
		localizer: i18n.NewLocalizer(config.Locale),
	}
	if durable != nil {
		a.durable = durable
	} else {
		a.durable = storage.NewMemoryStore()
	}

	logger.Debug("Application configuration loaded",
		zap.Int("pages", len(config.Pages)),
		zap.Int("page_size", config.PageSize),
		zap.String("locale", a.localizer.Tag().String()),
		zap.String("storage_path", config.StoragePath),
		zap.String("log_file", config.LogFile),
	)
	return a, nil
}

// Config returns the loaded configuration
func (a *App) Config() *Config { return a.config }

// Logger returns the application logger
func (a *App) Logger() *zap.Logger { return a.logger }

// Localizer returns the localizer for the configured locale
func (a *App) Localizer() *i18n.Localizer { return a.localizer }

// Client returns the console client
func (a *App) Client() *datasource.ConsoleClient { return a.client }

// Version returns the build version
func (a *App) Version() string { return a.version }

// Shutdown gracefully stops the application
func (a *App) Shutdown() error {
	a.logger.Info("Shutting down application...")

	if err := a.durable.Close(); err != nil {
		a.logger.Error("Failed to close preference store", zap.Error(err))
	}
	if err := a.session.Close(); err != nil {
		a.logger.Error("Failed to close session store", zap.Error(err))
	}

	// Sync only flushes buffered log entries, ignore stderr sync errors
	_ = a.logger.Sync()
	return nil
}

// initLogger initializes the zap logger with file rotation support
func initLogger(levelStr, logFile string) (*zap.Logger, error) {
	// Parse log level
	level := zapcore.InfoLevel
	switch levelStr {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	// Configure encoder
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	if logFile == "" {
		return nil, fmt.Errorf("log file path is empty")
	}

	// File output with rotation; the TUI owns stdout and stderr
	fileEncoder := zapcore.NewJSONEncoder(encoderConfig)
	fileWriter := zapcore.AddSync(&lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100, // MB
		MaxBackups: 3,
		MaxAge:     7, // days
		Compress:   true,
	})
	core := zapcore.NewCore(fileEncoder, fileWriter, level)

	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))

	// Set as global logger
	zap.ReplaceGlobals(logger)

	return logger, nil
}
