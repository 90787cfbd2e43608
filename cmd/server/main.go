package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"semaphore"
	"semaphore/internal/command"
	"semaphore/internal/config"
	"semaphore/internal/network"
	"semaphore/internal/storage"
)

var (
	errUnknownLoggerLevel = errors.New("unknown logger level")
)

func main() {
	conf := config.Load()

	logger := createLogger(&conf.LoggingConfig)
	defer func() {
		_ = logger.Sync()
	}()

	if conf.NetworkConfig.MaxConnections <= 0 {
		logger.Fatal("Invalid max_connections value", zap.Int("max_connections", conf.NetworkConfig.MaxConnections))
	}

	sessions := semaphore.NewResource[storage.Store](
		uint(conf.NetworkConfig.MaxConnections),
		storage.NewMemoryStore(conf.StorageConfig.StartSize),
	)

	executor := createExecutor(logger, sessions)

	server, err := network.NewTCPServer(logger, &conf.NetworkConfig, sessions, executor.Execute)
	if err != nil {
		logger.Fatal("Failed to create server", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Run(ctx)
	})

	g.Go(func() error {
		watchSignals(ctx, logger, cancel)
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}

	logger.Info("server stopped")
}

func createLogger(conf *config.LoggingConfig) *zap.Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var zapLevel = zapcore.InfoLevel

	levelByName := map[string]zapcore.Level{
		"info":  zapcore.InfoLevel,
		"debug": zapcore.DebugLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
	}

	var found bool
	if zapLevel, found = levelByName[conf.Level]; !found {
		log.Fatal(errUnknownLoggerLevel)
	}

	cfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(zapLevel),
		DisableCaller:     false,
		DisableStacktrace: false,
		Encoding:          "json",
		EncoderConfig:     encoderCfg,
		OutputPaths: []string{
			"stderr",
			conf.Output,
		},
		ErrorOutputPaths: []string{
			"stderr",
		},
		InitialFields: map[string]interface{}{
			"pid": os.Getpid(),
		},
		Development: false,
		Sampling:    nil,
	}

	return zap.Must(cfg.Build())
}

func createExecutor(logger *zap.Logger, sessions *semaphore.Resource[storage.Store]) *command.Executor {
	parser, err := command.NewQueryParser(logger)
	if err != nil {
		logger.Fatal("Failed to create query parser", zap.Error(err))
	}

	executor, err := command.NewExecutor(logger, parser, sessions)
	if err != nil {
		logger.Fatal("Failed to create executor", zap.Error(err))
	}

	return executor
}

func watchSignals(ctx context.Context, logger *zap.Logger, cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan,
		syscall.SIGINT,
		syscall.SIGTERM,
	)

	select {
	case <-sigChan:
		logger.Info("shutting down server...")
		cancel()
	case <-ctx.Done():
	}
}
