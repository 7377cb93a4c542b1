// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.uber.org/zap"

	"medibot/internal/common/config"
	"medibot/internal/common/logger"
	"medibot/internal/common/observability"
	"medibot/internal/knowledge"
	rtm "medibot/internal/workers/chat/respond-to-message"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting medibot worker manager...",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	obs := observability.New(cfg.App.Name, zapLog)
	defer obs.Shutdown()

	// --- Knowledge tables ---
	loader := knowledge.NewLoader(cfg.Knowledge.SymptomsFile, cfg.Knowledge.TopicsFile, log)
	store := knowledge.NewStore(loader, log)

	if cfg.Knowledge.Watch {
		watcher, err := knowledge.NewWatcher(store,
			[]string{cfg.Knowledge.SymptomsFile, cfg.Knowledge.TopicsFile},
			config.GetDuration(cfg.Knowledge.DebounceMs), log)
		if err == nil {
			err = watcher.Start()
		}
		if err != nil {
			// reload is optional; the loaded snapshot keeps serving
			zapLog.Warn("knowledge watcher not started", zap.Error(err))
		} else {
			defer watcher.Stop()
		}
	}

	responder := buildResponder(cfg, store)

	// --- Init Zeebe Client with retry ---
	var zeebeClient zbc.Client
	if cfg.Camunda.Disabled {
		zapLog.Warn("camunda disabled, no job workers will be opened")
	} else {
		err = retryWithBackoff(func() error {
			var err error
			zeebeClient, err = zbc.NewClient(&zbc.ClientConfig{
				GatewayAddress:         cfg.Camunda.BrokerAddress,
				UsePlaintextConnection: true,
			})
			return err
		}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		zapLog.Info("Zeebe client connected successfully")

		handler := rtm.NewHandler(rtm.LoadConfig(cfg), responder, obs, log)
		startWorker(zeebeClient, rtm.TaskType, config.GetWorkerConfig(cfg, rtm.TaskType), handler.Handle, zapLog)
	}

	// --- Health & Metrics Server ---
	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           newServerMux(store),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}

	if zeebeClient != nil {
		if err := zeebeClient.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc func(worker.JobClient, entities.Job), log *zap.Logger) {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	client.NewJobWorker().
		JobType(taskType).
		Handler(handlerFunc).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}
