package observability

import (
	"context"
	"strings"

	"github.com/riskibarqy/sports-sync/internal/config"
	"github.com/riskibarqy/sports-sync/internal/platform/logging"
	"github.com/uptrace/uptrace-go/uptrace"
	"go.opentelemetry.io/otel/attribute"
)

func uptraceActive(cfg config.Config) bool {
	return cfg.UptraceEnabled && strings.TrimSpace(cfg.UptraceDSN) != ""
}

// syncResource tags every span and log with the pipeline it came from, so a
// CLI run and the API scheduler can be told apart in Uptrace.
func syncResource(cfg config.Config) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("sync.provider", cfg.SyncProvider),
		attribute.String("sync.rate_limit_store", cfg.RateLimitStore),
		attribute.String("sync.cache_driver", cfg.CacheDriver),
		attribute.String("storage.driver", cfg.StorageDriver),
	}
}

// startUptrace installs the global OpenTelemetry providers and, with
// UPTRACE_LOGS_ENABLED, mirrors log records into the OTel log pipeline.
func startUptrace(cfg config.Config, logger *logging.Logger) func(context.Context) error {
	logging.SetMirror(nil)
	if !uptraceActive(cfg) {
		logger.Debug("uptrace disabled", "enabled", cfg.UptraceEnabled)
		return func(context.Context) error { return nil }
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithLoggingEnabled(cfg.UptraceLogsEnabled),
		uptrace.WithResourceAttributes(syncResource(cfg)...),
	)
	if cfg.UptraceLogsEnabled {
		logging.SetMirror(newUptraceLogMirror(cfg.ServiceVersion))
	}
	logger.Info("uptrace enabled", "logs_enabled", cfg.UptraceLogsEnabled, "provider", cfg.SyncProvider)

	return func(ctx context.Context) error {
		logging.SetMirror(nil)
		return uptrace.Shutdown(ctx)
	}
}
